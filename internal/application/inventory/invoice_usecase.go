package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/catalog"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

const invoiceLockTTL = 2 * time.Minute

// InvoiceUseCase aplica al inventario las líneas de una factura de proveedor ya extraídas por OCR.
// Cada línea es un RecordMovement "in"; las fallas se acumulan por línea.
type InvoiceUseCase struct {
	movements *MovementUseCase
	products  repository.ProductRepository
	invoices  repository.ConfirmedInvoiceRepository
	locker    ports.Locker
	log       *logger.Logger
	now       func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	movements *MovementUseCase,
	products repository.ProductRepository,
	invoices repository.ConfirmedInvoiceRepository,
	locker ports.Locker,
	log *logger.Logger,
) *InvoiceUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		movements: movements,
		products:  products,
		invoices:  invoices,
		locker:    locker,
		log:       log.Named("invoices"),
		now:       time.Now,
	}
}

// ConfirmInvoiceInput entrada de ConfirmInvoice.
type ConfirmInvoiceInput struct {
	InvoiceNumber string
	Supplier      string
	Items         []dto.OCRItem
	Location      entity.Location
	UserID        string
}

// ConfirmInvoiceFromRequest adapta el request HTTP.
func (uc *InvoiceUseCase) ConfirmInvoiceFromRequest(ctx context.Context, userID string, in dto.ConfirmInvoiceRequest) (*dto.ConfirmInvoiceResult, error) {
	return uc.ConfirmInvoice(ctx, ConfirmInvoiceInput{
		InvoiceNumber: in.InvoiceNumber,
		Supplier:      in.Supplier,
		Items:         in.Items,
		Location:      entity.Location(in.Location),
		UserID:        userID,
	})
}

// ConfirmInvoice registra una entrada por línea con motivo "invoice <número>".
// El lock evita confirmaciones concurrentes del mismo número. Una factura con todas sus
// líneas aplicadas ya no admite otra confirmación (ErrConflict). Si quedaron líneas
// fallidas, una confirmación posterior en la misma ubicación aplica solo las líneas que
// aún no están en el libro; las demás vuelven con AlreadyApplied. Si ninguna línea se
// aplica en la primera confirmación, la factura no queda registrada.
func (uc *InvoiceUseCase) ConfirmInvoice(ctx context.Context, in ConfirmInvoiceInput) (*dto.ConfirmInvoiceResult, error) {
	in.InvoiceNumber = strings.TrimSpace(in.InvoiceNumber)
	if in.InvoiceNumber == "" {
		return nil, fmt.Errorf("%w: invoiceNumber es obligatorio", domain.ErrInvalidInput)
	}
	if !in.Location.Valid() {
		return nil, fmt.Errorf("%w: location %q no válida", domain.ErrInvalidInput, in.Location)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items no puede estar vacío", domain.ErrInvalidInput)
	}

	release, err := uc.locker.Acquire(ctx, "invoice:"+in.InvoiceNumber, invoiceLockTTL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			uc.log.Warn().Err(err).Str("invoice", in.InvoiceNumber).Msg("no se pudo liberar lock de factura")
		}
	}()

	reason := invoiceReason(in.InvoiceNumber)
	existing, err := uc.invoices.GetByNumber(ctx, in.InvoiceNumber)
	if err != nil {
		return nil, err
	}
	var applied map[string]int
	if existing != nil {
		if existing.ItemsFailed == 0 {
			return nil, fmt.Errorf("%w: la factura %s ya fue confirmada el %s",
				domain.ErrConflict, in.InvoiceNumber, existing.ConfirmedAt.Format(time.DateOnly))
		}
		if existing.Location != in.Location {
			return nil, fmt.Errorf("%w: la factura %s se confirmó en %s",
				domain.ErrConflict, in.InvoiceNumber, existing.Location)
		}
		if applied, err = uc.appliedLines(ctx, reason, in.Location); err != nil {
			return nil, err
		}
	}

	index, err := uc.nameIndex(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	result := &dto.ConfirmInvoiceResult{
		InvoiceNumber: in.InvoiceNumber,
		Items:         make([]dto.InvoiceItemResult, 0, len(in.Items)),
	}
	okCount, skipped := 0, 0
	for _, item := range in.Items {
		r := dto.InvoiceItemResult{SKU: strings.TrimSpace(item.SKU), Description: item.Description, Quantity: item.Quantity}
		if r.SKU == "" && index != nil {
			if p := index.Match(item.Description); p != nil {
				r.SKU = p.SKU
			}
		}
		if r.SKU == "" {
			r.Error = fmt.Sprintf("%v: no se pudo resolver el producto %q", domain.ErrNotFound, item.Description)
			result.Items = append(result.Items, r)
			continue
		}
		if applied[r.SKU] > 0 {
			applied[r.SKU]--
			r.AlreadyApplied = true
			result.Items = append(result.Items, r)
			skipped++
			continue
		}

		mov, err := uc.movements.RecordMovement(ctx, MovementInput{
			SKU:          r.SKU,
			MovementType: entity.MovementIn,
			Quantity:     item.Quantity,
			Location:     in.Location,
			Reason:       reason,
			UserID:       in.UserID,
		})
		if err != nil {
			uc.log.Warn().Err(err).Str("invoice", in.InvoiceNumber).Str("sku", r.SKU).Msg("línea de factura rechazada")
			r.Error = err.Error()
			result.Items = append(result.Items, r)
			continue
		}
		r.OK = true
		r.MovementID = mov.ID
		result.TotalProcessed += item.Quantity
		result.Items = append(result.Items, r)
		okCount++
	}
	failed := len(in.Items) - okCount - skipped

	switch {
	case existing != nil:
		existing.TotalProcessed += result.TotalProcessed
		existing.ItemsOK += okCount
		existing.ItemsFailed = failed
		existing.UserID = in.UserID
		existing.ConfirmedAt = uc.now()
		if err := uc.invoices.Update(ctx, existing); err != nil {
			uc.log.Error().Err(err).Str("invoice", in.InvoiceNumber).Msg("no se pudo actualizar la factura confirmada")
		}
	case okCount > 0:
		record := &entity.ConfirmedInvoice{
			InvoiceNumber:  in.InvoiceNumber,
			Supplier:       strings.TrimSpace(in.Supplier),
			Location:       in.Location,
			TotalProcessed: result.TotalProcessed,
			ItemsOK:        okCount,
			ItemsFailed:    failed,
			UserID:         in.UserID,
			ConfirmedAt:    uc.now(),
		}
		if err := uc.invoices.Create(ctx, record); err != nil && !errors.Is(err, domain.ErrDuplicate) {
			// Los movimientos ya están aplicados; se informa el resultado igualmente.
			uc.log.Error().Err(err).Str("invoice", in.InvoiceNumber).Msg("no se pudo registrar la factura confirmada")
		}
	}

	uc.log.Info().
		Str("invoice", in.InvoiceNumber).
		Bool("follow_up", existing != nil).
		Int("items_ok", okCount).
		Int("items_skipped", skipped).
		Int("items_failed", failed).
		Int64("total_processed", result.TotalProcessed).
		Msg("factura confirmada")
	return result, nil
}

// appliedLines cuenta por SKU las entradas ya registradas con el motivo de la factura.
func (uc *InvoiceUseCase) appliedLines(ctx context.Context, reason string, location entity.Location) (map[string]int, error) {
	list, err := uc.movements.movements.List(ctx, repository.MovementFilter{
		Location:     &location,
		MovementType: entity.MovementIn,
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	applied := make(map[string]int, len(list))
	for _, m := range list {
		applied[m.SKU]++
	}
	return applied, nil
}

func invoiceReason(invoiceNumber string) string {
	return "invoice " + invoiceNumber
}

// nameIndex carga el catálogo solo si alguna línea llega sin SKU.
func (uc *InvoiceUseCase) nameIndex(ctx context.Context, items []dto.OCRItem) (*catalog.NameIndex, error) {
	for _, it := range items {
		if strings.TrimSpace(it.SKU) == "" {
			products, err := uc.products.List(ctx, true)
			if err != nil {
				return nil, err
			}
			return catalog.NewNameIndex(products), nil
		}
	}
	return nil, nil
}
