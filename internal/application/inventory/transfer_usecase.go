package inventory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

const (
	defaultTransferLimit = 50
	maxTransferLimit     = 200
)

// TransferUseCase flujo de traslados entre bodega y tienda.
// Cada línea se procesa en su propia transacción: un lote no es atómico en conjunto.
type TransferUseCase struct {
	txRunner  TxRunner
	transfers repository.TransferRepository
	publisher ports.MovementPublisher
	pdf       ports.ShipmentPDFGenerator
	log       *logger.Logger
	now       func() time.Time
}

// NewTransferUseCase construye el caso de uso. pdf puede ser nil (sin guía de despacho).
func NewTransferUseCase(
	txRunner TxRunner,
	transfers repository.TransferRepository,
	publisher ports.MovementPublisher,
	pdf ports.ShipmentPDFGenerator,
	log *logger.Logger,
) *TransferUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &TransferUseCase{
		txRunner:  txRunner,
		transfers: transfers,
		publisher: publisher,
		pdf:       pdf,
		log:       log.Named("transfers"),
		now:       time.Now,
	}
}

// TransferItem una línea del lote.
type TransferItem struct {
	SKU      string
	Quantity int64
}

// TransferInput entrada de CreateTransfer.
type TransferInput struct {
	Items          []TransferItem
	FromLocation   entity.Location
	ToLocation     entity.Location
	Notes          string
	CreateShipment bool
	Pending        bool
	UserID         string
}

// CreateTransferFromRequest adapta el request HTTP.
func (uc *TransferUseCase) CreateTransferFromRequest(ctx context.Context, userID string, in dto.CreateTransferRequest) (*dto.TransferResult, error) {
	items := make([]TransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, TransferItem{SKU: it.SKU, Quantity: it.Quantity})
	}
	return uc.CreateTransfer(ctx, TransferInput{
		Items:          items,
		FromLocation:   entity.Location(in.FromLocation),
		ToLocation:     entity.Location(in.ToLocation),
		Notes:          in.Notes,
		CreateShipment: in.CreateShipment,
		Pending:        in.Pending,
		UserID:         userID,
	})
}

// CreateTransfer procesa cada línea de forma independiente. Errores de una línea
// (cantidad inválida, SKU desconocido, stock insuficiente) se acumulan en Errors
// y no detienen las demás. Solo la validación del lote completo devuelve error.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, in TransferInput) (*dto.TransferResult, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: items no puede estar vacío", domain.ErrInvalidInput)
	}
	if !in.FromLocation.Valid() || !in.ToLocation.Valid() {
		return nil, fmt.Errorf("%w: ubicaciones de origen/destino no válidas", domain.ErrInvalidInput)
	}
	if in.FromLocation == in.ToLocation {
		return nil, fmt.Errorf("%w: origen y destino deben ser distintos", domain.ErrInvalidInput)
	}

	now := uc.now()
	result := &dto.TransferResult{
		Processed: []dto.TransferResponse{},
		Errors:    []dto.TransferItemError{},
	}
	if in.CreateShipment {
		result.ShipmentRef = NewShipmentRef(now)
	}

	for _, item := range in.Items {
		t, err := uc.processItem(ctx, in, item, result.ShipmentRef, now)
		if err != nil {
			uc.log.Warn().Err(err).Str("sku", item.SKU).Int64("quantity", item.Quantity).Msg("línea de traslado rechazada")
			result.Errors = append(result.Errors, dto.TransferItemError{
				SKU:      item.SKU,
				Quantity: item.Quantity,
				Error:    err.Error(),
			})
			continue
		}
		result.Processed = append(result.Processed, toTransferResponse(t))
		if t.Status == entity.TransferCompleted {
			result.TotalTransferred += t.Quantity
		}
	}

	uc.log.Info().
		Int("processed", len(result.Processed)).
		Int("errors", len(result.Errors)).
		Int64("total_transferred", result.TotalTransferred).
		Str("from", string(in.FromLocation)).
		Str("to", string(in.ToLocation)).
		Msg("lote de traslados procesado")
	return result, nil
}

func (uc *TransferUseCase) processItem(ctx context.Context, in TransferInput, item TransferItem, shipmentRef string, now time.Time) (*entity.Transfer, error) {
	sku := strings.TrimSpace(item.SKU)
	if sku == "" {
		return nil, fmt.Errorf("%w: sku es obligatorio", domain.ErrInvalidInput)
	}
	if item.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	}

	var t *entity.Transfer
	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		product, err := lookupProduct(ctx, repos.Products, sku)
		if err != nil {
			return err
		}
		t = &entity.Transfer{
			ID:           uuid.New().String(),
			SKU:          product.SKU,
			ProductName:  product.Name,
			Quantity:     item.Quantity,
			FromLocation: in.FromLocation,
			ToLocation:   in.ToLocation,
			Status:       entity.TransferPending,
			Notes:        in.Notes,
			ShipmentRef:  shipmentRef,
			UserID:       in.UserID,
			CreatedAt:    now,
		}
		if in.Pending {
			return repos.Transfers.Create(ctx, t)
		}
		movs, err = completeInTx(ctx, repos, product, t, in.UserID, now)
		if err != nil {
			return err
		}
		return repos.Transfers.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.publishMovements(ctx, movs)
	return t, nil
}

// CompleteTransfer aplica un traslado pendiente. Un traslado ya resuelto devuelve ErrConflict.
func (uc *TransferUseCase) CompleteTransfer(ctx context.Context, id, userID string) (*dto.TransferResponse, error) {
	var t *entity.Transfer
	var movs []*entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		t, err = lockPending(ctx, repos.Transfers, id)
		if err != nil {
			return err
		}
		product, err := lookupProduct(ctx, repos.Products, t.SKU)
		if err != nil {
			return err
		}
		movs, err = completeInTx(ctx, repos, product, t, userID, uc.now())
		if err != nil {
			return err
		}
		return repos.Transfers.UpdateStatus(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.publishMovements(ctx, movs)
	resp := toTransferResponse(t)
	return &resp, nil
}

// RejectTransfer marca un traslado pendiente como rechazado, sin efecto en stock.
func (uc *TransferUseCase) RejectTransfer(ctx context.Context, id, userID, notes string) (*dto.TransferResponse, error) {
	var t *entity.Transfer
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		var err error
		t, err = lockPending(ctx, repos.Transfers, id)
		if err != nil {
			return err
		}
		now := uc.now()
		t.Status = entity.TransferRejected
		t.ResolvedAt = &now
		if notes = strings.TrimSpace(notes); notes != "" {
			t.Notes = notes
		}
		return repos.Transfers.UpdateStatus(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("transfer_id", id).Str("user_id", userID).Msg("traslado rechazado")
	resp := toTransferResponse(t)
	return &resp, nil
}

// ListTransfers lista traslados, más recientes primero.
func (uc *TransferUseCase) ListTransfers(ctx context.Context, q dto.TransferQuery) (*dto.TransferListResponse, error) {
	q.DefaultPage(defaultTransferLimit, maxTransferLimit)
	filter := repository.TransferFilter{Limit: q.Limit, Offset: q.Offset}
	if q.Status != "" {
		s := entity.TransferStatus(q.Status)
		if !s.Valid() {
			return nil, fmt.Errorf("%w: status %q no válido", domain.ErrInvalidInput, q.Status)
		}
		filter.Status = s
	}
	list, err := uc.transfers.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := &dto.TransferListResponse{Transfers: make([]dto.TransferResponse, 0, len(list))}
	for _, t := range list {
		out.Transfers = append(out.Transfers, toTransferResponse(t))
	}
	return out, nil
}

// ShipmentPDF genera la guía de despacho de todos los traslados de un envío.
func (uc *TransferUseCase) ShipmentPDF(ctx context.Context, shipmentRef string) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	shipmentRef = strings.TrimSpace(shipmentRef)
	if shipmentRef == "" {
		return nil, fmt.Errorf("%w: referencia de envío vacía", domain.ErrInvalidInput)
	}
	list, err := uc.transfers.List(ctx, repository.TransferFilter{ShipmentRef: shipmentRef})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: envío %s", domain.ErrNotFound, shipmentRef)
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return uc.pdf.GenerateShipmentPDF(ctx, shipmentRef, items)
}

func (uc *TransferUseCase) publishMovements(ctx context.Context, movs []*entity.StockMovement) {
	if uc.publisher == nil || len(movs) == 0 {
		return
	}
	if err := uc.publisher.PublishMovements(ctx, movs...); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo publicar evento de traslado")
	}
}

// lockPending bloquea el traslado y exige que siga pendiente.
func lockPending(ctx context.Context, transfers repository.TransferRepository, id string) (*entity.Transfer, error) {
	t, err := transfers.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	if t.IsResolved() {
		return nil, fmt.Errorf("%w: el traslado ya está %s", domain.ErrConflict, t.Status)
	}
	return t, nil
}

// completeInTx escribe las dos patas (out en origen, in en destino) con el ID del traslado
// y lo marca completado. La pata out falla con ErrInsufficientStock si no alcanza.
// Las dos filas se bloquean antes en orden fijo de ubicación, de modo que traslados
// concurrentes en sentidos opuestos no se bloqueen mutuamente.
func completeInTx(ctx context.Context, repos TxRepos, product *entity.Product, t *entity.Transfer, userID string, now time.Time) ([]*entity.StockMovement, error) {
	if err := lockLocations(ctx, repos.Inventory, product, t.FromLocation, t.ToLocation); err != nil {
		return nil, err
	}
	reason := "traslado " + string(t.FromLocation) + " → " + string(t.ToLocation)
	out, err := applyMovement(ctx, repos, product, movementChange{
		movementType: entity.MovementOut,
		quantity:     t.Quantity,
		location:     t.FromLocation,
		reason:       reason,
		userID:       userID,
		transferID:   t.ID,
	}, now)
	if err != nil {
		return nil, err
	}
	in, err := applyMovement(ctx, repos, product, movementChange{
		movementType: entity.MovementIn,
		quantity:     t.Quantity,
		location:     t.ToLocation,
		reason:       reason,
		userID:       userID,
		transferID:   t.ID,
	}, now)
	if err != nil {
		return nil, err
	}
	t.Status = entity.TransferCompleted
	t.ResolvedAt = &now
	return []*entity.StockMovement{out, in}, nil
}

// lockLocations bloquea las filas de inventario del producto en orden alfabético de ubicación.
func lockLocations(ctx context.Context, inv repository.InventoryRepository, product *entity.Product, locations ...entity.Location) error {
	ordered := slices.Clone(locations)
	slices.Sort(ordered)
	for _, loc := range ordered {
		if _, err := inv.GetForUpdate(ctx, product.SKU, loc, product.DefaultMinStock); err != nil {
			return err
		}
	}
	return nil
}

// NewShipmentRef genera la referencia de envío SHP-YYYYMMDD-xxxxxx.
func NewShipmentRef(now time.Time) string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("SHP-%s-%s", now.Format("20060102"), strings.ToUpper(id[:6]))
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:           t.ID,
		SKU:          t.SKU,
		ProductName:  t.ProductName,
		Quantity:     t.Quantity,
		FromLocation: string(t.FromLocation),
		ToLocation:   string(t.ToLocation),
		Status:       string(t.Status),
		Notes:        t.Notes,
		ShipmentRef:  t.ShipmentRef,
		UserID:       t.UserID,
		CreatedAt:    t.CreatedAt,
		ResolvedAt:   t.ResolvedAt,
	}
}
