package inventory

import (
	"context"
	"fmt"
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
	defaultMovementLimit = 50
	maxMovementLimit     = 500
	maxExportRows        = 10000
)

// MovementUseCase camino de escritura del libro de movimientos: cada movimiento actualiza
// el registro (sku, ubicación) con bloqueo de fila (SELECT FOR UPDATE) y Commit/Rollback.
type MovementUseCase struct {
	txRunner  TxRunner
	movements repository.MovementRepository
	publisher ports.MovementPublisher
	exporter  ports.MovementExporter
	log       *logger.Logger
	now       func() time.Time
}

// NewMovementUseCase construye el caso de uso. exporter puede ser nil (sin exportación).
func NewMovementUseCase(
	txRunner TxRunner,
	movements repository.MovementRepository,
	publisher ports.MovementPublisher,
	exporter ports.MovementExporter,
	log *logger.Logger,
) *MovementUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &MovementUseCase{
		txRunner:  txRunner,
		movements: movements,
		publisher: publisher,
		exporter:  exporter,
		log:       log.Named("movements"),
		now:       time.Now,
	}
}

// MovementInput entrada de RecordMovement.
type MovementInput struct {
	SKU          string
	MovementType entity.MovementType
	Quantity     int64
	Location     entity.Location
	Reason       string
	UserID       string
}

func (in MovementInput) validate() error {
	switch {
	case strings.TrimSpace(in.SKU) == "":
		return fmt.Errorf("%w: sku es obligatorio", domain.ErrInvalidInput)
	case in.Quantity <= 0:
		return fmt.Errorf("%w: quantity debe ser mayor que cero", domain.ErrInvalidInput)
	case !in.MovementType.Valid():
		return fmt.Errorf("%w: movement_type debe ser in u out", domain.ErrInvalidInput)
	case !in.Location.Valid():
		return fmt.Errorf("%w: location %q no válida", domain.ErrInvalidInput, in.Location)
	}
	return nil
}

// RecordMovement valida, aplica el movimiento en una transacción y publica el evento tras el commit.
// Un "out" que dejaría el stock negativo se rechaza con ErrInsufficientStock; un SKU
// desconocido con ErrNotFound.
func (uc *MovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*dto.MovementResponse, error) {
	in.SKU = strings.TrimSpace(in.SKU)
	if err := in.validate(); err != nil {
		return nil, err
	}

	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		product, err := lookupProduct(ctx, repos.Products, in.SKU)
		if err != nil {
			return err
		}
		mov, err = applyMovement(ctx, repos, product, movementChange{
			movementType: in.MovementType,
			quantity:     in.Quantity,
			location:     in.Location,
			reason:       in.Reason,
			userID:       in.UserID,
		}, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, mov)
	resp := toMovementResponse(mov)
	return &resp, nil
}

// ListMovements consulta el libro con filtros opcionales, más recientes primero.
func (uc *MovementUseCase) ListMovements(ctx context.Context, q dto.MovementQuery) ([]dto.MovementResponse, error) {
	q.DefaultPage(defaultMovementLimit, maxMovementLimit)
	filter, err := movementFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit, filter.Offset = q.Limit, q.Offset
	return uc.list(ctx, filter)
}

// ExportMovements genera la hoja de cálculo de los movimientos que cumplen el filtro.
func (uc *MovementUseCase) ExportMovements(ctx context.Context, q dto.MovementQuery) ([]byte, error) {
	if uc.exporter == nil {
		return nil, fmt.Errorf("exportación no configurada")
	}
	filter, err := movementFilter(q)
	if err != nil {
		return nil, err
	}
	filter.Limit = maxExportRows
	items, err := uc.list(ctx, filter)
	if err != nil {
		return nil, err
	}
	return uc.exporter.ExportMovements(ctx, items)
}

func (uc *MovementUseCase) list(ctx context.Context, filter repository.MovementFilter) ([]dto.MovementResponse, error) {
	list, err := uc.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// publish envía los eventos sin afectar el resultado: el movimiento ya está confirmado.
func (uc *MovementUseCase) publish(ctx context.Context, movements ...*entity.StockMovement) {
	if uc.publisher == nil || len(movements) == 0 {
		return
	}
	if err := uc.publisher.PublishMovements(ctx, movements...); err != nil {
		uc.log.Warn().Err(err).Int("count", len(movements)).Msg("no se pudo publicar evento de movimiento")
	}
}

func movementFilter(q dto.MovementQuery) (repository.MovementFilter, error) {
	f := repository.MovementFilter{SKU: strings.TrimSpace(q.SKU)}
	if q.Location != "" {
		loc, ok := entity.ParseLocation(q.Location)
		if !ok {
			return f, fmt.Errorf("%w: location %q no válida", domain.ErrInvalidInput, q.Location)
		}
		f.Location = &loc
	}
	if q.Type != "" {
		t := entity.MovementType(q.Type)
		if !t.Valid() {
			return f, fmt.Errorf("%w: type debe ser in u out", domain.ErrInvalidInput)
		}
		f.MovementType = t
	}
	return f, nil
}

// movementChange datos de un movimiento a aplicar dentro de una transacción ya abierta.
type movementChange struct {
	movementType entity.MovementType
	quantity     int64
	location     entity.Location
	reason       string
	userID       string
	transferID   string
}

// lookupProduct resuelve el SKU en el catálogo; desconocido → ErrNotFound.
func lookupProduct(ctx context.Context, products repository.ProductRepository, sku string) (*entity.Product, error) {
	product, err := products.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, sku)
	}
	return product, nil
}

// applyMovement bloquea la fila (GetForUpdate la crea en cero si falta), rechaza stock negativo,
// aplica la cantidad como delta y agrega la entrada al libro. Debe llamarse dentro de TxRunner.Run.
func applyMovement(ctx context.Context, repos TxRepos, product *entity.Product, chg movementChange, now time.Time) (*entity.StockMovement, error) {
	rec, err := repos.Inventory.GetForUpdate(ctx, product.SKU, chg.location, product.DefaultMinStock)
	if err != nil {
		return nil, err
	}

	delta := chg.movementType.Sign() * chg.quantity
	if rec.Quantity+delta < 0 {
		return nil, fmt.Errorf("%w: %s en %s tiene %d, se solicitan %d",
			domain.ErrInsufficientStock, product.SKU, chg.location, rec.Quantity, chg.quantity)
	}
	if _, err := repos.Inventory.AddQuantity(ctx, product.SKU, chg.location, delta, now); err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:           uuid.New().String(),
		SKU:          product.SKU,
		ProductName:  product.Name,
		MovementType: chg.movementType,
		Quantity:     chg.quantity,
		Location:     chg.location,
		Reason:       chg.reason,
		UserID:       chg.userID,
		TransferID:   chg.transferID,
		CreatedAt:    now,
	}
	if err := repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:           m.ID,
		SKU:          m.SKU,
		ProductName:  m.ProductName,
		MovementType: string(m.MovementType),
		Quantity:     m.Quantity,
		Location:     string(m.Location),
		Reason:       m.Reason,
		UserID:       m.UserID,
		TransferID:   m.TransferID,
		CreatedAt:    m.CreatedAt,
	}
}
