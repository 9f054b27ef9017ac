package repository

import (
	"context"
	"time"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// MovementFilter filtros para consultar el libro de movimientos. Campos vacíos no filtran.
// Limit <= 0 significa sin límite (lo usa el agregador de analítica).
type MovementFilter struct {
	SKU          string
	Location     *entity.Location
	MovementType entity.MovementType
	Reason       string
	Since        *time.Time
	Limit        int
	Offset       int
}

// MovementRepository puerto del libro de movimientos. Es append-only: no expone Update ni Delete.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.StockMovement, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
}
