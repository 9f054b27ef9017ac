package ports

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// MovementPublisher publica eventos de movimientos ya confirmados (commit hecho).
// La publicación es best effort: un error se registra, nunca revierte el movimiento.
type MovementPublisher interface {
	PublishMovements(ctx context.Context, movements ...*entity.StockMovement) error
}
