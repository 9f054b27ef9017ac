package broker

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

var _ ports.MovementPublisher = (*LogPublisher)(nil)

// LogPublisher registra los eventos en el log cuando no hay Kafka configurado.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador de respaldo.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Named("events")}
}

// PublishMovements escribe un registro debug por movimiento.
func (p *LogPublisher) PublishMovements(_ context.Context, movements ...*entity.StockMovement) error {
	for _, m := range movements {
		p.log.Debug().
			Str("event_type", EventMovementRecorded).
			Str("movement_id", m.ID).
			Str("sku", m.SKU).
			Str("type", string(m.MovementType)).
			Int64("quantity", m.Quantity).
			Str("location", string(m.Location)).
			Msg("evento de movimiento")
	}
	return nil
}
