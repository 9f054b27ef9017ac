// Package broker publica los eventos de movimientos de stock.
package broker

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// EventMovementRecorded tipo de evento emitido por cada entrada del libro.
const EventMovementRecorded = "stock.movement.recorded"

// MovementEvent sobre del evento.
type MovementEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	Payload   MovementPayload `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// MovementPayload datos del movimiento.
type MovementPayload struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	ProductName  string    `json:"product_name"`
	MovementType string    `json:"movement_type"`
	Quantity     int64     `json:"quantity"`
	Location     string    `json:"location"`
	Reason       string    `json:"reason"`
	UserID       string    `json:"user_id"`
	TransferID   string    `json:"transfer_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewMovementEvent arma el evento para un movimiento.
func NewMovementEvent(m *entity.StockMovement, now time.Time) MovementEvent {
	return MovementEvent{
		EventID:   uuid.New().String(),
		EventType: EventMovementRecorded,
		Timestamp: now.UTC(),
		Payload: MovementPayload{
			ID:           m.ID,
			SKU:          m.SKU,
			ProductName:  m.ProductName,
			MovementType: string(m.MovementType),
			Quantity:     m.Quantity,
			Location:     string(m.Location),
			Reason:       m.Reason,
			UserID:       m.UserID,
			TransferID:   m.TransferID,
			CreatedAt:    m.CreatedAt.UTC(),
		},
	}
}

func (e MovementEvent) encode() ([]byte, error) {
	return json.Marshal(e)
}
