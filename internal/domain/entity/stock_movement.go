package entity

import "time"

// MovementType sentido del movimiento de stock.
type MovementType string

const (
	MovementIn  MovementType = "in"  // entrada
	MovementOut MovementType = "out" // salida
)

// Valid indica si el tipo es in u out.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (t MovementType) Sign() int64 {
	if t == MovementOut {
		return -1
	}
	return 1
}

// StockMovement entrada inmutable del libro de movimientos (append-only).
// Quantity siempre es positiva; el sentido lo da MovementType.
type StockMovement struct {
	ID           string
	SKU          string
	ProductName  string
	MovementType MovementType
	Quantity     int64
	Location     Location
	Reason       string
	UserID       string
	TransferID   string // vacío salvo que sea una pata de un traslado
	CreatedAt    time.Time
}

// IsTransferLeg indica si el movimiento forma parte de un traslado entre ubicaciones.
func (m *StockMovement) IsTransferLeg() bool {
	return m.TransferID != ""
}
