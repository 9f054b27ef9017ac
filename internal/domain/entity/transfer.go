package entity

import "time"

// TransferStatus estado del traslado entre ubicaciones.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferRejected  TransferStatus = "rejected"
)

// Valid indica si el estado es conocido.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferPending, TransferCompleted, TransferRejected:
		return true
	}
	return false
}

// Transfer traslado de un SKU desde FromLocation hacia ToLocation.
// Al completarse produce exactamente dos movimientos: out en origen, in en destino.
type Transfer struct {
	ID           string
	SKU          string
	ProductName  string
	Quantity     int64
	FromLocation Location
	ToLocation   Location
	Status       TransferStatus
	Notes        string
	ShipmentRef  string
	UserID       string
	CreatedAt    time.Time
	ResolvedAt   *time.Time
}

// IsResolved indica si el traslado ya está en un estado terminal.
func (t *Transfer) IsResolved() bool {
	return t.Status == TransferCompleted || t.Status == TransferRejected
}
