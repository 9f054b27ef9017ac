package dto

import "time"

// RecordMovementRequest cuerpo de POST /api/warehouse/movements.
type RecordMovementRequest struct {
	SKU          string `json:"sku"`
	MovementType string `json:"movement_type"` // in | out
	Quantity     int64  `json:"quantity"`
	Location     string `json:"location"`
	Reason       string `json:"reason"`
}

// MovementQuery filtros de GET /api/warehouse/movements.
type MovementQuery struct {
	SKU      string `query:"sku"`
	Location string `query:"location"`
	Type     string `query:"type"`
	PageRequest
}

// MovementResponse entrada del libro de movimientos.
type MovementResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku"`
	ProductName  string    `json:"productName"`
	MovementType string    `json:"movementType"`
	Quantity     int64     `json:"quantity"`
	Location     string    `json:"location"`
	Reason       string    `json:"reason"`
	UserID       string    `json:"userId"`
	TransferID   string    `json:"transferId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
