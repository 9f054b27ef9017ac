package dto

import "time"

// TransferItemRequest una línea del traslado.
type TransferItemRequest struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
}

// CreateTransferRequest cuerpo de POST /api/warehouse/transfers.
// Pending=true deja los traslados pendientes de aprobación, sin efecto en stock.
type CreateTransferRequest struct {
	Items          []TransferItemRequest `json:"items"`
	FromLocation   string                `json:"from_location"`
	ToLocation     string                `json:"to_location"`
	Notes          string                `json:"notes"`
	CreateShipment bool                  `json:"create_shipment"`
	Pending        bool                  `json:"pending"`
}

// RejectTransferRequest cuerpo opcional de POST /transfers/:id/reject.
type RejectTransferRequest struct {
	Notes string `json:"notes"`
}

// TransferQuery filtros de GET /api/warehouse/transfers.
type TransferQuery struct {
	Status string `query:"status"`
	PageRequest
}

// TransferResponse un traslado persistido.
type TransferResponse struct {
	ID           string     `json:"id"`
	SKU          string     `json:"sku"`
	ProductName  string     `json:"productName"`
	Quantity     int64      `json:"quantity"`
	FromLocation string     `json:"fromLocation"`
	ToLocation   string     `json:"toLocation"`
	Status       string     `json:"status"`
	Notes        string     `json:"notes"`
	ShipmentRef  string     `json:"shipmentRef,omitempty"`
	UserID       string     `json:"userId"`
	CreatedAt    time.Time  `json:"createdAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

// TransferItemError fallo de una línea; las demás líneas siguen procesándose.
type TransferItemError struct {
	SKU      string `json:"sku"`
	Quantity int64  `json:"quantity"`
	Error    string `json:"error"`
}

// TransferResult resultado con éxito parcial de un lote de traslados.
type TransferResult struct {
	Processed        []TransferResponse  `json:"processed"`
	Errors           []TransferItemError `json:"errors"`
	TotalTransferred int64               `json:"totalTransferred"`
	ShipmentRef      string              `json:"shipmentRef,omitempty"`
}

// TransferListResponse respuesta de GET /api/warehouse/transfers.
type TransferListResponse struct {
	Transfers []TransferResponse `json:"transfers"`
}
