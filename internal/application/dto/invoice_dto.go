package dto

import "github.com/shopspring/decimal"

// OCRItem línea extraída de una factura de proveedor.
type OCRItem struct {
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Description string          `json:"description"`
}

// OCRResult salida del proveedor de OCR (modelo de visión).
type OCRResult struct {
	InvoiceNumber string          `json:"invoiceNumber"`
	Supplier      string          `json:"supplier"`
	Date          string          `json:"date"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Confidence    float64         `json:"confidence"`
	Items         []OCRItem       `json:"items"`
}

// ConfirmInvoiceRequest cuerpo de POST /api/warehouse/confirm-invoice.
type ConfirmInvoiceRequest struct {
	InvoiceNumber string    `json:"invoiceNumber"`
	Supplier      string    `json:"supplier"`
	Items         []OCRItem `json:"items"`
	Location      string    `json:"location"`
}

// InvoiceItemResult resultado por línea de la confirmación.
// AlreadyApplied marca líneas que ya entraron al inventario en una confirmación anterior.
type InvoiceItemResult struct {
	SKU            string `json:"sku"`
	Description    string `json:"description,omitempty"`
	Quantity       int64  `json:"quantity"`
	OK             bool   `json:"ok"`
	AlreadyApplied bool   `json:"alreadyApplied,omitempty"`
	MovementID     string `json:"movementId,omitempty"`
	Error          string `json:"error,omitempty"`
}

// ConfirmInvoiceResult totales de la confirmación.
type ConfirmInvoiceResult struct {
	InvoiceNumber  string              `json:"invoiceNumber"`
	TotalProcessed int64               `json:"totalProcessed"`
	Items          []InvoiceItemResult `json:"items"`
}

// ConfirmInvoiceResponse envoltorio {results: {...}} de la respuesta HTTP.
type ConfirmInvoiceResponse struct {
	Results ConfirmInvoiceResult `json:"results"`
}
