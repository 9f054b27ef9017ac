package entity

import "time"

// ConfirmedInvoice registro de una factura de proveedor ya aplicada al inventario.
// InvoiceNumber es único. Mientras ItemsFailed > 0 la factura admite confirmaciones
// complementarias que aplican solo las líneas que faltan.
type ConfirmedInvoice struct {
	InvoiceNumber  string
	Supplier       string
	Location       Location
	TotalProcessed int64
	ItemsOK        int
	ItemsFailed    int
	UserID         string
	ConfirmedAt    time.Time
}
