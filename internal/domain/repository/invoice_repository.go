package repository

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// ConfirmedInvoiceRepository registra las facturas de proveedor ya aplicadas.
// Create devuelve domain.ErrDuplicate si el número de factura ya existe.
// Update reescribe los totales tras una confirmación complementaria.
type ConfirmedInvoiceRepository interface {
	GetByNumber(ctx context.Context, invoiceNumber string) (*entity.ConfirmedInvoice, error)
	Create(ctx context.Context, invoice *entity.ConfirmedInvoice) error
	Update(ctx context.Context, invoice *entity.ConfirmedInvoice) error
}
