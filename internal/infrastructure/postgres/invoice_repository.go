package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.ConfirmedInvoiceRepository = (*ConfirmedInvoiceRepo)(nil)

// ConfirmedInvoiceRepo facturas de proveedor ya aplicadas, sobre PostgreSQL.
type ConfirmedInvoiceRepo struct {
	q Querier
}

// NewConfirmedInvoiceRepository construye el adaptador. Pasar pool o tx.
func NewConfirmedInvoiceRepository(q Querier) *ConfirmedInvoiceRepo {
	return &ConfirmedInvoiceRepo{q: q}
}

// GetByNumber obtiene la factura confirmada; (nil, nil) si no existe.
func (r *ConfirmedInvoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.ConfirmedInvoice, error) {
	var inv entity.ConfirmedInvoice
	var loc string
	err := r.q.QueryRow(ctx, `
		SELECT invoice_number, supplier, location, total_processed, items_ok, items_failed, user_id, confirmed_at
		FROM confirmed_invoices WHERE invoice_number = $1`, invoiceNumber).Scan(
		&inv.InvoiceNumber, &inv.Supplier, &loc, &inv.TotalProcessed,
		&inv.ItemsOK, &inv.ItemsFailed, &inv.UserID, &inv.ConfirmedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get confirmed invoice: %w", err)
	}
	inv.Location = entity.Location(loc)
	return &inv, nil
}

// Create registra la factura; ErrDuplicate si el número ya existe.
func (r *ConfirmedInvoiceRepo) Create(ctx context.Context, inv *entity.ConfirmedInvoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO confirmed_invoices (invoice_number, supplier, location, total_processed, items_ok, items_failed, user_id, confirmed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		inv.InvoiceNumber, inv.Supplier, string(inv.Location), inv.TotalProcessed,
		inv.ItemsOK, inv.ItemsFailed, inv.UserID, inv.ConfirmedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.InvoiceNumber)
		}
		return fmt.Errorf("create confirmed invoice: %w", err)
	}
	return nil
}

// Update reescribe totales y fecha; ErrNotFound si la factura no existe.
func (r *ConfirmedInvoiceRepo) Update(ctx context.Context, inv *entity.ConfirmedInvoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE confirmed_invoices
		SET total_processed = $1, items_ok = $2, items_failed = $3, user_id = $4, confirmed_at = $5
		WHERE invoice_number = $6`,
		inv.TotalProcessed, inv.ItemsOK, inv.ItemsFailed, inv.UserID, inv.ConfirmedAt, inv.InvoiceNumber,
	)
	if err != nil {
		return fmt.Errorf("update confirmed invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, inv.InvoiceNumber)
	}
	return nil
}
