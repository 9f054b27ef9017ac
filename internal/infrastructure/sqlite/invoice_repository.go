package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.ConfirmedInvoiceRepository = (*ConfirmedInvoiceRepo)(nil)

// ConfirmedInvoiceRepo facturas de proveedor ya aplicadas, sobre SQLite.
type ConfirmedInvoiceRepo struct {
	q Querier
}

// NewConfirmedInvoiceRepository construye el adaptador. Pasar db o tx.
func NewConfirmedInvoiceRepository(q Querier) *ConfirmedInvoiceRepo {
	return &ConfirmedInvoiceRepo{q: q}
}

// GetByNumber obtiene la factura confirmada; (nil, nil) si no existe.
func (r *ConfirmedInvoiceRepo) GetByNumber(ctx context.Context, invoiceNumber string) (*entity.ConfirmedInvoice, error) {
	var row struct {
		InvoiceNumber  string `db:"invoice_number"`
		Supplier       string `db:"supplier"`
		Location       string `db:"location"`
		TotalProcessed int64  `db:"total_processed"`
		ItemsOK        int    `db:"items_ok"`
		ItemsFailed    int    `db:"items_failed"`
		UserID         string `db:"user_id"`
		ConfirmedAt    string `db:"confirmed_at"`
	}
	err := sqlx.GetContext(ctx, r.q, &row, `
		SELECT invoice_number, supplier, location, total_processed, items_ok, items_failed, user_id, confirmed_at
		FROM confirmed_invoices WHERE invoice_number = ?`, invoiceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get confirmed invoice: %w", err)
	}
	return &entity.ConfirmedInvoice{
		InvoiceNumber:  row.InvoiceNumber,
		Supplier:       row.Supplier,
		Location:       entity.Location(row.Location),
		TotalProcessed: row.TotalProcessed,
		ItemsOK:        row.ItemsOK,
		ItemsFailed:    row.ItemsFailed,
		UserID:         row.UserID,
		ConfirmedAt:    parseTime(row.ConfirmedAt),
	}, nil
}

// Create registra la factura; ErrDuplicate si el número ya existe.
func (r *ConfirmedInvoiceRepo) Create(ctx context.Context, inv *entity.ConfirmedInvoice) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO confirmed_invoices (invoice_number, supplier, location, total_processed, items_ok, items_failed, user_id, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.InvoiceNumber, inv.Supplier, string(inv.Location), inv.TotalProcessed,
		inv.ItemsOK, inv.ItemsFailed, inv.UserID, formatTime(inv.ConfirmedAt),
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
	res, err := r.q.ExecContext(ctx, `
		UPDATE confirmed_invoices
		SET total_processed = ?, items_ok = ?, items_failed = ?, user_id = ?, confirmed_at = ?
		WHERE invoice_number = ?`,
		inv.TotalProcessed, inv.ItemsOK, inv.ItemsFailed, inv.UserID, formatTime(inv.ConfirmedAt), inv.InvoiceNumber,
	)
	if err != nil {
		return fmt.Errorf("update confirmed invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, inv.InvoiceNumber)
	}
	return nil
}
