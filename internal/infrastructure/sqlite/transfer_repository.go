package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, sku, product_name, quantity, from_location, to_location, status, notes, shipment_ref, user_id, created_at, resolved_at`

type transferRow struct {
	ID           string         `db:"id"`
	SKU          string         `db:"sku"`
	ProductName  string         `db:"product_name"`
	Quantity     int64          `db:"quantity"`
	FromLocation string         `db:"from_location"`
	ToLocation   string         `db:"to_location"`
	Status       string         `db:"status"`
	Notes        string         `db:"notes"`
	ShipmentRef  string         `db:"shipment_ref"`
	UserID       string         `db:"user_id"`
	CreatedAt    string         `db:"created_at"`
	ResolvedAt   sql.NullString `db:"resolved_at"`
}

func (r transferRow) toEntity() *entity.Transfer {
	t := &entity.Transfer{
		ID:           r.ID,
		SKU:          r.SKU,
		ProductName:  r.ProductName,
		Quantity:     r.Quantity,
		FromLocation: entity.Location(r.FromLocation),
		ToLocation:   entity.Location(r.ToLocation),
		Status:       entity.TransferStatus(r.Status),
		Notes:        r.Notes,
		ShipmentRef:  r.ShipmentRef,
		UserID:       r.UserID,
		CreatedAt:    parseTime(r.CreatedAt),
	}
	if r.ResolvedAt.Valid {
		ts := parseTime(r.ResolvedAt.String)
		t.ResolvedAt = &ts
	}
	return t
}

func nullableTime(t *entity.Transfer) any {
	if t.ResolvedAt == nil {
		return nil
	}
	return formatTime(*t.ResolvedAt)
}

// TransferRepo traslados sobre SQLite.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar db o tx.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste un traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.ExecContext(ctx, `INSERT INTO transfers (`+transferColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.SKU, t.ProductName, t.Quantity, string(t.FromLocation), string(t.ToLocation),
		string(t.Status), t.Notes, t.ShipmentRef, t.UserID, formatTime(t.CreatedAt), nullableTime(t),
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// GetByID obtiene un traslado; (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	var row transferRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+transferColumns+` FROM transfers WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate equivale a GetByID en SQLite (escritor único).
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

// UpdateStatus guarda estado, notas y fecha de resolución.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.ExecContext(ctx, `UPDATE transfers SET status = ?, notes = ?, resolved_at = ? WHERE id = ?`,
		string(t.Status), t.Notes, nullableTime(t), t.ID)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// List traslados filtrados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var where []string
	var args []any
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ShipmentRef != "" {
		where = append(where, "shipment_ref = ?")
		args = append(args, filter.ShipmentRef)
	}
	query := `SELECT ` + transferColumns + ` FROM transfers`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, sku"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []transferRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	out := make([]*entity.Transfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}
