package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

const transferColumns = `id, sku, product_name, quantity, from_location, to_location, status, notes, shipment_ref, user_id, created_at, resolved_at`

// TransferRepo traslados sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx.
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

func scanTransfer(row pgx.Row) (*entity.Transfer, error) {
	var t entity.Transfer
	var from, to, status string
	err := row.Scan(&t.ID, &t.SKU, &t.ProductName, &t.Quantity, &from, &to, &status,
		&t.Notes, &t.ShipmentRef, &t.UserID, &t.CreatedAt, &t.ResolvedAt)
	if err != nil {
		return nil, err
	}
	t.FromLocation = entity.Location(from)
	t.ToLocation = entity.Location(to)
	t.Status = entity.TransferStatus(status)
	return &t, nil
}

// Create persiste un traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `INSERT INTO transfers (`+transferColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.SKU, t.ProductName, t.Quantity, string(t.FromLocation), string(t.ToLocation),
		string(t.Status), t.Notes, t.ShipmentRef, t.UserID, t.CreatedAt, t.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

func (r *TransferRepo) getOne(ctx context.Context, query, id string) (*entity.Transfer, error) {
	t, err := scanTransfer(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// GetByID obtiene un traslado; (nil, nil) si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1`, id)
}

// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la tx.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.getOne(ctx, `SELECT `+transferColumns+` FROM transfers WHERE id = $1 FOR UPDATE`, id)
}

// UpdateStatus guarda estado, notas y fecha de resolución.
func (r *TransferRepo) UpdateStatus(ctx context.Context, t *entity.Transfer) error {
	_, err := r.q.Exec(ctx, `UPDATE transfers SET status = $1, notes = $2, resolved_at = $3 WHERE id = $4`,
		string(t.Status), t.Notes, t.ResolvedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update transfer: %w", err)
	}
	return nil
}

// List traslados filtrados, más recientes primero.
func (r *TransferRepo) List(ctx context.Context, filter repository.TransferFilter) ([]*entity.Transfer, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.add("status = ?", string(filter.Status))
	}
	if filter.ShipmentRef != "" {
		w.add("shipment_ref = ?", filter.ShipmentRef)
	}
	query := `SELECT ` + transferColumns + ` FROM transfers` + w.sql() + ` ORDER BY created_at DESC, sku`
	if filter.Limit > 0 {
		query += " LIMIT " + w.next(filter.Limit)
		query += " OFFSET " + w.next(filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	defer rows.Close()

	var list []*entity.Transfer
	for rows.Next() {
		t, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
