package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

type movementRow struct {
	ID           string `db:"id"`
	SKU          string `db:"sku"`
	ProductName  string `db:"product_name"`
	MovementType string `db:"movement_type"`
	Quantity     int64  `db:"quantity"`
	Location     string `db:"location"`
	Reason       string `db:"reason"`
	UserID       string `db:"user_id"`
	TransferID   string `db:"transfer_id"`
	CreatedAt    string `db:"created_at"`
}

// MovementRepo libro de movimientos sobre SQLite (solo inserción y lectura).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar db o tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega una entrada al libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, sku, product_name, movement_type, quantity, location, reason, user_id, transfer_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.SKU, m.ProductName, string(m.MovementType), m.Quantity, string(m.Location),
		m.Reason, m.UserID, m.TransferID, formatTime(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List movimientos filtrados, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var where []string
	var args []any
	if filter.SKU != "" {
		where = append(where, "sku = ?")
		args = append(args, filter.SKU)
	}
	if filter.Location != nil {
		where = append(where, "location = ?")
		args = append(args, string(*filter.Location))
	}
	if filter.MovementType != "" {
		where = append(where, "movement_type = ?")
		args = append(args, string(filter.MovementType))
	}
	if filter.Reason != "" {
		where = append(where, "reason = ?")
		args = append(args, filter.Reason)
	}
	if filter.Since != nil {
		where = append(where, "created_at >= ?")
		args = append(args, formatTime(*filter.Since))
	}

	query := `SELECT id, sku, product_name, movement_type, quantity, location, reason, user_id, transfer_id, created_at
		FROM stock_movements`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]*entity.StockMovement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.StockMovement{
			ID:           row.ID,
			SKU:          row.SKU,
			ProductName:  row.ProductName,
			MovementType: entity.MovementType(row.MovementType),
			Quantity:     row.Quantity,
			Location:     entity.Location(row.Location),
			Reason:       row.Reason,
			UserID:       row.UserID,
			TransferID:   row.TransferID,
			CreatedAt:    parseTime(row.CreatedAt),
		})
	}
	return out, nil
}

// CountSince cuenta movimientos desde since (inclusive).
func (r *MovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= ?`, formatTime(since)); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
