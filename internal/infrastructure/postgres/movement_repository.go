package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL. Solo inserción y lectura: nunca UPDATE/DELETE.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx.
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create agrega una entrada al libro.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_movements (id, sku, product_name, movement_type, quantity, location, reason, user_id, transfer_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.SKU, m.ProductName, string(m.MovementType), m.Quantity, string(m.Location),
		m.Reason, m.UserID, m.TransferID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// List movimientos filtrados, más recientes primero.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.StockMovement, error) {
	var w whereBuilder
	if filter.SKU != "" {
		w.add("sku = ?", filter.SKU)
	}
	if filter.Location != nil {
		w.add("location = ?", string(*filter.Location))
	}
	if filter.MovementType != "" {
		w.add("movement_type = ?", string(filter.MovementType))
	}
	if filter.Reason != "" {
		w.add("reason = ?", filter.Reason)
	}
	if filter.Since != nil {
		w.add("created_at >= ?", *filter.Since)
	}
	query := `SELECT id, sku, product_name, movement_type, quantity, location, reason, user_id, transfer_id, created_at
		FROM stock_movements` + w.sql() + ` ORDER BY created_at DESC, id`
	if filter.Limit > 0 {
		query += " LIMIT " + w.next(filter.Limit)
		query += " OFFSET " + w.next(filter.Offset)
	}

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var mt, loc string
		if err := rows.Scan(&m.ID, &m.SKU, &m.ProductName, &mt, &m.Quantity, &loc,
			&m.Reason, &m.UserID, &m.TransferID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		m.MovementType = entity.MovementType(mt)
		m.Location = entity.Location(loc)
		list = append(list, &m)
	}
	return list, rows.Err()
}

// CountSince cuenta movimientos desde since (inclusive).
func (r *MovementRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock_movements WHERE created_at >= $1`, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}
