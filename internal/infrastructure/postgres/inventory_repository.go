package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) get(ctx context.Context, query, sku string, location entity.Location) (*entity.InventoryRecord, error) {
	rec := &entity.InventoryRecord{SKU: sku, Location: location}
	var loc string
	err := r.q.QueryRow(ctx, query, sku, string(location)).Scan(&rec.SKU, &loc, &rec.Quantity, &rec.MinStock, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.InventoryRecord{SKU: sku, Location: location}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	rec.Location = entity.Location(loc)
	return rec, nil
}

// Get obtiene el registro; si no existe devuelve uno en cero (UpdatedAt cero).
func (r *InventoryRepo) Get(ctx context.Context, sku string, location entity.Location) (*entity.InventoryRecord, error) {
	return r.get(ctx, `SELECT sku, location, quantity, min_stock, updated_at
		FROM inventory WHERE sku = $1 AND location = $2`, sku, location)
}

// GetForUpdate crea la fila en cero si aún no existe (ON CONFLICT DO NOTHING) y la bloquea con
// SELECT FOR UPDATE. Dos transacciones que crean la misma fila quedan serializadas por la PK:
// la segunda espera el commit de la primera y luego lee la fila ya confirmada.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, sku string, location entity.Location, defaultMinStock int64) (*entity.InventoryRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory (sku, location, quantity, min_stock, updated_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (sku, location) DO NOTHING`,
		sku, string(location), defaultMinStock,
	)
	if err != nil {
		return nil, fmt.Errorf("ensure inventory: %w", err)
	}
	return r.get(ctx, `SELECT sku, location, quantity, min_stock, updated_at
		FROM inventory WHERE sku = $1 AND location = $2 FOR UPDATE`, sku, location)
}

// AddQuantity aplica delta sobre la cantidad guardada y devuelve el resultado.
// El CHECK (quantity >= 0) rechaza cualquier resultado negativo.
func (r *InventoryRepo) AddQuantity(ctx context.Context, sku string, location entity.Location, delta int64, at time.Time) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		UPDATE inventory SET quantity = quantity + $1, updated_at = $2
		WHERE sku = $3 AND location = $4
		RETURNING quantity`,
		delta, at, sku, string(location),
	).Scan(&qty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: inventario %s en %s", domain.ErrNotFound, sku, location)
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("%w: %s en %s", domain.ErrInsufficientStock, sku, location)
		}
		return 0, fmt.Errorf("add inventory quantity: %w", err)
	}
	return qty, nil
}

// SetMinStock actualiza el umbral; ErrNotFound si el registro no existe.
func (r *InventoryRepo) SetMinStock(ctx context.Context, sku string, location entity.Location, minStock int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory SET min_stock = $1 WHERE sku = $2 AND location = $3`,
		minStock, sku, string(location))
	if err != nil {
		return fmt.Errorf("set min stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: inventario %s en %s", domain.ErrNotFound, sku, location)
	}
	return nil
}

// List lista registros por SKU y ubicación.
func (r *InventoryRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var w whereBuilder
	if filter.Location != nil {
		w.add("location = ?", string(*filter.Location))
	}
	if filter.SKU != "" {
		w.add("sku = ?", filter.SKU)
	}
	rows, err := r.q.Query(ctx, `SELECT sku, location, quantity, min_stock, updated_at FROM inventory`+
		w.sql()+` ORDER BY sku, location`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		var loc string
		if err := rows.Scan(&rec.SKU, &loc, &rec.Quantity, &rec.MinStock, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		rec.Location = entity.Location(loc)
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// ListLowStock registros con quantity < min_stock, mayor déficit primero.
func (r *InventoryRepo) ListLowStock(ctx context.Context, limit, offset int) ([]repository.LowStockItem, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM inventory WHERE quantity < min_stock`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count low stock: %w", err)
	}
	rows, err := r.q.Query(ctx, `
		SELECT i.sku, COALESCE(p.name, ''), i.location, i.quantity, i.min_stock
		FROM inventory i LEFT JOIN products p ON p.sku = i.sku
		WHERE i.quantity < i.min_stock
		ORDER BY (i.min_stock - i.quantity) DESC, i.sku, i.location
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()

	out := make([]repository.LowStockItem, 0, limit)
	for rows.Next() {
		var it repository.LowStockItem
		var loc string
		if err := rows.Scan(&it.SKU, &it.ProductName, &loc, &it.Quantity, &it.MinStock); err != nil {
			return nil, 0, fmt.Errorf("scan low stock: %w", err)
		}
		it.Location = entity.Location(loc)
		out = append(out, it)
	}
	return out, total, rows.Err()
}

// Summary valor total (cantidad × precio), alertas y unidades por ubicación, agregados en SQL.
func (r *InventoryRepo) Summary(ctx context.Context) (*repository.InventorySummary, error) {
	rows, err := r.q.Query(ctx, `
		SELECT i.location,
		       COALESCE(SUM(i.quantity), 0)::BIGINT,
		       COALESCE(SUM(i.quantity * COALESCE(p.price, 0)), 0),
		       COUNT(*) FILTER (WHERE i.quantity < i.min_stock)
		FROM inventory i LEFT JOIN products p ON p.sku = i.sku
		GROUP BY i.location`)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	defer rows.Close()

	s := &repository.InventorySummary{
		TotalValue:         decimal.Zero,
		QuantityByLocation: map[entity.Location]int64{},
	}
	for rows.Next() {
		var loc string
		var qty int64
		var value decimal.Decimal
		var alerts int
		if err := rows.Scan(&loc, &qty, &value, &alerts); err != nil {
			return nil, fmt.Errorf("scan inventory summary: %w", err)
		}
		s.QuantityByLocation[entity.Location(loc)] = qty
		s.TotalValue = s.TotalValue.Add(value)
		s.LowStockAlerts += alerts
	}
	return s, rows.Err()
}
