package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

type inventoryRow struct {
	SKU       string `db:"sku"`
	Location  string `db:"location"`
	Quantity  int64  `db:"quantity"`
	MinStock  int64  `db:"min_stock"`
	UpdatedAt string `db:"updated_at"`
}

func (r inventoryRow) toEntity() *entity.InventoryRecord {
	return &entity.InventoryRecord{
		SKU:       r.SKU,
		Location:  entity.Location(r.Location),
		Quantity:  r.Quantity,
		MinStock:  r.MinStock,
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

// InventoryRepo implementación de InventoryRepository sobre SQLite.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar db o tx.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro; si no existe devuelve uno en cero (UpdatedAt cero).
func (r *InventoryRepo) Get(ctx context.Context, sku string, location entity.Location) (*entity.InventoryRecord, error) {
	var row inventoryRow
	err := sqlx.GetContext(ctx, r.q, &row, `
		SELECT sku, location, quantity, min_stock, updated_at
		FROM inventory WHERE sku = ? AND location = ?`, sku, string(location))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &entity.InventoryRecord{SKU: sku, Location: location}, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return row.toEntity(), nil
}

// GetForUpdate crea la fila en cero si aún no existe y la devuelve. En SQLite no hay bloqueo de
// fila: la única conexión serializa las transacciones.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, sku string, location entity.Location, defaultMinStock int64) (*entity.InventoryRecord, error) {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory (sku, location, quantity, min_stock, updated_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT (sku, location) DO NOTHING`,
		sku, string(location), defaultMinStock, formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("ensure inventory: %w", err)
	}
	return r.Get(ctx, sku, location)
}

// AddQuantity aplica delta sobre la cantidad guardada y devuelve el resultado.
// El CHECK (quantity >= 0) rechaza cualquier resultado negativo.
func (r *InventoryRepo) AddQuantity(ctx context.Context, sku string, location entity.Location, delta int64, at time.Time) (int64, error) {
	var qty int64
	err := sqlx.GetContext(ctx, r.q, &qty, `
		UPDATE inventory SET quantity = quantity + ?, updated_at = ?
		WHERE sku = ? AND location = ?
		RETURNING quantity`,
		delta, formatTime(at), sku, string(location),
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	res, err := r.q.ExecContext(ctx, `UPDATE inventory SET min_stock = ? WHERE sku = ? AND location = ?`,
		minStock, sku, string(location))
	if err != nil {
		return fmt.Errorf("set min stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: inventario %s en %s", domain.ErrNotFound, sku, location)
	}
	return nil
}

// List lista registros por SKU y ubicación.
func (r *InventoryRepo) List(ctx context.Context, filter repository.InventoryFilter) ([]*entity.InventoryRecord, error) {
	var where []string
	var args []any
	if filter.Location != nil {
		where = append(where, "location = ?")
		args = append(args, string(*filter.Location))
	}
	if filter.SKU != "" {
		where = append(where, "sku = ?")
		args = append(args, filter.SKU)
	}
	query := `SELECT sku, location, quantity, min_stock, updated_at FROM inventory`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY sku, location"

	var rows []inventoryRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	out := make([]*entity.InventoryRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ListLowStock registros con quantity < min_stock, mayor déficit primero.
func (r *InventoryRepo) ListLowStock(ctx context.Context, limit, offset int) ([]repository.LowStockItem, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM inventory WHERE quantity < min_stock`); err != nil {
		return nil, 0, fmt.Errorf("count low stock: %w", err)
	}
	var rows []struct {
		SKU      string `db:"sku"`
		Name     string `db:"name"`
		Location string `db:"location"`
		Quantity int64  `db:"quantity"`
		MinStock int64  `db:"min_stock"`
	}
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT i.sku, COALESCE(p.name, '') AS name, i.location, i.quantity, i.min_stock
		FROM inventory i LEFT JOIN products p ON p.sku = i.sku
		WHERE i.quantity < i.min_stock
		ORDER BY (i.min_stock - i.quantity) DESC, i.sku, i.location
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list low stock: %w", err)
	}
	out := make([]repository.LowStockItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, repository.LowStockItem{
			SKU:         row.SKU,
			ProductName: row.Name,
			Location:    entity.Location(row.Location),
			Quantity:    row.Quantity,
			MinStock:    row.MinStock,
		})
	}
	return out, total, nil
}

// Summary valor total (cantidad × precio), alertas y unidades por ubicación.
// El valor se suma en Go con decimal: SQLite no tiene NUMERIC exacto.
func (r *InventoryRepo) Summary(ctx context.Context) (*repository.InventorySummary, error) {
	var rows []struct {
		Location string          `db:"location"`
		Quantity int64           `db:"quantity"`
		MinStock int64           `db:"min_stock"`
		Price    decimal.Decimal `db:"price"`
	}
	err := sqlx.SelectContext(ctx, r.q, &rows, `
		SELECT i.location, i.quantity, i.min_stock, COALESCE(p.price, '0') AS price
		FROM inventory i LEFT JOIN products p ON p.sku = i.sku`)
	if err != nil {
		return nil, fmt.Errorf("inventory summary: %w", err)
	}
	s := &repository.InventorySummary{
		TotalValue:         decimal.Zero,
		QuantityByLocation: map[entity.Location]int64{},
	}
	for _, row := range rows {
		s.TotalValue = s.TotalValue.Add(row.Price.Mul(decimal.NewFromInt(row.Quantity)))
		s.QuantityByLocation[entity.Location(row.Location)] += row.Quantity
		if row.Quantity < row.MinStock {
			s.LowStockAlerts++
		}
	}
	return s, nil
}
