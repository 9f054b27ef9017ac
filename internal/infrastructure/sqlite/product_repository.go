package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `sku, base_sku, name, category, color, size, price, image_url, default_min_stock, active, created_at, updated_at`

type productRow struct {
	SKU             string          `db:"sku"`
	BaseSKU         string          `db:"base_sku"`
	Name            string          `db:"name"`
	Category        string          `db:"category"`
	Color           string          `db:"color"`
	Size            string          `db:"size"`
	Price           decimal.Decimal `db:"price"`
	ImageURL        string          `db:"image_url"`
	DefaultMinStock int64           `db:"default_min_stock"`
	Active          bool            `db:"active"`
	CreatedAt       string          `db:"created_at"`
	UpdatedAt       string          `db:"updated_at"`
}

func (r productRow) toEntity() *entity.Product {
	return &entity.Product{
		SKU:             r.SKU,
		BaseSKU:         r.BaseSKU,
		Name:            r.Name,
		Category:        r.Category,
		Color:           r.Color,
		Size:            r.Size,
		Price:           r.Price,
		ImageURL:        r.ImageURL,
		DefaultMinStock: r.DefaultMinStock,
		Active:          r.Active,
		CreatedAt:       parseTime(r.CreatedAt),
		UpdatedAt:       parseTime(r.UpdatedAt),
	}
}

// ProductRepo implementación de ProductRepository sobre SQLite.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar db o tx.
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetBySKU obtiene un producto; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var row productRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+productColumns+` FROM products WHERE sku = ?`, sku)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row.toEntity(), nil
}

// List lista productos ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	return r.selectMany(ctx, query+` ORDER BY sku`)
}

// ListByBaseSKU lista las variantes activas de un artículo base (o el SKU suelto sin base).
func (r *ProductRepo) ListByBaseSKU(ctx context.Context, baseSKU string) ([]*entity.Product, error) {
	return r.selectMany(ctx, `SELECT `+productColumns+` FROM products
		WHERE active = 1 AND (base_sku = ? OR (base_sku = '' AND sku = ?)) ORDER BY sku`, baseSKU, baseSKU)
}

func (r *ProductRepo) selectMany(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	var rows []productRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// Upsert inserta o actualiza un producto por SKU.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (sku) DO UPDATE SET
			base_sku = excluded.base_sku, name = excluded.name, category = excluded.category,
			color = excluded.color, size = excluded.size, price = excluded.price,
			image_url = excluded.image_url, default_min_stock = excluded.default_min_stock,
			active = excluded.active, updated_at = excluded.updated_at`,
		p.SKU, p.BaseSKU, p.Name, p.Category, p.Color, p.Size, p.Price.String(), p.ImageURL,
		p.DefaultMinStock, p.Active, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Count total de productos activos del catálogo.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, `SELECT COUNT(*) FROM products WHERE active = 1`); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
