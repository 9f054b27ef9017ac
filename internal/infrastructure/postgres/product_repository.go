package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `sku, base_sku, name, category, color, size, price, image_url, default_min_stock, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.SKU, &p.BaseSKU, &p.Name, &p.Category, &p.Color, &p.Size, &p.Price,
		&p.ImageURL, &p.DefaultMinStock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySKU obtiene un producto por SKU; (nil, nil) si no existe.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List lista productos ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if activeOnly {
		query += ` WHERE active`
	}
	return r.selectMany(ctx, query+` ORDER BY sku`)
}

// ListByBaseSKU variantes activas del artículo base (o el SKU suelto sin base).
func (r *ProductRepo) ListByBaseSKU(ctx context.Context, baseSKU string) ([]*entity.Product, error) {
	return r.selectMany(ctx, `SELECT `+productColumns+` FROM products
		WHERE active AND (base_sku = $1 OR (base_sku = '' AND sku = $1)) ORDER BY sku`, baseSKU)
}

func (r *ProductRepo) selectMany(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Upsert inserta o actualiza un producto por SKU. created_at se conserva en la actualización.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	_, err := r.q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sku) DO UPDATE SET
			base_sku = EXCLUDED.base_sku, name = EXCLUDED.name, category = EXCLUDED.category,
			color = EXCLUDED.color, size = EXCLUDED.size, price = EXCLUDED.price,
			image_url = EXCLUDED.image_url, default_min_stock = EXCLUDED.default_min_stock,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`,
		p.SKU, p.BaseSKU, p.Name, p.Category, p.Color, p.Size, p.Price, p.ImageURL,
		p.DefaultMinStock, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// Count total de productos activos.
func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
