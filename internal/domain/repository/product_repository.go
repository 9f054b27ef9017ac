package repository

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el catálogo de productos (DIP).
// GetBySKU devuelve (nil, nil) si el SKU no existe.
type ProductRepository interface {
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Product, error)
	ListByBaseSKU(ctx context.Context, baseSKU string) ([]*entity.Product, error)
	Upsert(ctx context.Context, product *entity.Product) error
	Count(ctx context.Context) (int, error)
}
