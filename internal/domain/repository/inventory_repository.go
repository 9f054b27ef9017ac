package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// InventoryFilter filtros opcionales para listar registros de inventario.
type InventoryFilter struct {
	Location *entity.Location
	SKU      string
}

// LowStockItem resultado crudo de un registro por debajo de su stock mínimo.
type LowStockItem struct {
	SKU         string
	ProductName string
	Location    entity.Location
	Quantity    int64
	MinStock    int64
}

// InventorySummary agregados globales del inventario para el panel de bodega.
type InventorySummary struct {
	TotalValue         decimal.Decimal // Σ quantity × price
	LowStockAlerts     int             // registros con quantity < min_stock
	QuantityByLocation map[entity.Location]int64
}

// InventoryRepository define el puerto para consultar/actualizar stock por SKU+ubicación.
// Get devuelve un registro en cero (UpdatedAt cero) si la fila no existe.
type InventoryRepository interface {
	Get(ctx context.Context, sku string, location entity.Location) (*entity.InventoryRecord, error)
	// GetForUpdate crea la fila (cantidad 0, defaultMinStock) si no existe y la bloquea hasta el
	// fin de la transacción en curso. Siempre devuelve una fila persistida.
	GetForUpdate(ctx context.Context, sku string, location entity.Location, defaultMinStock int64) (*entity.InventoryRecord, error)
	// AddQuantity suma delta (negativo para salidas) y devuelve la cantidad resultante.
	// ErrInsufficientStock si el resultado sería negativo; ErrNotFound si la fila no existe.
	AddQuantity(ctx context.Context, sku string, location entity.Location, delta int64, at time.Time) (int64, error)
	SetMinStock(ctx context.Context, sku string, location entity.Location, minStock int64) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.InventoryRecord, error)
	// ListLowStock devuelve los registros con quantity < min_stock ordenados por mayor déficit,
	// junto con el total de registros que cumplen la condición (para paginación).
	ListLowStock(ctx context.Context, limit, offset int) ([]LowStockItem, int, error)
	Summary(ctx context.Context) (*InventorySummary, error)
}
