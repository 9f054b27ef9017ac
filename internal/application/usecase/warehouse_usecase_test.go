package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

type env struct {
	repos     inventory.TxRepos
	movements *inventory.MovementUseCase
	warehouse *usecase.WarehouseUseCase
	products  *usecase.ProductUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := sqlite.Repos(db)
	return &env{
		repos:     repos,
		movements: inventory.NewMovementUseCase(sqlite.NewTxRunner(db), repos.Movements, nil, nil, logger.Nop()),
		warehouse: usecase.NewWarehouseUseCase(repos.Products, repos.Inventory, repos.Movements),
		products:  usecase.NewProductUseCase(repos.Products, repos.Inventory),
	}
}

func (e *env) product(t *testing.T, sku, base, price string, minStock int64) {
	t.Helper()
	_, err := e.products.Upsert(context.Background(), sku, dto.UpsertProductRequest{
		BaseSKU: base, Name: "Bolso " + base, Category: "Bolsos", Price: decimal.RequireFromString(price), DefaultMinStock: minStock,
	})
	require.NoError(t, err)
}

func (e *env) move(t *testing.T, sku string, typ entity.MovementType, qty int64, loc entity.Location) {
	t.Helper()
	_, err := e.movements.RecordMovement(context.Background(), inventory.MovementInput{
		SKU: sku, MovementType: typ, Quantity: qty, Location: loc, Reason: "restock", UserID: "user1",
	})
	require.NoError(t, err)
}

func TestStats_ReflejaMovimientoReciente(t *testing.T) {
	e := newEnv(t)
	e.product(t, "SKU1", "SKU1", "150000.50", 20)
	e.move(t, "SKU1", entity.MovementIn, 10, entity.LocationWarehouse)

	stats, err := e.warehouse.Stats(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.RecentMovements, 1)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, int64(10), stats.TotalLocations.Warehouse)
	assert.Equal(t, int64(0), stats.TotalLocations.Store)
	assert.Equal(t, 1, stats.LowStockAlerts)
	assert.True(t, stats.TotalValue.Equal(decimal.RequireFromString("1500005")), stats.TotalValue.String())

	rec, err := e.repos.Inventory.Get(context.Background(), "SKU1", entity.LocationWarehouse)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.Quantity)
}

func TestLowStock_OrdenYPaginacion(t *testing.T) {
	e := newEnv(t)
	e.product(t, "A", "A", "10", 10)
	e.product(t, "B", "B", "10", 10)
	e.product(t, "C", "C", "10", 10)
	e.move(t, "A", entity.MovementIn, 5, entity.LocationStore)  // déficit 5
	e.move(t, "B", entity.MovementIn, 1, entity.LocationStore)  // déficit 9
	e.move(t, "C", entity.MovementIn, 12, entity.LocationStore) // sin alerta

	res, err := e.warehouse.LowStock(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "B", res.Products[0].SKU)
	assert.Equal(t, int64(9), res.Products[0].Deficit)
	assert.Equal(t, "critical", res.Products[0].StockStatus)
	assert.Equal(t, dto.Pagination{Page: 1, Limit: 1, Total: 2, TotalPages: 2}, res.Pagination)

	res, err = e.warehouse.LowStock(context.Background(), 2, 1)
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "A", res.Products[0].SKU)
	assert.Equal(t, "low", res.Products[0].StockStatus)
}

func TestSetMinStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "A", "A", "10", 0)
	e.move(t, "A", entity.MovementIn, 2, entity.LocationStore)

	require.NoError(t, e.warehouse.SetMinStock(ctx, "A", "store", 5))
	inv, err := e.warehouse.Inventory(ctx, "store")
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, int64(5), inv.Items[0].MinStock)
	assert.Equal(t, "low", inv.Items[0].StockStatus)
	assert.Equal(t, "Bolso A", inv.Items[0].ProductName)

	assert.ErrorIs(t, e.warehouse.SetMinStock(ctx, "A", "warehouse", 5), domain.ErrNotFound)
	assert.ErrorIs(t, e.warehouse.SetMinStock(ctx, "A", "store", -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, e.warehouse.SetMinStock(ctx, "A", "patio", 1), domain.ErrInvalidInput)
}

func TestCatalogo_AgrupaVariantesConStock(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.product(t, "BOL-1-M", "BOL-1", "200", 0)
	e.product(t, "BOL-1-L", "BOL-1", "250", 0)
	e.product(t, "CIN-9", "", "80", 0)
	e.move(t, "BOL-1-M", entity.MovementIn, 3, entity.LocationWarehouse)
	e.move(t, "BOL-1-M", entity.MovementIn, 1, entity.LocationStore)

	list, err := e.products.ListCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "BOL-1", list.Products[0].BaseSKU)
	assert.Equal(t, int64(4), list.Products[0].TotalStock)
	assert.Equal(t, "bolsos", list.Products[0].Category)

	one, err := e.products.GetBaseProduct(ctx, "BOL-1")
	require.NoError(t, err)
	assert.True(t, one.FromPrice.Equal(decimal.NewFromInt(200)))
	assert.True(t, one.ToPrice.Equal(decimal.NewFromInt(250)))
	require.Len(t, one.Variants, 2)
	assert.Equal(t, "BOL-1-L", one.Variants[0].SKU)

	loose, err := e.products.GetBaseProduct(ctx, "CIN-9")
	require.NoError(t, err)
	assert.Equal(t, "CIN-9", loose.BaseSKU)

	_, err = e.products.GetBaseProduct(ctx, "NADA")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.products.Upsert(ctx, "X", dto.UpsertProductRequest{Name: "X", Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
