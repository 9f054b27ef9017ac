package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
)

var fixedNow = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*UseCase, inventory.TxRepos) {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := sqlite.Repos(db)
	uc := NewUseCase(repos.Movements, repos.Inventory, repos.Products, 30)
	uc.now = func() time.Time { return fixedNow }
	return uc, repos
}

func seedProduct(t *testing.T, repos inventory.TxRepos, sku, category string) {
	t.Helper()
	require.NoError(t, repos.Products.Upsert(context.Background(), &entity.Product{
		SKU: sku, Name: "Producto " + sku, Category: category, Price: decimal.NewFromInt(1), Active: true,
	}))
}

func seedStock(t *testing.T, repos inventory.TxRepos, sku string, loc entity.Location, qty, min int64) {
	t.Helper()
	ctx := context.Background()
	_, err := repos.Inventory.GetForUpdate(ctx, sku, loc, min)
	require.NoError(t, err)
	_, err = repos.Inventory.AddQuantity(ctx, sku, loc, qty, fixedNow)
	require.NoError(t, err)
}

var seq int

func seedMovement(t *testing.T, repos inventory.TxRepos, sku string, typ entity.MovementType, qty int64, loc entity.Location, ageDays float64, transferID string) {
	t.Helper()
	seq++
	require.NoError(t, repos.Movements.Create(context.Background(), &entity.StockMovement{
		ID:           fmt.Sprintf("m-%03d", seq),
		SKU:          sku,
		ProductName:  "Producto " + sku,
		MovementType: typ,
		Quantity:     qty,
		Location:     loc,
		TransferID:   transferID,
		CreatedAt:    fixedNow.Add(-time.Duration(ageDays * float64(24*time.Hour))),
	}))
}

func TestComputeAnalytics_VentanaVaciaTodoEnCero(t *testing.T) {
	uc, repos := setup(t)
	seedProduct(t, repos, "A", "bolsos")
	seedMovement(t, repos, "A", entity.MovementIn, 5, entity.LocationWarehouse, 40, "")

	res, err := uc.ComputeAnalytics(context.Background(), 30, "")
	require.NoError(t, err)
	assert.NotNil(t, res.TopProducts)
	assert.Empty(t, res.TopProducts)
	assert.Empty(t, res.Products)
	assert.Empty(t, res.CategoryAnalytics)
	assert.Equal(t, 30, res.Days)
	assert.Zero(t, res.Summary)
}

func TestComputeAnalytics_FormulasPorSKU(t *testing.T) {
	uc, repos := setup(t)
	seedProduct(t, repos, "A", "bolsos")
	seedStock(t, repos, "A", entity.LocationWarehouse, 4, 10)
	seedStock(t, repos, "A", entity.LocationStore, 6, 0)

	seedMovement(t, repos, "A", entity.MovementIn, 20, entity.LocationWarehouse, 15, "")    // 0.5 × 1
	seedMovement(t, repos, "A", entity.MovementOut, 8, entity.LocationStore, 0, "")         // 1 × 2
	seedMovement(t, repos, "A", entity.MovementOut, 2, entity.LocationStore, 27, "")        // 0.1 × 2
	seedMovement(t, repos, "A", entity.MovementOut, 3, entity.LocationWarehouse, 1, "t-1")  // traslado, no cuenta
	seedMovement(t, repos, "A", entity.MovementIn, 3, entity.LocationStore, 1, "t-1")       // traslado, no cuenta

	res, err := uc.ComputeAnalytics(context.Background(), 30, "")
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	p := res.Products[0]

	assert.Equal(t, 5, p.TotalMovements)
	assert.Equal(t, 2, p.InMovements)
	assert.Equal(t, 3, p.OutMovements)
	assert.Equal(t, int64(23), p.TotalQuantityIn)
	assert.Equal(t, int64(13), p.TotalQuantityOut)
	assert.Equal(t, int64(10), p.CurrentStock)
	assert.Equal(t, int64(10), p.MinStock)
	assert.Equal(t, 1.0, p.TurnoverRate, "demanda 10 (sin traslados) / stock 10")
	assert.Equal(t, 2.7, p.Popularity.Score)
	assert.Equal(t, "slow", p.Popularity.Category)
	assert.Equal(t, "good", p.StockStatus)
	assert.Equal(t, "bolsos", p.Category)

	assert.Equal(t, 1, res.Summary.TotalProducts)
	assert.Equal(t, 5, res.Summary.TotalMovements)
	assert.Equal(t, 1.0, res.Summary.AverageTurnover)
}

func TestComputeAnalytics_FiltroPorUbicacion(t *testing.T) {
	uc, repos := setup(t)
	seedProduct(t, repos, "A", "bolsos")
	seedStock(t, repos, "A", entity.LocationWarehouse, 0, 5)
	seedStock(t, repos, "A", entity.LocationStore, 2, 0)
	seedMovement(t, repos, "A", entity.MovementOut, 4, entity.LocationStore, 0, "")
	seedMovement(t, repos, "A", entity.MovementIn, 9, entity.LocationWarehouse, 0, "")

	res, err := uc.ComputeAnalytics(context.Background(), 7, "warehouse")
	require.NoError(t, err)
	assert.Equal(t, "warehouse", res.Location)
	require.Len(t, res.Products, 1)
	assert.Equal(t, 1, res.Products[0].TotalMovements)
	assert.Equal(t, int64(0), res.Products[0].CurrentStock)
	assert.Equal(t, "critical", res.Products[0].StockStatus)
}

func TestComputeAnalytics_RankingYCategorias(t *testing.T) {
	uc, repos := setup(t)
	for i := 0; i < 12; i++ {
		sku := fmt.Sprintf("S%02d", i)
		cat := "billeteras"
		if i%2 == 0 {
			cat = "bolsos"
		}
		seedProduct(t, repos, sku, cat)
		seedMovement(t, repos, sku, entity.MovementOut, 1, entity.LocationStore, 0, "")
		if i >= 6 {
			seedMovement(t, repos, sku, entity.MovementIn, 1, entity.LocationStore, 0, "")
		}
	}

	res, err := uc.ComputeAnalytics(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Equal(t, 30, res.Days, "days=0 usa el default")
	require.Len(t, res.TopProducts, 10)
	assert.Equal(t, "S06", res.TopProducts[0].SKU, "score 3 empatado, gana el SKU menor")
	assert.Equal(t, 3.0, res.TopProducts[0].Popularity.Score)
	assert.Equal(t, "average", res.TopProducts[0].Popularity.Category)
	assert.Equal(t, "S00", res.TopProducts[6].SKU)
	assert.Len(t, res.Products, 12)

	require.Len(t, res.CategoryAnalytics, 2)
	assert.Equal(t, "billeteras", res.CategoryAnalytics[0].Category, "empate en salidas, orden por nombre")
	assert.Equal(t, int64(6), res.CategoryAnalytics[0].QuantityOut)
	assert.Equal(t, 6, res.CategoryAnalytics[0].Products)
}

func TestComputeAnalytics_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()

	_, err := uc.ComputeAnalytics(ctx, 366, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ComputeAnalytics(ctx, -1, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.ComputeAnalytics(ctx, 30, "bodega-norte")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
