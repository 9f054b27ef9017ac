// Package analytics contiene el agregador de analítica de movimientos de inventario.
// Es de solo lectura y se recalcula en cada llamada, sin caché.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

const (
	topProductsLimit = 10
	maxDays          = 365
	uncategorized    = "sin categoría"
)

// UseCase calcula el resumen, el ranking de popularidad y la analítica por categoría.
//
// Fuentes: MovementRepository (ventana), InventoryRepository (stock actual) y
// ProductRepository (nombre y categoría).
type UseCase struct {
	movements   repository.MovementRepository
	inventory   repository.InventoryRepository
	products    repository.ProductRepository
	defaultDays int
	now         func() time.Time
}

// NewUseCase construye el agregador. defaultDays se usa cuando days == 0.
func NewUseCase(
	movements repository.MovementRepository,
	inventoryRepo repository.InventoryRepository,
	products repository.ProductRepository,
	defaultDays int,
) *UseCase {
	if defaultDays <= 0 || defaultDays > maxDays {
		defaultDays = 30
	}
	return &UseCase{
		movements:   movements,
		inventory:   inventoryRepo,
		products:    products,
		defaultDays: defaultDays,
		now:         time.Now,
	}
}

// skuAgg acumulador por SKU dentro de la ventana.
type skuAgg struct {
	snap      dto.ProductAnalytics
	demandOut int64
	score     float64
}

// ComputeAnalytics recorre los movimientos con CreatedAt >= now-days (opcionalmente de una
// ubicación) y arma un snapshot por SKU. Costo O(movimientos en la ventana).
//
//	turnoverRate = demandOut / max(stock actual, 1)          (demandOut excluye traslados)
//	popularity   = Σ w·k, w = max(0, 1 - edadDias/days), k = 2 out, 1 in (excluye traslados)
//	stockStatus  = inventory.ClassifyStock(stock, mínimo, turnoverRate)
func (uc *UseCase) ComputeAnalytics(ctx context.Context, days int, location string) (*dto.AnalyticsResponse, error) {
	if days == 0 {
		days = uc.defaultDays
	}
	if days < 1 || days > maxDays {
		return nil, fmt.Errorf("%w: days debe estar entre 1 y %d", domain.ErrInvalidInput, maxDays)
	}
	var loc *entity.Location
	if location != "" {
		l, ok := entity.ParseLocation(location)
		if !ok {
			return nil, fmt.Errorf("%w: location %q no válida", domain.ErrInvalidInput, location)
		}
		loc = &l
	}

	now := uc.now()
	since := now.Add(-time.Duration(days) * 24 * time.Hour)

	// ── Cargas en paralelo ──────────────────────────────────────────────────────
	type movResult struct {
		list []*entity.StockMovement
		err  error
	}
	type invResult struct {
		list []*entity.InventoryRecord
		err  error
	}
	type prodResult struct {
		list []*entity.Product
		err  error
	}
	movCh := make(chan movResult, 1)
	invCh := make(chan invResult, 1)
	prodCh := make(chan prodResult, 1)

	go func() {
		list, err := uc.movements.List(ctx, repository.MovementFilter{Since: &since, Location: loc})
		movCh <- movResult{list, err}
	}()
	go func() {
		list, err := uc.inventory.List(ctx, repository.InventoryFilter{Location: loc})
		invCh <- invResult{list, err}
	}()
	go func() {
		list, err := uc.products.List(ctx, false)
		prodCh <- prodResult{list, err}
	}()

	movs, invs, prods := <-movCh, <-invCh, <-prodCh
	if movs.err != nil {
		return nil, fmt.Errorf("analytics: movimientos: %w", movs.err)
	}
	if invs.err != nil {
		return nil, fmt.Errorf("analytics: inventario: %w", invs.err)
	}
	if prods.err != nil {
		return nil, fmt.Errorf("analytics: productos: %w", prods.err)
	}

	stock := make(map[string]*entity.InventoryRecord, len(invs.list))
	for _, r := range invs.list {
		if cur, ok := stock[r.SKU]; ok {
			cur.Quantity += r.Quantity
			cur.MinStock += r.MinStock
			continue
		}
		rec := *r
		stock[r.SKU] = &rec
	}
	catalog := make(map[string]*entity.Product, len(prods.list))
	for _, p := range prods.list {
		catalog[p.SKU] = p
	}

	// ── Agregación por SKU ──────────────────────────────────────────────────────
	aggs := make(map[string]*skuAgg)
	summary := dto.AnalyticsSummary{}
	for _, m := range movs.list {
		a, ok := aggs[m.SKU]
		if !ok {
			a = &skuAgg{snap: dto.ProductAnalytics{SKU: m.SKU, ProductName: m.ProductName, Category: uncategorized}}
			aggs[m.SKU] = a
		}
		a.snap.TotalMovements++
		summary.TotalMovements++
		if m.MovementType == entity.MovementOut {
			a.snap.OutMovements++
			a.snap.TotalQuantityOut += m.Quantity
			summary.OutMovements++
			summary.TotalQuantityOut += m.Quantity
			if !m.IsTransferLeg() {
				a.demandOut += m.Quantity
			}
		} else {
			a.snap.InMovements++
			a.snap.TotalQuantityIn += m.Quantity
			summary.InMovements++
			summary.TotalQuantityIn += m.Quantity
		}
		a.score += inventory.PopularityContribution(m, now, days)
		if m.CreatedAt.After(a.snap.LastMovementAt) {
			a.snap.LastMovementAt = m.CreatedAt
		}
	}

	products := make([]dto.ProductAnalytics, 0, len(aggs))
	var turnoverSum float64
	for sku, a := range aggs {
		if p, ok := catalog[sku]; ok {
			a.snap.ProductName = p.Name
			if p.Category != "" {
				a.snap.Category = p.Category
			}
		}
		if rec, ok := stock[sku]; ok {
			a.snap.CurrentStock = rec.Quantity
			a.snap.MinStock = rec.MinStock
		}
		a.snap.TurnoverRate = inventory.TurnoverRate(a.demandOut, a.snap.CurrentStock)
		score := inventory.Round2(a.score)
		a.snap.Popularity = dto.Popularity{Score: score, Category: string(inventory.CategorizePopularity(score))}
		a.snap.StockStatus = string(inventory.ClassifyStock(a.snap.CurrentStock, a.snap.MinStock, a.snap.TurnoverRate))
		turnoverSum += a.snap.TurnoverRate
		products = append(products, a.snap)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].SKU < products[j].SKU })

	summary.TotalProducts = len(products)
	if len(products) > 0 {
		summary.AverageTurnover = inventory.Round2(turnoverSum / float64(len(products)))
	}

	resp := &dto.AnalyticsResponse{
		Days:              days,
		GeneratedAt:       now,
		Summary:           summary,
		TopProducts:       topProducts(products),
		CategoryAnalytics: categoryAnalytics(products),
		Products:          products,
	}
	if loc != nil {
		resp.Location = string(*loc)
	}
	return resp, nil
}

// topProducts primeros 10 por score desc, empate por SKU asc.
func topProducts(products []dto.ProductAnalytics) []dto.ProductAnalytics {
	ranked := make([]dto.ProductAnalytics, len(products))
	copy(ranked, products)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Popularity.Score != ranked[j].Popularity.Score {
			return ranked[i].Popularity.Score > ranked[j].Popularity.Score
		}
		return ranked[i].SKU < ranked[j].SKU
	})
	if len(ranked) > topProductsLimit {
		ranked = ranked[:topProductsLimit]
	}
	return ranked
}

// categoryAnalytics agrega por categoría, ordenado por quantityOut desc y categoría asc.
func categoryAnalytics(products []dto.ProductAnalytics) []dto.CategoryAnalytics {
	byCat := make(map[string]*dto.CategoryAnalytics)
	for _, p := range products {
		c, ok := byCat[p.Category]
		if !ok {
			c = &dto.CategoryAnalytics{Category: p.Category}
			byCat[p.Category] = c
		}
		c.Products++
		c.Movements += p.TotalMovements
		c.QuantityIn += p.TotalQuantityIn
		c.QuantityOut += p.TotalQuantityOut
	}
	out := make([]dto.CategoryAnalytics, 0, len(byCat))
	for _, c := range byCat {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QuantityOut != out[j].QuantityOut {
			return out[i].QuantityOut > out[j].QuantityOut
		}
		return out[i].Category < out[j].Category
	})
	return out
}
