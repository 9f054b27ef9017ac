package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

const (
	recentMovementsWindow = 24 * time.Hour
	defaultLowStockLimit  = 20
	maxLowStockLimit      = 100
)

// WarehouseUseCase panel de bodega: estadísticas, stock bajo e inventario por ubicación.
type WarehouseUseCase struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
	movements repository.MovementRepository
	now       func() time.Time
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(
	products repository.ProductRepository,
	inventory repository.InventoryRepository,
	movements repository.MovementRepository,
) *WarehouseUseCase {
	return &WarehouseUseCase{products: products, inventory: inventory, movements: movements, now: time.Now}
}

// Stats totales del panel. recentMovements cuenta las últimas 24 horas.
func (uc *WarehouseUseCase) Stats(ctx context.Context) (*dto.WarehouseStatsResponse, error) {
	type countResult struct {
		n   int
		err error
	}
	type summaryResult struct {
		s   *repository.InventorySummary
		err error
	}
	productsCh := make(chan countResult, 1)
	recentCh := make(chan countResult, 1)
	summaryCh := make(chan summaryResult, 1)

	go func() {
		n, err := uc.products.Count(ctx)
		productsCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.movements.CountSince(ctx, uc.now().Add(-recentMovementsWindow))
		recentCh <- countResult{n, err}
	}()
	go func() {
		s, err := uc.inventory.Summary(ctx)
		summaryCh <- summaryResult{s, err}
	}()

	products, recent, summary := <-productsCh, <-recentCh, <-summaryCh
	if products.err != nil {
		return nil, fmt.Errorf("stats: productos: %w", products.err)
	}
	if recent.err != nil {
		return nil, fmt.Errorf("stats: movimientos: %w", recent.err)
	}
	if summary.err != nil {
		return nil, fmt.Errorf("stats: inventario: %w", summary.err)
	}

	return &dto.WarehouseStatsResponse{
		TotalProducts:   products.n,
		TotalValue:      summary.s.TotalValue.Round(2),
		LowStockAlerts:  summary.s.LowStockAlerts,
		RecentMovements: recent.n,
		TotalLocations: dto.LocationTotals{
			Warehouse: summary.s.QuantityByLocation[entity.LocationWarehouse],
			Store:     summary.s.QuantityByLocation[entity.LocationStore],
		},
	}, nil
}

// LowStock registros bajo su mínimo, mayor déficit primero, paginados por número de página.
func (uc *WarehouseUseCase) LowStock(ctx context.Context, page, limit int) (*dto.LowStockResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultLowStockLimit
	}
	if limit > maxLowStockLimit {
		limit = maxLowStockLimit
	}
	items, total, err := uc.inventory.ListLowStock(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	out := &dto.LowStockResponse{
		Products:   make([]dto.LowStockProduct, 0, len(items)),
		Pagination: dto.NewPagination(page, limit, total),
	}
	for _, it := range items {
		out.Products = append(out.Products, dto.LowStockProduct{
			SKU:         it.SKU,
			ProductName: it.ProductName,
			Location:    string(it.Location),
			Quantity:    it.Quantity,
			MinStock:    it.MinStock,
			Deficit:     it.MinStock - it.Quantity,
			StockStatus: string(inventory.ClassifyStock(it.Quantity, it.MinStock, 0)),
		})
	}
	return out, nil
}

// Inventory lista registros (opcionalmente de una ubicación) con su clasificación.
// Sin historial de rotación se clasifica con turnover 0.
func (uc *WarehouseUseCase) Inventory(ctx context.Context, location string) (*dto.InventoryListResponse, error) {
	filter := repository.InventoryFilter{}
	if location != "" {
		loc, ok := entity.ParseLocation(location)
		if !ok {
			return nil, fmt.Errorf("%w: location %q no válida", domain.ErrInvalidInput, location)
		}
		filter.Location = &loc
	}
	records, err := uc.inventory.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	products, err := uc.products.List(ctx, false)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(products))
	for _, p := range products {
		names[p.SKU] = p.Name
	}
	out := &dto.InventoryListResponse{Items: make([]dto.InventoryRecordResponse, 0, len(records))}
	for _, r := range records {
		out.Items = append(out.Items, dto.InventoryRecordResponse{
			SKU:         r.SKU,
			ProductName: names[r.SKU],
			Location:    string(r.Location),
			Quantity:    r.Quantity,
			MinStock:    r.MinStock,
			StockStatus: string(inventory.ClassifyStock(r.Quantity, r.MinStock, 0)),
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

// SetMinStock fija el umbral de alerta de un registro existente.
func (uc *WarehouseUseCase) SetMinStock(ctx context.Context, sku, location string, minStock int64) error {
	sku = strings.TrimSpace(sku)
	loc, ok := entity.ParseLocation(location)
	if sku == "" || !ok {
		return fmt.Errorf("%w: sku y location válidos son obligatorios", domain.ErrInvalidInput)
	}
	if minStock < 0 {
		return fmt.Errorf("%w: min_stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return uc.inventory.SetMinStock(ctx, sku, loc, minStock)
}
