package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LocationTotals unidades en stock por ubicación.
type LocationTotals struct {
	Warehouse int64 `json:"warehouse"`
	Store     int64 `json:"store"`
}

// WarehouseStatsResponse panel de GET /api/warehouse/stats.
type WarehouseStatsResponse struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalValue      decimal.Decimal `json:"totalValue"`
	LowStockAlerts  int             `json:"lowStockAlerts"`
	RecentMovements int             `json:"recentMovements"`
	TotalLocations  LocationTotals  `json:"totalLocations"`
}

// LowStockProduct registro bajo su stock mínimo.
type LowStockProduct struct {
	SKU         string `json:"sku"`
	ProductName string `json:"productName"`
	Location    string `json:"location"`
	Quantity    int64  `json:"quantity"`
	MinStock    int64  `json:"minStock"`
	Deficit     int64  `json:"deficit"`
	StockStatus string `json:"stockStatus"`
}

// LowStockResponse respuesta paginada de GET /api/warehouse/low-stock.
type LowStockResponse struct {
	Products   []LowStockProduct `json:"products"`
	Pagination Pagination        `json:"pagination"`
}

// InventoryRecordResponse stock de un SKU en una ubicación.
type InventoryRecordResponse struct {
	SKU         string    `json:"sku"`
	ProductName string    `json:"productName"`
	Location    string    `json:"location"`
	Quantity    int64     `json:"quantity"`
	MinStock    int64     `json:"minStock"`
	StockStatus string    `json:"stockStatus"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// InventoryListResponse respuesta de GET /api/warehouse/inventory.
type InventoryListResponse struct {
	Items []InventoryRecordResponse `json:"items"`
}

// SetMinStockRequest cuerpo de PUT .../min-stock.
type SetMinStockRequest struct {
	MinStock int64 `json:"min_stock"`
}
