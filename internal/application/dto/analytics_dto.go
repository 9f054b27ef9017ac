package dto

import "time"

// AnalyticsSummary agregados de la ventana; todo en cero si no hubo movimientos.
type AnalyticsSummary struct {
	TotalProducts    int     `json:"totalProducts"`
	TotalMovements   int     `json:"totalMovements"`
	InMovements      int     `json:"inMovements"`
	OutMovements     int     `json:"outMovements"`
	TotalQuantityIn  int64   `json:"totalQuantityIn"`
	TotalQuantityOut int64   `json:"totalQuantityOut"`
	AverageTurnover  float64 `json:"averageTurnover"`
}

// Popularity score con decaimiento por antigüedad y su cubeta.
type Popularity struct {
	Score    float64 `json:"score"`
	Category string  `json:"category"` // hot | popular | average | slow
}

// ProductAnalytics snapshot derivado (no persistido) de un SKU.
type ProductAnalytics struct {
	SKU              string     `json:"sku"`
	ProductName      string     `json:"productName"`
	Category         string     `json:"category"`
	CurrentStock     int64      `json:"currentStock"`
	MinStock         int64      `json:"minStock"`
	TotalMovements   int        `json:"totalMovements"`
	InMovements      int        `json:"inMovements"`
	OutMovements     int        `json:"outMovements"`
	TotalQuantityIn  int64      `json:"totalQuantityIn"`
	TotalQuantityOut int64      `json:"totalQuantityOut"`
	TurnoverRate     float64    `json:"turnoverRate"`
	Popularity       Popularity `json:"popularity"`
	StockStatus      string     `json:"stockStatus"` // critical | low | good | excess
	LastMovementAt   time.Time  `json:"lastMovementAt"`
}

// CategoryAnalytics agregados por categoría de producto.
type CategoryAnalytics struct {
	Category    string `json:"category"`
	Products    int    `json:"products"`
	Movements   int    `json:"movements"`
	QuantityIn  int64  `json:"quantityIn"`
	QuantityOut int64  `json:"quantityOut"`
}

// AnalyticsResponse respuesta de GET /api/warehouse/analytics.
type AnalyticsResponse struct {
	Days              int                 `json:"days"`
	Location          string              `json:"location,omitempty"`
	GeneratedAt       time.Time           `json:"generatedAt"`
	Summary           AnalyticsSummary    `json:"summary"`
	TopProducts       []ProductAnalytics  `json:"topProducts"`
	CategoryAnalytics []CategoryAnalytics `json:"categoryAnalytics"`
	Products          []ProductAnalytics  `json:"products"`
}
