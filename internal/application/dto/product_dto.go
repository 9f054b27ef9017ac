package dto

import "github.com/shopspring/decimal"

// VariantResponse variante (SKU) de un artículo base.
type VariantResponse struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Color    string          `json:"color,omitempty"`
	Size     string          `json:"size,omitempty"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"imageUrl,omitempty"`
	Stock    int64           `json:"stock"`
}

// BaseProductResponse artículo base con rango de precios y variantes.
type BaseProductResponse struct {
	BaseSKU    string            `json:"baseSku"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	FromPrice  decimal.Decimal   `json:"fromPrice"`
	ToPrice    decimal.Decimal   `json:"toPrice"`
	ImageURL   string            `json:"image,omitempty"`
	Colors     []string          `json:"colors"`
	Sizes      []string          `json:"sizes"`
	TotalStock int64             `json:"totalStock"`
	Variants   []VariantResponse `json:"variants"`
}

// ProductListResponse respuesta de GET /api/products.
type ProductListResponse struct {
	Products []BaseProductResponse `json:"products"`
}

// UpsertProductRequest cuerpo de PUT /api/products/:sku (alta o edición de una variante).
type UpsertProductRequest struct {
	BaseSKU         string          `json:"base_sku"`
	Name            string          `json:"name"`
	Category        string          `json:"category"`
	Color           string          `json:"color"`
	Size            string          `json:"size"`
	Price           decimal.Decimal `json:"price"`
	ImageURL        string          `json:"image_url"`
	DefaultMinStock int64           `json:"default_min_stock"`
	Active          *bool           `json:"active"`
}
