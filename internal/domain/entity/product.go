package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product variante vendible del catálogo (un SKU).
// Las variantes de un mismo artículo comparten BaseSKU (ej. BOL-001-NEG-M → BOL-001).
type Product struct {
	SKU             string
	BaseSKU         string
	Name            string
	Category        string // bolsos, billeteras, cinturones, ...
	Color           string
	Size            string
	Price           decimal.Decimal
	ImageURL        string
	DefaultMinStock int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
