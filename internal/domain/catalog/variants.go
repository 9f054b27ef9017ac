// Package catalog agrupa las variantes de producto (color/talla) bajo su artículo base.
package catalog

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// Variant una variante vendible con su stock total (todas las ubicaciones).
type Variant struct {
	Product *entity.Product
	Stock   int64
}

// BaseProduct artículo base con sus variantes y los agregados que muestra el catálogo.
type BaseProduct struct {
	BaseSKU    string
	Name       string
	Category   string
	FromPrice  decimal.Decimal
	ToPrice    decimal.Decimal
	ImageURL   string
	Colors     []string
	Sizes      []string
	TotalStock int64
	Variants   []Variant
}

// BaseSKUOf devuelve el SKU base de un producto; si no tiene, el propio SKU.
func BaseSKUOf(p *entity.Product) string {
	if p.BaseSKU != "" {
		return p.BaseSKU
	}
	return p.SKU
}

// GroupVariants agrupa productos activos por BaseSKU. stock es SKU → cantidad total.
// Resultado ordenado por BaseSKU; variantes ordenadas por SKU. La imagen es la de la
// primera variante (por SKU) que tenga una.
func GroupVariants(products []*entity.Product, stock map[string]int64) []BaseProduct {
	groups := make(map[string][]*entity.Product)
	for _, p := range products {
		if p == nil || !p.Active {
			continue
		}
		base := BaseSKUOf(p)
		groups[base] = append(groups[base], p)
	}

	out := make([]BaseProduct, 0, len(groups))
	for base, variants := range groups {
		sort.Slice(variants, func(i, j int) bool { return variants[i].SKU < variants[j].SKU })
		out = append(out, buildBase(base, variants, stock))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BaseSKU < out[j].BaseSKU })
	return out
}

func buildBase(base string, variants []*entity.Product, stock map[string]int64) BaseProduct {
	bp := BaseProduct{
		BaseSKU:   base,
		Name:      variants[0].Name,
		Category:  variants[0].Category,
		FromPrice: variants[0].Price,
		ToPrice:   variants[0].Price,
	}
	seenColor := map[string]bool{}
	seenSize := map[string]bool{}
	for _, p := range variants {
		if p.Price.LessThan(bp.FromPrice) {
			bp.FromPrice = p.Price
		}
		if p.Price.GreaterThan(bp.ToPrice) {
			bp.ToPrice = p.Price
		}
		if bp.ImageURL == "" && p.ImageURL != "" {
			bp.ImageURL = p.ImageURL
		}
		if p.Color != "" && !seenColor[p.Color] {
			seenColor[p.Color] = true
			bp.Colors = append(bp.Colors, p.Color)
		}
		if p.Size != "" && !seenSize[p.Size] {
			seenSize[p.Size] = true
			bp.Sizes = append(bp.Sizes, p.Size)
		}
		qty := stock[p.SKU]
		bp.TotalStock += qty
		bp.Variants = append(bp.Variants, Variant{Product: p, Stock: qty})
	}
	return bp
}
