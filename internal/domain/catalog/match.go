package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// NormalizeName pasa a minúsculas, quita tildes y colapsa espacios: "Billetera  Café" → "billetera cafe".
func NormalizeName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// NameIndex índice de productos por nombre normalizado para resolver líneas OCR sin SKU.
type NameIndex struct {
	exact   map[string]*entity.Product
	entries []indexEntry
}

type indexEntry struct {
	name    string
	product *entity.Product
}

// NewNameIndex construye el índice. Ante nombres repetidos gana el SKU menor.
func NewNameIndex(products []*entity.Product) *NameIndex {
	idx := &NameIndex{exact: make(map[string]*entity.Product, len(products))}
	for _, p := range products {
		if p == nil || p.Name == "" {
			continue
		}
		n := NormalizeName(p.Name)
		if cur, ok := idx.exact[n]; !ok || p.SKU < cur.SKU {
			idx.exact[n] = p
		}
		idx.entries = append(idx.entries, indexEntry{name: n, product: p})
	}
	return idx
}

// Match busca el producto cuya descripción coincide con el nombre exacto (normalizado);
// si no hay, el de nombre más largo contenido en la descripción. nil si nada coincide.
func (idx *NameIndex) Match(description string) *entity.Product {
	d := NormalizeName(description)
	if d == "" {
		return nil
	}
	if p, ok := idx.exact[d]; ok {
		return p
	}
	var best *indexEntry
	for i := range idx.entries {
		e := &idx.entries[i]
		if !strings.Contains(d, e.name) {
			continue
		}
		if best == nil || len(e.name) > len(best.name) ||
			(len(e.name) == len(best.name) && e.product.SKU < best.product.SKU) {
			best = e
		}
	}
	if best == nil {
		return nil
	}
	return best.product
}
