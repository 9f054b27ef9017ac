package excel

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
)

// CatalogRow una fila del archivo de catálogo ya convertida al request de alta.
type CatalogRow struct {
	Line    int
	SKU     string
	Product dto.UpsertProductRequest
}

// ReadCatalog lee la primera hoja (o sheetName) de un .xlsx con encabezados en la fila 1.
// Columnas reconocidas (sin importar mayúsculas): sku, base_sku, name, category, color, size,
// price, image_url, min_stock. Las filas sin sku se omiten.
func ReadCatalog(r io.Reader, sheetName string) ([]CatalogRow, error) {
	xlsx, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read Excel file: %w", err)
	}
	defer xlsx.Close()

	if sheetName == "" {
		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("no sheet found in the Excel file")
		}
		sheetName = sheets[0]
	}

	rows, err := xlsx.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("unable to read rows from sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, errors.New("no data found in the Excel file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["sku"]; !ok {
		return nil, errors.New("missing sku column")
	}
	cell := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []CatalogRow
	for n, row := range rows[1:] {
		line := n + 2
		sku := strings.ToUpper(cell(row, "sku"))
		if sku == "" {
			continue
		}
		price := decimal.Zero
		if raw := cell(row, "price"); raw != "" {
			price, err = decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("fila %d: price %q inválido", line, raw)
			}
		}
		var minStock int64
		if raw := cell(row, "min_stock"); raw != "" {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("fila %d: min_stock %q inválido", line, raw)
			}
			minStock = int64(f)
		}
		out = append(out, CatalogRow{
			Line: line,
			SKU:  sku,
			Product: dto.UpsertProductRequest{
				BaseSKU:         strings.ToUpper(cell(row, "base_sku")),
				Name:            cell(row, "name"),
				Category:        cell(row, "category"),
				Color:           cell(row, "color"),
				Size:            cell(row, "size"),
				Price:           price,
				ImageURL:        cell(row, "image_url"),
				DefaultMinStock: minStock,
			},
		})
	}
	return out, nil
}
