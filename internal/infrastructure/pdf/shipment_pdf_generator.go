// Package pdf genera la guía de despacho de un envío de bodega a tienda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Marroquinería + GUÍA DE DESPACHO │ Ref + Fecha     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RUTA: origen → destino                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Cant. | Estado                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL UNIDADES                                              │
//	│  QR con la referencia + firmas de despacho y recibo          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
)

var _ ports.ShipmentPDFGenerator = (*ShipmentPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 92, Green: 51, Blue: 23}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var locationLabels = map[string]string{
	"warehouse": "Bodega",
	"store":     "Tienda",
}

var statusLabels = map[string]string{
	"pending":   "Pendiente",
	"completed": "Despachado",
	"rejected":  "Rechazado",
}

// ShipmentPDFGenerator implementa ports.ShipmentPDFGenerator usando Maroto v2.
type ShipmentPDFGenerator struct {
	company string
}

// NewShipmentPDFGenerator construye el generador; company aparece en el encabezado.
func NewShipmentPDFGenerator(company string) *ShipmentPDFGenerator {
	return &ShipmentPDFGenerator{company: company}
}

// GenerateShipmentPDF genera la guía y devuelve sus bytes. transfers no puede venir vacío.
func (g *ShipmentPDFGenerator) GenerateShipmentPDF(_ context.Context, shipmentRef string, transfers []dto.TransferResponse) ([]byte, error) {
	if len(transfers) == 0 {
		return nil, fmt.Errorf("pdf: envío %s sin traslados", shipmentRef)
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Guía de despacho "+shipmentRef, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	first := transfers[0]
	m.AddRows(headerRow(g.company, shipmentRef, first.CreatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(first.FromLocation, first.ToLocation, first.Notes))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	var total int64
	for _, t := range transfers {
		m.AddRows(tableDetailRow(t))
		total += t.Quantity
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(total, len(transfers)))
	m.AddRows(line.NewRow(4))
	m.AddRows(footerRow(shipmentRef))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(company, shipmentRef string, createdAt time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Marroquinería"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Control de inventario bodega / tienda", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GUÍA DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shipmentRef, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+createdAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func routeRow(from, to, notes string) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RUTA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  →  %s", locationLabel(from), locationLabel(to)), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Notas: "+nonEmpty(notes, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 3, align.Left),
		h("Producto", 5, align.Left),
		h("Cant.", 2, align.Center),
		h("Estado", 2, align.Center),
	)
}

func tableDetailRow(t dto.TransferResponse) core.Row {
	return row.New(7).Add(
		col.New(3).Add(text.New(t.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(5).Add(text.New(t.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", t.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(statusLabel(t.Status), props.Text{Size: 8, Align: align.Center, Top: 1})),
	)
}

func totalRow(units int64, lines int) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(6).Add(text.New(fmt.Sprintf("TOTAL: %d unidades en %d líneas", units, lines), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

// footerRow: QR con la referencia (se escanea al recibir en tienda) y espacio de firmas.
func footerRow(shipmentRef string) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(shipmentRef, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Despachado por: ______________________", props.Text{Size: 9, Top: 8, Left: 4}),
			text.New("Recibido por:   ______________________", props.Text{Size: 9, Top: 20, Left: 4}),
			text.New("Escanee el código al recibir para confirmar el envío.", props.Text{
				Size: 7, Top: 32, Left: 4, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func locationLabel(loc string) string {
	return nonEmpty(locationLabels[loc], loc)
}

func statusLabel(s string) string {
	return nonEmpty(statusLabels[s], s)
}
