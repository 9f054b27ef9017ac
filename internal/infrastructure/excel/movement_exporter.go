// Package excel exporta el libro de movimientos a .xlsx con excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
)

var _ ports.MovementExporter = (*MovementExporter)(nil)

// SheetName hoja única del archivo exportado.
const SheetName = "Movimientos"

var headers = []string{"Fecha", "SKU", "Producto", "Tipo", "Cantidad", "Ubicación", "Motivo", "Usuario", "Traslado"}

// MovementExporter escribe movimientos en una hoja con encabezado fijo, más recientes primero.
type MovementExporter struct{}

// NewMovementExporter construye el exportador.
func NewMovementExporter() *MovementExporter { return &MovementExporter{} }

// ExportMovements genera el .xlsx en memoria. Respeta la cancelación del contexto entre filas.
func (e *MovementExporter) ExportMovements(ctx context.Context, movements []dto.MovementResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("excel: escribir encabezado: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(SheetName, "A1", "I1", style)
	}

	for i, m := range movements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("excel: celda fila %d: %w", i+2, err)
		}
		values := []any{
			m.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			m.SKU,
			m.ProductName,
			movementTypeLabel(m.MovementType),
			m.Quantity,
			m.Location,
			m.Reason,
			m.UserID,
			m.TransferID,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("excel: escribir fila %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(SheetName, "A", "A", 20)
	_ = f.SetColWidth(SheetName, "B", "C", 24)
	_ = f.SetColWidth(SheetName, "G", "G", 30)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar: %w", err)
	}
	return buf.Bytes(), nil
}

func movementTypeLabel(t string) string {
	switch t {
	case "in":
		return "Entrada"
	case "out":
		return "Salida"
	}
	return t
}
