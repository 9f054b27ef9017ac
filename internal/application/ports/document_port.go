package ports

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
)

// ShipmentPDFGenerator genera la guía de despacho de un envío (lote de traslados).
type ShipmentPDFGenerator interface {
	GenerateShipmentPDF(ctx context.Context, shipmentRef string, transfers []dto.TransferResponse) ([]byte, error)
}

// MovementExporter exporta movimientos a hoja de cálculo.
type MovementExporter interface {
	ExportMovements(ctx context.Context, movements []dto.MovementResponse) ([]byte, error)
}
