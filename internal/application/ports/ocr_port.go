package ports

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
)

// InvoiceExtractor puerto de salida hacia el proveedor de OCR (modelo de visión).
// Cualquier adaptador (Anthropic, Gemini, mock) implementa esta interfaz; la aplicación
// solo conoce el contrato: bytes de imagen/PDF → líneas estructuradas.
type InvoiceExtractor interface {
	// ExtractInvoice lee la factura. El contexto debe llevar timeout.
	ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*dto.OCRResult, error)
}
