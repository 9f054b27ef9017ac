package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/domain"
)

// MaxInvoiceFileSize tamaño máximo aceptado para la imagen/PDF de la factura.
const MaxInvoiceFileSize = 10 << 20

const ocrTimeout = 60 * time.Second

var allowedInvoiceTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
}

// OCRUseCase orquesta la lectura de facturas de proveedor con el modelo de visión.
// Aplica un timeout de 60 segundos: las imágenes grandes tardan en procesarse.
type OCRUseCase struct {
	extractor ports.InvoiceExtractor
}

// NewOCRUseCase construye el caso de uso inyectando el puerto InvoiceExtractor.
func NewOCRUseCase(extractor ports.InvoiceExtractor) *OCRUseCase {
	return &OCRUseCase{extractor: extractor}
}

// ExtractInvoice valida el archivo y delega al proveedor. Si mimeType llega vacío
// se detecta por contenido. Fallas del proveedor se envuelven en ErrUpstream.
func (uc *OCRUseCase) ExtractInvoice(ctx context.Context, content []byte, mimeType string) (*dto.OCRResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
	}
	if len(content) > MaxInvoiceFileSize {
		return nil, fmt.Errorf("%w: el archivo supera %d MB", domain.ErrInvalidInput, MaxInvoiceFileSize>>20)
	}
	mimeType = normalizeMime(mimeType, content)
	if !allowedInvoiceTypes[mimeType] {
		return nil, fmt.Errorf("%w: tipo de archivo %q no soportado", domain.ErrInvalidInput, mimeType)
	}

	ctx, cancel := context.WithTimeout(ctx, ocrTimeout)
	defer cancel()

	result, err := uc.extractor.ExtractInvoice(ctx, content, mimeType)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: ocr: %v", domain.ErrUpstream, err)
	}
	if result.Items == nil {
		result.Items = []dto.OCRItem{}
	}
	return result, nil
}

func normalizeMime(mimeType string, content []byte) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(content)
		if i := strings.Index(mimeType, ";"); i >= 0 {
			mimeType = mimeType[:i]
		}
	}
	if mimeType == "image/jpg" {
		mimeType = "image/jpeg"
	}
	return mimeType
}
