package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
	"github.com/leatherworks/warehouse-api/internal/domain"
)

type stubExtractor struct {
	gotMime string
	result  *dto.OCRResult
	err     error
}

func (s *stubExtractor) ExtractInvoice(ctx context.Context, _ []byte, mimeType string) (*dto.OCRResult, error) {
	s.gotMime = mimeType
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("se esperaba timeout en el contexto")
	}
	return s.result, s.err
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000000000000000")

func TestOCR_DetectaTipoPorContenido(t *testing.T) {
	ext := &stubExtractor{result: &dto.OCRResult{InvoiceNumber: "F-9"}}
	uc := usecase.NewOCRUseCase(ext)

	res, err := uc.ExtractInvoice(context.Background(), pngHeader, "application/octet-stream")
	require.NoError(t, err)
	assert.Equal(t, "image/png", ext.gotMime)
	assert.Equal(t, "F-9", res.InvoiceNumber)
	assert.NotNil(t, res.Items)
}

func TestOCR_RechazaArchivoVacioOTipoNoSoportado(t *testing.T) {
	uc := usecase.NewOCRUseCase(&stubExtractor{})

	_, err := uc.ExtractInvoice(context.Background(), nil, "image/png")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ExtractInvoice(context.Background(), []byte("hola"), "text/plain")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestOCR_FallaDelProveedorEsUpstream(t *testing.T) {
	uc := usecase.NewOCRUseCase(&stubExtractor{err: errors.New("503")})
	_, err := uc.ExtractInvoice(context.Background(), pngHeader, "image/png")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
