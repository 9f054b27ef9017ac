package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/analytics"
	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/cache"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/excel"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/pdf"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
	apphttp "github.com/leatherworks/warehouse-api/internal/interfaces/http"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

// fakeExtractor devuelve siempre el mismo resultado de OCR.
type fakeExtractor struct {
	calls int
}

func (f *fakeExtractor) ExtractInvoice(_ context.Context, _ []byte, _ string) (*dto.OCRResult, error) {
	f.calls++
	return &dto.OCRResult{
		InvoiceNumber: "FV-77",
		Supplier:      "Curtiembre Andina",
		Confidence:    0.9,
		Items:         []dto.OCRItem{{SKU: "BOL-001", Quantity: 4, Description: "Bolso Tote"}},
	}, nil
}

type apiEnv struct {
	app *fiber.App
	ocr *fakeExtractor
}

func newAPI(t *testing.T) *apiEnv {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repos := sqlite.Repos(db)
	tx := sqlite.NewTxRunner(db)
	log := logger.Nop()
	ocr := &fakeExtractor{}

	movUC := inventory.NewMovementUseCase(tx, repos.Movements, nil, excel.NewMovementExporter(), log)
	productUC := usecase.NewProductUseCase(repos.Products, repos.Inventory)

	_, err = productUC.Upsert(ctx, "BOL-001", dto.UpsertProductRequest{
		Name: "Bolso Tote", Category: "Bolsos", Price: decimal.NewFromInt(250000), DefaultMinStock: 5,
	})
	require.NoError(t, err)

	app := apphttp.NewApp("warehouse-api-test")
	apphttp.Router(app, apphttp.RouterDeps{
		WarehouseUC:  usecase.NewWarehouseUseCase(repos.Products, repos.Inventory, repos.Movements),
		ProductUC:    productUC,
		OCRUC:        usecase.NewOCRUseCase(ocr),
		MovementUC:   movUC,
		TransferUC:   inventory.NewTransferUseCase(tx, repos.Transfers, nil, pdf.NewShipmentPDFGenerator("Test"), log),
		InvoiceUC:    inventory.NewInvoiceUseCase(movUC, repos.Products, repos.Invoices, cache.NewLocalLocker(), log),
		AnalyticsUC:  analytics.NewUseCase(repos.Movements, repos.Inventory, repos.Products, 30),
		JWTSecret:    testJWTSecret,
		ServiceName:  "warehouse-api-test",
		Log:          log.Zerolog(),
		OCRRateLimit: 2,
	})
	return &apiEnv{app: app, ocr: ocr}
}

func (e *apiEnv) do(t *testing.T, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHealth_SinAutenticacion(t *testing.T) {
	e := newAPI(t)
	resp := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMovimiento_EntradaYSalidaSinStock(t *testing.T) {
	e := newAPI(t)

	resp := e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 10, Location: "warehouse", Reason: "compra",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var mov dto.MovementResponse
	decodeJSON(t, resp, &mov)
	assert.Equal(t, "BOL-001", mov.SKU)
	assert.Equal(t, testUserID, mov.UserID)

	resp = e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "out", Quantity: 11, Location: "warehouse",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, resp)["code"])
}

func TestMovimiento_ErroresDeValidacionYSKU(t *testing.T) {
	e := newAPI(t)

	resp := e.do(t, http.MethodPost, "/api/warehouse/movements", "admin", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "sideways", Quantity: 1, Location: "warehouse",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeError(t, resp)["code"])

	resp = e.do(t, http.MethodPost, "/api/warehouse/movements", "admin", dto.RecordMovementRequest{
		SKU: "NOPE", MovementType: "in", Quantity: 1, Location: "store",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestBodega_VendedorRecibe403(t *testing.T) {
	e := newAPI(t)
	resp := e.do(t, http.MethodGet, "/api/warehouse/stats", "seller", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products", "seller", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTraslado_ConEnvioYGuiaPDF(t *testing.T) {
	e := newAPI(t)
	e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 10, Location: "warehouse",
	})

	resp := e.do(t, http.MethodPost, "/api/warehouse/transfers", "warehouse", dto.CreateTransferRequest{
		Items:          []dto.TransferItemRequest{{SKU: "BOL-001", Quantity: 4}, {SKU: "NOPE", Quantity: 1}},
		FromLocation:   "warehouse",
		ToLocation:     "store",
		CreateShipment: true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Results dto.TransferResult `json:"results"`
	}
	decodeJSON(t, resp, &body)
	assert.Len(t, body.Results.Processed, 1)
	assert.Len(t, body.Results.Errors, 1)
	assert.Equal(t, int64(4), body.Results.TotalTransferred)
	require.NotEmpty(t, body.Results.ShipmentRef)

	resp = e.do(t, http.MethodGet, "/api/warehouse/shipments/"+body.Results.ShipmentRef+"/pdf", "warehouse", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	resp = e.do(t, http.MethodGet, "/api/warehouse/shipments/SHP-NOEXISTE/pdf", "warehouse", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTraslado_PendienteSeApruebaUnaVez(t *testing.T) {
	e := newAPI(t)
	e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 5, Location: "warehouse",
	})
	resp := e.do(t, http.MethodPost, "/api/warehouse/transfers", "warehouse", dto.CreateTransferRequest{
		Items: []dto.TransferItemRequest{{SKU: "BOL-001", Quantity: 2}}, FromLocation: "warehouse", ToLocation: "store", Pending: true,
	})
	var body struct {
		Results dto.TransferResult `json:"results"`
	}
	decodeJSON(t, resp, &body)
	require.Len(t, body.Results.Processed, 1)
	id := body.Results.Processed[0].ID

	resp = e.do(t, http.MethodPost, "/api/warehouse/transfers/"+id+"/complete", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/warehouse/transfers/"+id+"/reject", "admin", dto.RejectTransferRequest{Notes: "tarde"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", decodeError(t, resp)["code"])
}

func TestAnalitica_DiasFueraDeRango(t *testing.T) {
	e := newAPI(t)
	resp := e.do(t, http.MethodGet, "/api/warehouse/analytics?days=400", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/warehouse/analytics?days=abc", "admin", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/warehouse/analytics", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var empty dto.AnalyticsResponse
	decodeJSON(t, resp, &empty)
	assert.Zero(t, empty.Summary.TotalProducts, "sin movimientos en la ventana todo queda en cero")
	assert.Zero(t, empty.Summary.TotalMovements)
	assert.Empty(t, empty.TopProducts)

	resp = e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 3, Location: "warehouse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/warehouse/analytics", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.AnalyticsResponse
	decodeJSON(t, resp, &out)
	assert.Equal(t, 1, out.Summary.TotalProducts)
	assert.Equal(t, 1, out.Summary.TotalMovements)
}

func TestFactura_ConfirmarDosVecesEsConflicto(t *testing.T) {
	e := newAPI(t)
	req := dto.ConfirmInvoiceRequest{
		InvoiceNumber: "FV-77",
		Items:         []dto.OCRItem{{SKU: "BOL-001", Quantity: 4}},
		Location:      "warehouse",
	}
	resp := e.do(t, http.MethodPost, "/api/warehouse/confirm-invoice", "warehouse", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.ConfirmInvoiceResponse
	decodeJSON(t, resp, &out)
	assert.Equal(t, int64(4), out.Results.TotalProcessed)

	resp = e.do(t, http.MethodPost, "/api/warehouse/confirm-invoice", "warehouse", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func ocrRequest(t *testing.T) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="factura.png"`)
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\nfake"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/warehouse/ocr", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, "warehouse"))
	return req
}

func TestOCR_LecturaYLimiteDeTasa(t *testing.T) {
	e := newAPI(t)

	for i := 0; i < 2; i++ {
		resp, err := e.app.Test(ocrRequest(t), -1)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out dto.OCRResult
		decodeJSON(t, resp, &out)
		assert.Equal(t, "FV-77", out.InvoiceNumber)
		resp.Body.Close()
	}

	resp, err := e.app.Test(ocrRequest(t), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, 2, e.ocr.calls)
}

func TestOCR_SinArchivo(t *testing.T) {
	e := newAPI(t)
	resp := e.do(t, http.MethodPost, "/api/warehouse/ocr", "warehouse", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProductos_UpsertSoloAdmin(t *testing.T) {
	e := newAPI(t)
	body := dto.UpsertProductRequest{BaseSKU: "BOL-001", Name: "Bolso Tote Rojo", Category: "Bolsos", Price: decimal.NewFromInt(260000)}

	resp := e.do(t, http.MethodPut, "/api/products/BOL-001-ROJ", "warehouse", body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = e.do(t, http.MethodPut, "/api/products/BOL-001-ROJ", "admin", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/products/BOL-001", "seller", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var base dto.BaseProductResponse
	decodeJSON(t, resp, &base)
	assert.Len(t, base.Variants, 2)
}

func TestExportarMovimientos_XLSX(t *testing.T) {
	e := newAPI(t)
	e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 3, Location: "store",
	})
	resp := e.do(t, http.MethodGet, "/api/warehouse/movements/export?location=store", "warehouse", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")
}

func TestLowStock_Paginado(t *testing.T) {
	e := newAPI(t)
	e.do(t, http.MethodPost, "/api/warehouse/movements", "warehouse", dto.RecordMovementRequest{
		SKU: "BOL-001", MovementType: "in", Quantity: 2, Location: "store",
	})
	resp := e.do(t, http.MethodGet, "/api/warehouse/low-stock?page=1&limit=10", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LowStockResponse
	decodeJSON(t, resp, &out)
	require.Len(t, out.Products, 1)
	assert.Equal(t, int64(3), out.Products[0].Deficit)
	assert.Equal(t, 1, out.Pagination.Total)
}
