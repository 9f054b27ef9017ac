package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
)

// InvoiceHandler lectura (OCR) y confirmación de facturas de proveedor.
type InvoiceHandler struct {
	ocr      *usecase.OCRUseCase
	invoices *inventory.InvoiceUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(ocr *usecase.OCRUseCase, invoices *inventory.InvoiceUseCase) *InvoiceHandler {
	return &InvoiceHandler{ocr: ocr, invoices: invoices}
}

// OCR godoc
// @Summary      Leer factura de proveedor
// @Description  Envía la imagen o PDF al modelo de visión y devuelve las líneas extraídas.
//
//	No modifica el inventario: el resultado se revisa y se confirma aparte.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Imagen (jpeg, png, webp, gif) o PDF, máx. 10 MB"
// @Success      200  {object}  dto.OCRResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      429  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/warehouse/ocr [post]
func (h *InvoiceHandler) OCR(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "campo file requerido", Code: "VALIDATION"})
	}
	if fh.Size > usecase.MaxInvoiceFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "el archivo supera 10 MB", Code: "VALIDATION"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, err)
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, usecase.MaxInvoiceFileSize+1))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ocr.ExtractInvoice(c.Context(), content, fh.Header.Get(fiber.HeaderContentType))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ConfirmInvoice godoc
// @Summary      Confirmar factura de proveedor
// @Description  Registra una entrada por línea en la ubicación indicada. Líneas sin SKU se
//
//	resuelven por nombre contra el catálogo. Una factura con líneas fallidas puede
//	reenviarse: solo se aplican las líneas que aún no entraron (las demás vuelven con
//	alreadyApplied). Una factura sin líneas pendientes responde 409.
//
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConfirmInvoiceRequest  true  "invoiceNumber, supplier, items, location"
// @Success      200  {object}  dto.ConfirmInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/confirm-invoice [post]
func (h *InvoiceHandler) ConfirmInvoice(c *fiber.Ctx) error {
	var in dto.ConfirmInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.ConfirmInvoiceFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConfirmInvoiceResponse{Results: *out})
}
