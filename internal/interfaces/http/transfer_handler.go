package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
)

// TransferHandler traslados entre bodega y tienda.
type TransferHandler struct {
	uc *inventory.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *inventory.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Trasladar stock entre ubicaciones
// @Description  Cada línea se procesa de forma independiente: las fallidas van en errors y no
//
//	afectan a las demás. Con pending=true los traslados quedan pendientes de aprobación.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "items, from_location, to_location, notes, create_shipment, pending"
// @Success      200   {object}  map[string]dto.TransferResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateTransferFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"results": out})
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | completed | rejected"
// @Param        limit   query  int     false  "Máx. 200"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/warehouse/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	var q dto.TransferQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListTransfers(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Aprobar un traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.CompleteTransfer(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar un traslado pendiente
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traslado"
// @Param        body  body  dto.RejectTransferRequest  false  "notes"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/warehouse/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectTransferRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.RejectTransfer(c.Context(), c.Params("id"), GetUserID(c), in.Notes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ShipmentPDF godoc
// @Summary      Guía de despacho de un envío
// @Tags         transfers
// @Security     Bearer
// @Produce      application/pdf
// @Param        ref  path  string  true  "Referencia SHP-YYYYMMDD-XXXXXX"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/shipments/{ref}/pdf [get]
func (h *TransferHandler) ShipmentPDF(c *fiber.Ctx) error {
	ref := c.Params("ref")
	data, err := h.uc.ShipmentPDF(c.Context(), ref)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="%s.pdf"`, ref))
	return c.Send(data)
}
