package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryHandler maneja las peticiones HTTP del libro de movimientos.
type InventoryHandler struct {
	uc *inventory.MovementUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "sku, movement_type (in|out), quantity, location, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/warehouse/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RecordMovementFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        sku       query  string  false  "SKU exacto"
// @Param        location  query  string  false  "warehouse | store"
// @Param        type      query  string  false  "in | out"
// @Param        limit     query  int     false  "Máx. 500 (default 50)"
// @Param        offset    query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ListMovements(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportMovements godoc
// @Summary      Exportar movimientos a Excel
// @Tags         movements
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        sku       query  string  false  "SKU exacto"
// @Param        location  query  string  false  "warehouse | store"
// @Param        type      query  string  false  "in | out"
// @Success      200  {file}  file
// @Router       /api/warehouse/movements/export [get]
func (h *InventoryHandler) ExportMovements(c *fiber.Ctx) error {
	var q dto.MovementQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	data, err := h.uc.ExportMovements(c.Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxMime)
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="movimientos-%s.xlsx"`, time.Now().UTC().Format("20060102")))
	return c.Send(data)
}
