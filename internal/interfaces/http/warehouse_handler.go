package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
)

// WarehouseHandler panel e inventario por ubicación.
type WarehouseHandler struct {
	uc *usecase.WarehouseUseCase
}

// NewWarehouseHandler construye el handler.
func NewWarehouseHandler(uc *usecase.WarehouseUseCase) *WarehouseHandler {
	return &WarehouseHandler{uc: uc}
}

// Stats godoc
// @Summary      Indicadores de bodega
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.WarehouseStatsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/warehouse/stats [get]
func (h *WarehouseHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Registros bajo su stock mínimo
// @Description  Mayor déficit primero, paginado por número de página.
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        page   query  int  false  "Página (desde 1)"
// @Param        limit  query  int  false  "Tamaño de página (máx. 100)"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/warehouse/low-stock [get]
func (h *WarehouseHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.Context(), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Inventory godoc
// @Summary      Stock por SKU y ubicación
// @Tags         warehouse
// @Security     Bearer
// @Produce      json
// @Param        location  query  string  false  "warehouse | store"
// @Success      200  {object}  dto.InventoryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/inventory [get]
func (h *WarehouseHandler) Inventory(c *fiber.Ctx) error {
	out, err := h.uc.Inventory(c.Context(), c.Query("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetMinStock godoc
// @Summary      Fijar stock mínimo de un registro
// @Tags         warehouse
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku       path  string                  true  "SKU"
// @Param        location  path  string                  true  "warehouse | store"
// @Param        body      body  dto.SetMinStockRequest  true  "min_stock"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/warehouse/inventory/{sku}/{location}/min-stock [put]
func (h *WarehouseHandler) SetMinStock(c *fiber.Ctx) error {
	var in dto.SetMinStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SetMinStock(c.Context(), c.Params("sku"), c.Params("location"), in.MinStock); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
