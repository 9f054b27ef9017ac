package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/analytics"
	"github.com/leatherworks/warehouse-api/internal/application/dto"
)

// AnalyticsHandler rotación, popularidad y estado de stock por producto.
type AnalyticsHandler struct {
	uc *analytics.UseCase
}

// NewAnalyticsHandler construye el handler.
func NewAnalyticsHandler(uc *analytics.UseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Get godoc
// @Summary      Analítica de inventario
// @Description  Agrega los movimientos de los últimos N días (default 30, máx. 365).
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Param        days      query  int     false  "Ventana en días (1..365)"
// @Param        location  query  string  false  "warehouse | store"
// @Success      200  {object}  dto.AnalyticsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/warehouse/analytics [get]
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	days := 0
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "days debe ser un entero", Code: "VALIDATION"})
		}
		days = n
	}
	out, err := h.uc.ComputeAnalytics(c.Context(), days, c.Query("location"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
