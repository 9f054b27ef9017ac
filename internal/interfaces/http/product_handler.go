package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
)

// ProductHandler catálogo agrupado por artículo base.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo con variantes y stock
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListCatalog(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByBaseSKU godoc
// @Summary      Artículo base con sus variantes
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        baseSku  path  string  true  "SKU base (ej. BOL-001)"
// @Success      200  {object}  dto.BaseProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{baseSku} [get]
func (h *ProductHandler) GetByBaseSKU(c *fiber.Ctx) error {
	out, err := h.uc.GetBaseProduct(c.Context(), c.Params("baseSku"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Upsert godoc
// @Summary      Crear o actualizar una variante
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        sku   path  string                    true  "SKU de la variante"
// @Param        body  body  dto.UpsertProductRequest  true  "Datos del producto"
// @Success      200  {object}  dto.VariantResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/products/{sku} [put]
func (h *ProductHandler) Upsert(c *fiber.Ctx) error {
	var in dto.UpsertProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Upsert(c.Context(), c.Params("sku"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
