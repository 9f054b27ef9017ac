package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/catalog"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

// ProductUseCase catálogo agrupado por artículo base. El stock se maneja vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	inventory repository.InventoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, inventory repository.InventoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, inventory: inventory}
}

// Upsert crea o actualiza una variante. Price no puede ser negativo.
func (uc *ProductUseCase) Upsert(ctx context.Context, sku string, in dto.UpsertProductRequest) (*dto.VariantResponse, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	if in.Price.LessThan(decimal.Zero) || in.DefaultMinStock < 0 {
		return nil, fmt.Errorf("%w: price y default_min_stock no pueden ser negativos", domain.ErrInvalidInput)
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}

	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	product := &entity.Product{
		SKU:             sku,
		BaseSKU:         strings.TrimSpace(in.BaseSKU),
		Name:            strings.TrimSpace(in.Name),
		Category:        strings.ToLower(strings.TrimSpace(in.Category)),
		Color:           in.Color,
		Size:            in.Size,
		Price:           in.Price,
		ImageURL:        in.ImageURL,
		DefaultMinStock: in.DefaultMinStock,
		Active:          active,
	}
	if existing != nil {
		product.CreatedAt = existing.CreatedAt
	}
	if err := uc.repo.Upsert(ctx, product); err != nil {
		return nil, err
	}
	resp := toVariantResponse(catalog.Variant{Product: product})
	return &resp, nil
}

// ListCatalog agrupa los productos activos en artículos base con sus variantes.
func (uc *ProductUseCase) ListCatalog(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := uc.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	stock, err := uc.stockBySKU(ctx, "")
	if err != nil {
		return nil, err
	}
	groups := catalog.GroupVariants(products, stock)
	out := &dto.ProductListResponse{Products: make([]dto.BaseProductResponse, 0, len(groups))}
	for _, g := range groups {
		out.Products = append(out.Products, toBaseProductResponse(g))
	}
	return out, nil
}

// GetBaseProduct un artículo base con sus variantes; ErrNotFound si no tiene variantes activas.
func (uc *ProductUseCase) GetBaseProduct(ctx context.Context, baseSKU string) (*dto.BaseProductResponse, error) {
	products, err := uc.repo.ListByBaseSKU(ctx, baseSKU)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, baseSKU)
	}
	stock := make(map[string]int64, len(products))
	for _, p := range products {
		s, err := uc.stockBySKU(ctx, p.SKU)
		if err != nil {
			return nil, err
		}
		stock[p.SKU] = s[p.SKU]
	}
	groups := catalog.GroupVariants(products, stock)
	resp := toBaseProductResponse(groups[0])
	return &resp, nil
}

// stockBySKU suma el stock de ambas ubicaciones (sku vacío = todos).
func (uc *ProductUseCase) stockBySKU(ctx context.Context, sku string) (map[string]int64, error) {
	records, err := uc.inventory.List(ctx, repository.InventoryFilter{SKU: sku})
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(records))
	for _, r := range records {
		out[r.SKU] += r.Quantity
	}
	return out, nil
}

func toBaseProductResponse(b catalog.BaseProduct) dto.BaseProductResponse {
	resp := dto.BaseProductResponse{
		BaseSKU:    b.BaseSKU,
		Name:       b.Name,
		Category:   b.Category,
		FromPrice:  b.FromPrice,
		ToPrice:    b.ToPrice,
		ImageURL:   b.ImageURL,
		Colors:     append([]string{}, b.Colors...),
		Sizes:      append([]string{}, b.Sizes...),
		TotalStock: b.TotalStock,
		Variants:   make([]dto.VariantResponse, 0, len(b.Variants)),
	}
	for _, v := range b.Variants {
		resp.Variants = append(resp.Variants, toVariantResponse(v))
	}
	return resp
}

func toVariantResponse(v catalog.Variant) dto.VariantResponse {
	return dto.VariantResponse{
		SKU:      v.Product.SKU,
		Name:     v.Product.Name,
		Color:    v.Product.Color,
		Size:     v.Product.Size,
		Price:    v.Product.Price,
		ImageURL: v.Product.ImageURL,
		Stock:    v.Stock,
	}
}
