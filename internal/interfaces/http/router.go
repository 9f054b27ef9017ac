package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"

	"github.com/leatherworks/warehouse-api/internal/application/analytics"
	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
)

// bodyLimit cubre facturas de 10 MB más el overhead multipart.
const bodyLimit = 12 << 20

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	OCRUC       *usecase.OCRUseCase
	MovementUC  *inventory.MovementUseCase
	TransferUC  *inventory.TransferUseCase
	InvoiceUC   *inventory.InvoiceUseCase
	AnalyticsUC *analytics.UseCase
	JWTSecret   string
	ServiceName string
	Log         zerolog.Logger

	// OCRRateLimit lecturas de factura por usuario y minuto (0 = 10).
	OCRRateLimit int
}

// NewApp crea la app Fiber con el manejador de errores {error, code} y el límite de cuerpo.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 90,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
}

// Router registra middlewares y rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(helmet.New())
	app.Use(RequestLogger(deps.Log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo: lectura para cualquier rol autenticado, escritura solo admin.
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:baseSku", productHandler.GetByBaseSKU)
	products.Put("/:sku", RequireRole(RoleAdmin), productHandler.Upsert)

	// Bodega: admin y bodeguero.
	wh := api.Group("/warehouse", RequireRole(RoleAdmin, RoleWarehouse))

	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	wh.Get("/stats", warehouseHandler.Stats)
	wh.Get("/low-stock", warehouseHandler.LowStock)
	wh.Get("/inventory", warehouseHandler.Inventory)
	wh.Put("/inventory/:sku/:location/min-stock", warehouseHandler.SetMinStock)

	inventoryHandler := NewInventoryHandler(deps.MovementUC)
	wh.Get("/movements", inventoryHandler.ListMovements)
	wh.Post("/movements", inventoryHandler.RecordMovement)
	wh.Get("/movements/export", inventoryHandler.ExportMovements)

	transferHandler := NewTransferHandler(deps.TransferUC)
	wh.Get("/transfers", transferHandler.List)
	wh.Post("/transfers", transferHandler.Create)
	wh.Post("/transfers/:id/complete", transferHandler.Complete)
	wh.Post("/transfers/:id/reject", transferHandler.Reject)
	wh.Get("/shipments/:ref/pdf", transferHandler.ShipmentPDF)

	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsUC)
	wh.Get("/analytics", analyticsHandler.Get)

	invoiceHandler := NewInvoiceHandler(deps.OCRUC, deps.InvoiceUC)
	wh.Post("/ocr", ocrLimiter(deps.OCRRateLimit), invoiceHandler.OCR)
	wh.Post("/confirm-invoice", invoiceHandler.ConfirmInvoice)
}

// ocrLimiter limita las llamadas al proveedor de visión por usuario.
func ocrLimiter(max int) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if id := GetUserID(c); id != "" {
				return "ocr:" + id
			}
			return "ocr:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "demasiadas lecturas de factura; intenta en un minuto", Code: "RATE_LIMITED",
			})
		},
	})
}
