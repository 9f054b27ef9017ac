package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/leatherworks/warehouse-api/internal/application/analytics"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/application/ports"
	"github.com/leatherworks/warehouse-api/internal/application/usecase"
	infraai "github.com/leatherworks/warehouse-api/internal/infrastructure/ai"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/broker"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/cache"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/excel"
	infrapdf "github.com/leatherworks/warehouse-api/internal/infrastructure/pdf"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/postgres"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
	httpRouter "github.com/leatherworks/warehouse-api/internal/interfaces/http"
	"github.com/leatherworks/warehouse-api/pkg/config"
	"github.com/leatherworks/warehouse-api/pkg/logger"

	_ "github.com/leatherworks/warehouse-api/docs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	// Persistencia: PostgreSQL en producción, SQLite embebido en desarrollo.
	var (
		txRunner inventory.TxRunner
		repos    inventory.TxRepos
	)
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DB.SQLitePath)
		if err != nil {
			log.Fatal().Err(err).Msg("apertura de SQLite")
		}
		defer db.Close()
		txRunner = sqlite.NewTxRunner(db)
		repos = sqlite.Repos(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración de esquema")
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.Repos(pool)
	}

	// Lock de confirmación de facturas: Redis si hay REDIS_ADDR, si no en proceso.
	var locker ports.Locker = cache.NewLocalLocker()
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer client.Close()
		locker = cache.NewRedisLocker(client)
	}

	// Eventos de movimientos: Kafka si hay KAFKA_BROKERS, si no solo log.
	var publisher ports.MovementPublisher = broker.NewLogPublisher(log.Named("events"))
	if len(cfg.Kafka.Brokers) > 0 {
		kp := broker.NewKafkaPublisher(cfg.Kafka)
		defer kp.Close()
		publisher = kp
	}

	var extractor ports.InvoiceExtractor
	switch cfg.AI.Provider {
	case "gemini":
		extractor = infraai.NewGeminiExtractor(cfg.AI.GeminiAPIKey, cfg.AI.GeminiModel)
	default:
		extractor = infraai.NewAnthropicExtractor(cfg.AI.AnthropicAPIKey, cfg.AI.AnthropicModel)
	}

	movementUC := inventory.NewMovementUseCase(txRunner, repos.Movements, publisher, excel.NewMovementExporter(), log.Named("movements"))
	transferUC := inventory.NewTransferUseCase(txRunner, repos.Transfers, publisher, infrapdf.NewShipmentPDFGenerator(cfg.App.Name), log.Named("transfers"))
	invoiceUC := inventory.NewInvoiceUseCase(movementUC, repos.Products, repos.Invoices, locker, log.Named("invoices"))
	analyticsUC := analytics.NewUseCase(repos.Movements, repos.Inventory, repos.Products, cfg.Analytics.DefaultDays)
	warehouseUC := usecase.NewWarehouseUseCase(repos.Products, repos.Inventory, repos.Movements)
	productUC := usecase.NewProductUseCase(repos.Products, repos.Inventory)
	ocrUC := usecase.NewOCRUseCase(extractor)

	app := httpRouter.NewApp(cfg.App.Name)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		OCRUC:       ocrUC,
		MovementUC:  movementUC,
		TransferUC:  transferUC,
		InvoiceUC:   invoiceUC,
		AnalyticsUC: analyticsUC,
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Log:         log.Named("http").Zerolog(),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
