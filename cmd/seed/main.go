// seed carga el catálogo de productos desde una hoja de cálculo (.xlsx).
//
// Uso: go run ./cmd/seed [ruta/catalogo.xlsx]
// Por defecto busca catalogo.xlsx en el directorio actual. Usa la misma configuración de
// base de datos que la API (DB_DRIVER, DATABASE_URL, SQLITE_PATH, ...).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/leatherworks/warehouse-api/internal/application/usecase"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/excel"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/postgres"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
	"github.com/leatherworks/warehouse-api/pkg/config"
)

func main() {
	path := "catalogo.xlsx"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir catálogo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := excel.ReadCatalog(f, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var (
		products repository.ProductRepository
		inv      repository.InventoryRepository
	)
	switch cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.DB.SQLitePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir SQLite: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		products, inv = sqlite.NewProductRepository(db), sqlite.NewInventoryRepository(db)
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Conectar PostgreSQL: %v\n", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			fmt.Fprintf(os.Stderr, "Migrar esquema: %v\n", err)
			os.Exit(1)
		}
		products, inv = postgres.NewProductRepository(pool), postgres.NewInventoryRepository(pool)
	}

	uc := usecase.NewProductUseCase(products, inv)
	var ok, failed int
	for _, r := range rows {
		if _, err := uc.Upsert(ctx, r.SKU, r.Product); err != nil {
			fmt.Fprintf(os.Stderr, "fila %d (%s): %v\n", r.Line, r.SKU, err)
			failed++
			continue
		}
		ok++
	}
	fmt.Printf("Catálogo: %d productos cargados, %d con error\n", ok, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
