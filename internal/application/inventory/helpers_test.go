package inventory_test

import (
	"context"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/cache"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/postgres"
	"github.com/leatherworks/warehouse-api/internal/infrastructure/sqlite"
	"github.com/leatherworks/warehouse-api/pkg/config"
	"github.com/leatherworks/warehouse-api/pkg/logger"
)

// recordingPublisher guarda los movimientos publicados.
type recordingPublisher struct {
	mu   sync.Mutex
	movs []*entity.StockMovement
}

func (p *recordingPublisher) PublishMovements(_ context.Context, movements ...*entity.StockMovement) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movs = append(p.movs, movements...)
	return nil
}

type fixture struct {
	repos     inventory.TxRepos
	publisher *recordingPublisher
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	invoices  *inventory.InvoiceUseCase
}

// newFixture arma los casos de uso sobre SQLite en memoria.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return fixtureWith(sqlite.NewTxRunner(db), sqlite.Repos(db))
}

// newPostgresFixture arma los casos de uso sobre la base indicada en TEST_DATABASE_URL.
// Sin esa variable la prueba se omite.
func newPostgresFixture(t *testing.T) *fixture {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return fixtureWith(postgres.NewTxRunner(pool), postgres.Repos(pool))
}

// forEachBackend ejecuta fn sobre SQLite y, si hay base configurada, sobre PostgreSQL.
func forEachBackend(t *testing.T, fn func(t *testing.T, f *fixture)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newFixture(t)) })
	t.Run("postgres", func(t *testing.T) { fn(t, newPostgresFixture(t)) })
}

func fixtureWith(tx inventory.TxRunner, repos inventory.TxRepos) *fixture {
	pub := &recordingPublisher{}
	log := logger.Nop()
	mov := inventory.NewMovementUseCase(tx, repos.Movements, pub, nil, log)
	return &fixture{
		repos:     repos,
		publisher: pub,
		movements: mov,
		transfers: inventory.NewTransferUseCase(tx, repos.Transfers, pub, nil, log),
		invoices:  inventory.NewInvoiceUseCase(mov, repos.Products, repos.Invoices, cache.NewLocalLocker(), log),
	}
}

// uniqueSKU evita choques entre corridas cuando la base es compartida.
func uniqueSKU(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

func (f *fixture) seedProduct(t *testing.T, sku, name string, minStock int64) {
	t.Helper()
	require.NoError(t, f.repos.Products.Upsert(context.Background(), &entity.Product{
		SKU:             sku,
		BaseSKU:         sku,
		Name:            name,
		Category:        "bolsos",
		Price:           decimal.NewFromInt(100000),
		DefaultMinStock: minStock,
		Active:          true,
	}))
}

func (f *fixture) record(t *testing.T, sku string, typ entity.MovementType, qty int64, loc entity.Location) {
	t.Helper()
	_, err := f.movements.RecordMovement(context.Background(), inventory.MovementInput{
		SKU: sku, MovementType: typ, Quantity: qty, Location: loc, Reason: "seed", UserID: "user-1",
	})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, sku string, loc entity.Location) int64 {
	t.Helper()
	rec, err := f.repos.Inventory.Get(context.Background(), sku, loc)
	require.NoError(t, err)
	return rec.Quantity
}
