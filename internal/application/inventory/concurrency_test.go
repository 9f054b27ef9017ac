package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

func (f *fixture) countMovements(t *testing.T, sku string, loc entity.Location, typ entity.MovementType) int {
	t.Helper()
	list, err := f.repos.Movements.List(context.Background(), repository.MovementFilter{
		SKU: sku, Location: &loc, MovementType: typ,
	})
	require.NoError(t, err)
	return len(list)
}

// parallel lanza n goroutines y espera a que terminen todas.
func parallel(n int, fn func(i int)) {
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			fn(i)
		}(i)
	}
	close(start)
	wg.Wait()
}

func TestRecordMovement_EntradasConcurrentesSobreFilaNueva(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		sku := uniqueSKU("CONC")
		f.seedProduct(t, sku, "Bolso concurrente", 0)
		const n, qty = 20, 3

		var failed atomic.Int32
		parallel(n, func(int) {
			_, err := f.movements.RecordMovement(context.Background(), inventory.MovementInput{
				SKU: sku, MovementType: entity.MovementIn, Quantity: qty, Location: entity.LocationWarehouse, UserID: "user-1",
			})
			if err != nil {
				failed.Add(1)
			}
		})

		assert.Zero(t, failed.Load())
		assert.Equal(t, int64(n*qty), f.quantity(t, sku, entity.LocationWarehouse))
		assert.Equal(t, n, f.countMovements(t, sku, entity.LocationWarehouse, entity.MovementIn))
	})
}

func TestRecordMovement_SalidasConcurrentesNuncaDejanStockNegativo(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		sku := uniqueSKU("CONC")
		f.seedProduct(t, sku, "Bolso concurrente", 0)
		f.record(t, sku, entity.MovementIn, 10, entity.LocationStore)

		var ok, insufficient atomic.Int32
		parallel(15, func(int) {
			_, err := f.movements.RecordMovement(context.Background(), inventory.MovementInput{
				SKU: sku, MovementType: entity.MovementOut, Quantity: 1, Location: entity.LocationStore, UserID: "user-1",
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				insufficient.Add(1)
			}
		})

		assert.Equal(t, int32(10), ok.Load())
		assert.Equal(t, int32(5), insufficient.Load())
		assert.Equal(t, int64(0), f.quantity(t, sku, entity.LocationStore))
		assert.Equal(t, 10, f.countMovements(t, sku, entity.LocationStore, entity.MovementOut))
	})
}

func TestCreateTransfer_ConcurrentesHaciaDestinoVacio(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		sku := uniqueSKU("CONC")
		f.seedProduct(t, sku, "Bolso concurrente", 0)
		f.record(t, sku, entity.MovementIn, 100, entity.LocationWarehouse)
		const n, qty = 10, 2

		var itemErrors atomic.Int32
		parallel(n, func(int) {
			res, err := f.transfers.CreateTransfer(context.Background(), transferInput(inventory.TransferItem{SKU: sku, Quantity: qty}))
			if err != nil || len(res.Errors) > 0 {
				itemErrors.Add(1)
			}
		})

		assert.Zero(t, itemErrors.Load())
		assert.Equal(t, int64(100-n*qty), f.quantity(t, sku, entity.LocationWarehouse))
		assert.Equal(t, int64(n*qty), f.quantity(t, sku, entity.LocationStore))
		assert.Equal(t, n, f.countMovements(t, sku, entity.LocationStore, entity.MovementIn))
		assert.Equal(t, n, f.countMovements(t, sku, entity.LocationWarehouse, entity.MovementOut))
	})
}

func TestCreateTransfer_SentidosOpuestosConcurrentesConservanElTotal(t *testing.T) {
	forEachBackend(t, func(t *testing.T, f *fixture) {
		sku := uniqueSKU("CONC")
		f.seedProduct(t, sku, "Bolso concurrente", 0)
		f.record(t, sku, entity.MovementIn, 50, entity.LocationWarehouse)
		f.record(t, sku, entity.MovementIn, 50, entity.LocationStore)

		var itemErrors atomic.Int32
		parallel(20, func(i int) {
			in := transferInput(inventory.TransferItem{SKU: sku, Quantity: 1})
			if i%2 == 1 {
				in.FromLocation, in.ToLocation = entity.LocationStore, entity.LocationWarehouse
			}
			res, err := f.transfers.CreateTransfer(context.Background(), in)
			if err != nil || len(res.Errors) > 0 {
				itemErrors.Add(1)
			}
		})

		assert.Zero(t, itemErrors.Load(), "ningún traslado debe fallar por bloqueo mutuo")
		assert.Equal(t, int64(50), f.quantity(t, sku, entity.LocationWarehouse))
		assert.Equal(t, int64(50), f.quantity(t, sku, entity.LocationStore))
	})
}
