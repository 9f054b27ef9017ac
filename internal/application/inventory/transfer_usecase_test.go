package inventory_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/application/inventory"
	"github.com/leatherworks/warehouse-api/internal/domain"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

func transferInput(items ...inventory.TransferItem) inventory.TransferInput {
	return inventory.TransferInput{
		Items:        items,
		FromLocation: entity.LocationWarehouse,
		ToLocation:   entity.LocationStore,
		UserID:       "user-1",
	}
}

func TestCreateTransfer_ConservaElStockTotal(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A", "Bolso A", 0)
	f.record(t, "A", entity.MovementIn, 10, entity.LocationWarehouse)
	f.record(t, "A", entity.MovementIn, 1, entity.LocationStore)

	res, err := f.transfers.CreateTransfer(context.Background(), transferInput(inventory.TransferItem{SKU: "A", Quantity: 4}))
	require.NoError(t, err)
	require.Len(t, res.Processed, 1)
	assert.Empty(t, res.Errors)
	assert.Equal(t, int64(4), res.TotalTransferred)
	assert.Equal(t, "completed", res.Processed[0].Status)

	assert.Equal(t, int64(6), f.quantity(t, "A", entity.LocationWarehouse))
	assert.Equal(t, int64(5), f.quantity(t, "A", entity.LocationStore))
	assert.Equal(t, int64(11), f.quantity(t, "A", entity.LocationWarehouse)+f.quantity(t, "A", entity.LocationStore))

	legs, err := f.movements.ListMovements(context.Background(), dto.MovementQuery{SKU: "A"})
	require.NoError(t, err)
	var out, in int
	for _, m := range legs {
		if m.TransferID != res.Processed[0].ID {
			continue
		}
		if m.MovementType == "out" {
			out++
			assert.Equal(t, "warehouse", m.Location)
		} else {
			in++
			assert.Equal(t, "store", m.Location)
		}
	}
	assert.Equal(t, 1, out)
	assert.Equal(t, 1, in)
}

func TestCreateTransfer_FallaParcialNoDetieneElLote(t *testing.T) {
	f := newFixture(t)
	for _, sku := range []string{"A", "B", "C"} {
		f.seedProduct(t, sku, "Producto "+sku, 0)
		f.record(t, sku, entity.MovementIn, 5, entity.LocationWarehouse)
	}

	res, err := f.transfers.CreateTransfer(context.Background(), transferInput(
		inventory.TransferItem{SKU: "A", Quantity: 2},
		inventory.TransferItem{SKU: "B", Quantity: 0},
		inventory.TransferItem{SKU: "C", Quantity: 3},
	))
	require.NoError(t, err)
	require.Len(t, res.Processed, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "B", res.Errors[0].SKU)
	assert.Equal(t, int64(5), res.TotalTransferred)
	assert.Equal(t, int64(2), f.quantity(t, "A", entity.LocationStore))
	assert.Equal(t, int64(0), f.quantity(t, "B", entity.LocationStore))
	assert.Equal(t, int64(3), f.quantity(t, "C", entity.LocationStore))
}

func TestCreateTransfer_StockInsuficienteYSkuDesconocidoVanAErrores(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t, "A", "Bolso", 0)
	f.record(t, "A", entity.MovementIn, 1, entity.LocationWarehouse)

	res, err := f.transfers.CreateTransfer(context.Background(), transferInput(
		inventory.TransferItem{SKU: "A", Quantity: 2},
		inventory.TransferItem{SKU: "ZZZ", Quantity: 1},
	))
	require.NoError(t, err)
	assert.Empty(t, res.Processed)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0].Error, domain.ErrInsufficientStock.Error())
	assert.Contains(t, res.Errors[1].Error, domain.ErrNotFound.Error())
	assert.Equal(t, int64(1), f.quantity(t, "A", entity.LocationWarehouse))
}

func TestCreateTransfer_ValidacionDelLote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.transfers.CreateTransfer(ctx, transferInput())
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "lote vacío")

	in := transferInput(inventory.TransferItem{SKU: "A", Quantity: 1})
	in.ToLocation = entity.LocationWarehouse
	_, err = f.transfers.CreateTransfer(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen igual a destino")

	in.ToLocation = "depot"
	_, err = f.transfers.CreateTransfer(ctx, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateTransfer_ConEnvioAsignaReferenciaComun(t *testing.T) {
	f := newFixture(t)
	for _, sku := range []string{"A", "B"} {
		f.seedProduct(t, sku, "Producto "+sku, 0)
		f.record(t, sku, entity.MovementIn, 5, entity.LocationWarehouse)
	}
	in := transferInput(inventory.TransferItem{SKU: "A", Quantity: 1}, inventory.TransferItem{SKU: "B", Quantity: 1})
	in.CreateShipment = true

	res, err := f.transfers.CreateTransfer(context.Background(), in)
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^SHP-\d{8}-[0-9A-F]{6}$`), res.ShipmentRef)
	for _, p := range res.Processed {
		assert.Equal(t, res.ShipmentRef, p.ShipmentRef)
	}
}

func TestTransferPendiente_CompletarYRechazar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seedProduct(t, "A", "Bolso", 0)
	f.record(t, "A", entity.MovementIn, 5, entity.LocationWarehouse)

	in := transferInput(inventory.TransferItem{SKU: "A", Quantity: 2}, inventory.TransferItem{SKU: "A", Quantity: 1})
	in.Pending = true
	res, err := f.transfers.CreateTransfer(ctx, in)
	require.NoError(t, err)
	require.Len(t, res.Processed, 2)
	assert.Equal(t, "pending", res.Processed[0].Status)
	assert.Zero(t, res.TotalTransferred)
	assert.Equal(t, int64(5), f.quantity(t, "A", entity.LocationWarehouse), "pendiente no mueve stock")

	done, err := f.transfers.CompleteTransfer(ctx, res.Processed[0].ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.NotNil(t, done.ResolvedAt)
	assert.Equal(t, int64(3), f.quantity(t, "A", entity.LocationWarehouse))
	assert.Equal(t, int64(2), f.quantity(t, "A", entity.LocationStore))

	_, err = f.transfers.CompleteTransfer(ctx, res.Processed[0].ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrConflict, "un traslado resuelto es terminal")

	rej, err := f.transfers.RejectTransfer(ctx, res.Processed[1].ID, "user-2", "dañado")
	require.NoError(t, err)
	assert.Equal(t, "rejected", rej.Status)
	assert.Equal(t, "dañado", rej.Notes)

	_, err = f.transfers.CompleteTransfer(ctx, res.Processed[1].ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.transfers.RejectTransfer(ctx, "no-existe", "user-2", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	pending, err := f.transfers.ListTransfers(ctx, dto.TransferQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Empty(t, pending.Transfers)
	all, err := f.transfers.ListTransfers(ctx, dto.TransferQuery{})
	require.NoError(t, err)
	assert.Len(t, all.Transfers, 2)
}
