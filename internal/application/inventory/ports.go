package inventory

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Products  repository.ProductRepository
	Inventory repository.InventoryRepository
	Movements repository.MovementRepository
	Transfers repository.TransferRepository
	Invoices  repository.ConfirmedInvoiceRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
