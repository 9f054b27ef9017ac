package repository

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// TransferFilter filtros para listar traslados.
type TransferFilter struct {
	Status      entity.TransferStatus
	ShipmentRef string
	Limit       int
	Offset      int
}

// TransferRepository puerto de persistencia de traslados.
// GetByID y GetForUpdate devuelven (nil, nil) si no existe.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	UpdateStatus(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, error)
}
