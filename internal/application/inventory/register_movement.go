package inventory

import (
	"context"

	"github.com/leatherworks/warehouse-api/internal/application/dto"
	"github.com/leatherworks/warehouse-api/internal/domain/entity"
)

// RecordMovementFromRequest adapta el request HTTP al caso de uso RecordMovement(ctx, MovementInput).
// Los valores de tipo y ubicación se validan en RecordMovement.
func (uc *MovementUseCase) RecordMovementFromRequest(ctx context.Context, userID string, in dto.RecordMovementRequest) (*dto.MovementResponse, error) {
	return uc.RecordMovement(ctx, MovementInput{
		SKU:          in.SKU,
		MovementType: entity.MovementType(in.MovementType),
		Quantity:     in.Quantity,
		Location:     entity.Location(in.Location),
		Reason:       in.Reason,
		UserID:       userID,
	})
}
