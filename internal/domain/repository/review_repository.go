package repository

import (
	"context"

	"parcelmama/internal/domain/entity"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByDeliveryMan(ctx context.Context, deliveryManID string) ([]*entity.Review, error)
	Delete(ctx context.Context, id string) error
}
