package repository

import (
	"context"

	"parcelmama/internal/domain/entity"
)

type UserFilter struct {
	Role string
}

type UserRepository interface {
	// Create fails with a conflict when the email is already registered.
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, filter UserFilter) ([]*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) (*entity.User, error)

	IncrementBookedParcels(ctx context.Context, email string) (*entity.User, error)
	IncrementDeliveredParcels(ctx context.Context, id string) (*entity.User, error)

	// ApplyRating runs entity.User.ApplyRating as an atomic read-modify-write
	// on the user's rating aggregate.
	ApplyRating(ctx context.Context, id string, rating int) (*entity.User, error)

	// TopDeliveryMen orders deliverymen by delivered parcels, then average rating, both descending.
	TopDeliveryMen(ctx context.Context, limit int) ([]*entity.User, error)
}
