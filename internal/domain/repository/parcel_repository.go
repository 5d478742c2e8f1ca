package repository

import (
	"context"
	"time"

	"parcelmama/internal/domain/entity"
)

// ParcelFilter matches by equality on the set fields. Results are ordered by
// booking date, newest first. Zero Limit means unlimited.
type ParcelFilter struct {
	CustomerEmail string
	DeliveryManID string
	Status        entity.ParcelStatus
	BookedFrom    time.Time
	BookedTo      time.Time
	Limit         int
}

// MutateFunc edits a parcel in place and reports whether it changed.
// It may run more than once when the store retries on contention.
type MutateFunc func(p *entity.Parcel) (bool, error)

type ParcelRepository interface {
	Create(ctx context.Context, parcel *entity.Parcel) error
	GetByID(ctx context.Context, id string) (*entity.Parcel, error)
	List(ctx context.Context, filter ParcelFilter) ([]*entity.Parcel, error)

	// Mutate applies fn to the stored parcel as a conditional single-document
	// write and returns the resulting parcel and whether it was written.
	Mutate(ctx context.Context, id string, fn MutateFunc) (*entity.Parcel, bool, error)
}
