package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
)

func TestMemoryUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "Rina@Example.com", Role: entity.RoleUser}))

	err := repo.Create(ctx, &entity.User{Email: " rina@example.com ", Role: entity.RoleUser})
	assert.True(t, errors.Is(err, errors.CodeConflict))

	user, err := repo.GetByEmail(ctx, "RINA@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "rina@example.com", user.Email)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMemoryUserRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &entity.User{Email: "a@example.com", Role: entity.RoleDeliveryMan}
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.NumOfDeliveredParcel = 99

	again, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, again.NumOfDeliveredParcel)
}

func TestMemoryUserRepository_ConcurrentCounters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	agent := &entity.User{Email: "dm@example.com", Role: entity.RoleDeliveryMan}
	require.NoError(t, repo.Create(ctx, agent))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = repo.IncrementDeliveredParcels(ctx, agent.ID)
			_, _ = repo.IncrementBookedParcels(ctx, agent.Email)
			_, _ = repo.ApplyRating(ctx, agent.ID, 1+i%5)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.NumOfDeliveredParcel)
	assert.Equal(t, 50, got.BookedParcel)
	assert.Equal(t, 50, got.ReviewCount)
	assert.InDelta(t, 3.0, got.AverageRating, 1e-9)
}

func TestMemoryUserRepository_TopDeliveryMen(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	seed := []struct {
		email     string
		role      string
		delivered int
		rating    int
	}{
		{"a@example.com", entity.RoleDeliveryMan, 2, 3},
		{"b@example.com", entity.RoleDeliveryMan, 2, 5},
		{"c@example.com", entity.RoleDeliveryMan, 4, 1},
		{"u@example.com", entity.RoleUser, 9, 5},
	}
	for _, s := range seed {
		u := &entity.User{Email: s.email, Role: s.role}
		require.NoError(t, repo.Create(ctx, u))
		for i := 0; i < s.delivered; i++ {
			_, err := repo.IncrementDeliveredParcels(ctx, u.ID)
			require.NoError(t, err)
		}
		_, err := repo.ApplyRating(ctx, u.ID, s.rating)
		require.NoError(t, err)
	}

	top, err := repo.TopDeliveryMen(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "c@example.com", top[0].Email)
	assert.Equal(t, "b@example.com", top[1].Email)

	all, err := repo.TopDeliveryMen(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryParcelRepository_MutateAtMostOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryParcelRepository()

	parcel := &entity.Parcel{Status: entity.StatusOnTheWay, DeliveryManID: "dm-1", BookingDate: time.Now()}
	require.NoError(t, repo.Create(ctx, parcel))

	var written int32
	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, changed, err := repo.Mutate(ctx, parcel.ID, func(p *entity.Parcel) (bool, error) {
				return p.MarkDelivered()
			})
			if err == nil && changed {
				atomic.AddInt32(&written, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), written)

	got, err := repo.GetByID(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, got.Status)
	assert.Equal(t, int64(1), got.Version)
}

func TestMemoryParcelRepository_MutateErrorLeavesParcel(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryParcelRepository()

	parcel := &entity.Parcel{Status: entity.StatusCancelled}
	require.NoError(t, repo.Create(ctx, parcel))

	_, changed, err := repo.Mutate(ctx, parcel.ID, func(p *entity.Parcel) (bool, error) {
		return p.Assign("dm-1", "")
	})
	assert.False(t, changed)
	assert.True(t, errors.Is(err, errors.CodeConflict))

	got, err := repo.GetByID(ctx, parcel.ID)
	require.NoError(t, err)
	assert.Empty(t, got.DeliveryManID)

	_, _, err = repo.Mutate(ctx, "missing", func(p *entity.Parcel) (bool, error) { return true, nil })
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestMemoryParcelRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryParcelRepository()

	base := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, email := range []string{"a@example.com", "b@example.com", "A@example.com"} {
		require.NoError(t, repo.Create(ctx, &entity.Parcel{
			Customer:    entity.Customer{Email: email},
			Status:      entity.StatusPending,
			BookingDate: base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	mine, err := repo.List(ctx, repository.ParcelFilter{CustomerEmail: "a@example.com"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].BookingDate.After(mine[1].BookingDate))

	window, err := repo.List(ctx, repository.ParcelFilter{BookedFrom: base.Add(time.Hour), BookedTo: base.Add(36 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "b@example.com", window[0].Customer.Email)

	limited, err := repo.List(ctx, repository.ParcelFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewMemoryStore()
	_, err := store.Parcels.GetByID(ctx, "any")
	assert.True(t, errors.Is(err, errors.CodeUnavailable))

	err = store.Payments.Create(ctx, &entity.Payment{Email: "a@example.com"})
	assert.True(t, errors.Is(err, errors.CodeUnavailable))
}
