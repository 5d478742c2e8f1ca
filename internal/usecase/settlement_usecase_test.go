package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/errors"
)

func TestCompleteCreditsDeliveryManOnce(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)
	parcel := f.bookAndAssign(t, agent)

	const attempts = 25
	outcomes := make(chan usecase.SettlementOutcome, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := f.settlement.Complete(context.Background(), parcel.ID)
			if assert.NoError(t, err) {
				outcomes <- s.Outcome
			}
		}()
	}
	wg.Wait()
	close(outcomes)

	counts := map[usecase.SettlementOutcome]int{}
	for o := range outcomes {
		counts[o]++
	}
	assert.Equal(t, 1, counts[usecase.OutcomeSettled])
	assert.Equal(t, attempts-1, counts[usecase.OutcomeAlreadyDelivered])

	stored, err := f.store.Users.GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NumOfDeliveredParcel)
}

// flakyCounterRepo fails the first delivered-count increment.
type flakyCounterRepo struct {
	repository.UserRepository
	mu    sync.Mutex
	fails int
}

func (r *flakyCounterRepo) IncrementDeliveredParcels(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	fail := r.fails > 0
	if fail {
		r.fails--
	}
	r.mu.Unlock()
	if fail {
		return nil, errors.Unavailable("Users store unavailable", nil)
	}
	return r.UserRepository.IncrementDeliveredParcels(ctx, id)
}

func TestCompleteRetriesCreditAfterCounterFailure(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)
	parcel := f.bookAndAssign(t, agent)

	users := &flakyCounterRepo{UserRepository: f.store.Users, fails: 1}
	settlement := usecase.NewSettlementUseCase(f.store.Parcels, users, nil, f.opts)

	_, err := settlement.Complete(context.Background(), parcel.ID)
	assert.Equal(t, errors.CodeUnavailable, errors.CodeOf(err))

	stored, err := f.store.Parcels.GetByID(context.Background(), parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDelivered, stored.Status)
	assert.True(t, stored.CreditPending)

	s, err := settlement.Complete(context.Background(), parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeSettled, s.Outcome)
	assert.Equal(t, 1, s.Agent.NumOfDeliveredParcel)

	s, err = settlement.Complete(context.Background(), parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeAlreadyDelivered, s.Outcome)

	credited, err := f.store.Users.GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, credited.NumOfDeliveredParcel)
}

func TestCompleteWithoutAgentIsPartial(t *testing.T) {
	f := newFixture(t)
	parcel := f.book(t, "customer@parcelmama.test", 2)

	s, err := f.settlement.Complete(context.Background(), parcel.ID)
	require.NoError(t, err)

	assert.Equal(t, usecase.OutcomeSettledWithoutAgent, s.Outcome)
	assert.True(t, s.Partial())
	assert.Nil(t, s.Agent)
	assert.Equal(t, entity.StatusDelivered, s.Parcel.Status)
}

func TestCompleteCancelledParcelConflicts(t *testing.T) {
	f := newFixture(t)
	parcel := f.book(t, "customer@parcelmama.test", 1)

	_, err := f.parcels.Cancel(context.Background(), parcel.ID)
	require.NoError(t, err)

	_, err = f.settlement.Complete(context.Background(), parcel.ID)
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestCompleteMissingParcel(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlement.Complete(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestIncrementBookedCount(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "someone@parcelmama.test", entity.RoleUser)

	user, err := f.settlement.IncrementBookedCount(context.Background(), "someone@parcelmama.test")
	require.NoError(t, err)
	assert.Equal(t, 1, user.BookedParcel)

	_, err = f.settlement.IncrementBookedCount(context.Background(), "nobody@parcelmama.test")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}
