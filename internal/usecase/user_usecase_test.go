package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/errors"
)

func TestEnsureUserIsAnUpsert(t *testing.T) {
	f := newFixture(t)

	user, created, err := f.users.EnsureUser(context.Background(), usecase.EnsureUserInput{Email: "new@parcelmama.test", Name: "New"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, entity.DefaultPhone, user.Phone)

	again, created, err := f.users.EnsureUser(context.Background(), usecase.EnsureUserInput{Email: "new@parcelmama.test", Name: "Other"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, "New", again.Name)

	_, _, err = f.users.EnsureUser(context.Background(), usecase.EnsureUserInput{})
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestListWithSpending(t *testing.T) {
	f := newFixture(t)
	f.book(t, "spender@parcelmama.test", 1)
	f.book(t, "spender@parcelmama.test", 3)

	users, err := f.users.ListWithSpending(context.Background())
	require.NoError(t, err)

	spent := map[string]float64{}
	for _, u := range users {
		spent[u.Email] = u.TotalSpent
	}
	assert.Equal(t, 200.0, spent["spender@parcelmama.test"])
	assert.Equal(t, 0.0, spent[adminEmail])
}

func TestIsAdminOnlyAnswersForTheCaller(t *testing.T) {
	f := newFixture(t)

	ok, err := f.users.IsAdmin(context.Background(), adminEmail, adminEmail)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.users.IsAdmin(context.Background(), "someone@parcelmama.test", adminEmail)
	assert.Equal(t, errors.CodeForbidden, errors.CodeOf(err))

	ok, err = f.users.IsAdmin(context.Background(), "ghost@parcelmama.test", "ghost@parcelmama.test")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangeRoleRequiresAdmin(t *testing.T) {
	f := newFixture(t)
	target := f.seedUser(t, "future-rider@parcelmama.test", entity.RoleUser)

	_, err := f.users.ChangeRole(context.Background(), target.Email, target.ID, entity.RoleAdmin)
	assert.Equal(t, errors.CodeUnauthorized, errors.CodeOf(err))

	updated, err := f.users.ChangeRole(context.Background(), adminEmail, target.ID, entity.RoleDeliveryMan)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDeliveryMan, updated.Role)

	id, err := f.users.DeliveryManIDByEmail(context.Background(), target.Email)
	require.NoError(t, err)
	assert.Equal(t, target.ID, id)

	riders, err := f.users.ListDeliveryMen(context.Background())
	require.NoError(t, err)
	assert.Len(t, riders, 1)

	_, err = f.users.ChangeRole(context.Background(), adminEmail, "missing", entity.RoleAdmin)
	assert.Equal(t, errors.CodeNotFound, errors.CodeOf(err))

	_, err = f.users.ChangeRole(context.Background(), adminEmail, target.ID, "superuser")
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}

func TestChangeRoleInvalidatesRanking(t *testing.T) {
	f := newFixture(t)
	target := f.seedUser(t, "future-rider@parcelmama.test", entity.RoleUser)

	cache := &mockRankingCache{}
	cache.On("Invalidate", mock.Anything).Return(nil).Once()
	users := usecase.NewUserUseCase(f.store.Users, f.store.Parcels, usecase.NewRoleAuthorizer(f.store.Users), cache, f.opts)

	_, err := users.ChangeRole(context.Background(), adminEmail, target.ID, entity.RoleDeliveryMan)
	require.NoError(t, err)

	_, err = users.ChangeRole(context.Background(), adminEmail, "missing", entity.RoleDeliveryMan)
	require.Error(t, err)

	cache.AssertExpectations(t)
	cache.AssertNumberOfCalls(t, "Invalidate", 1)
}
