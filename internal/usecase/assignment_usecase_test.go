package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
)

func TestAssignPutsParcelOnTheWay(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)
	parcel := f.bookAndAssign(t, agent)

	assert.Equal(t, entity.StatusOnTheWay, parcel.Status)
	assert.Equal(t, agent.ID, parcel.DeliveryManID)
	assert.Equal(t, "2026-11-01", parcel.ApprDeliDate)

	id, err := f.assignment.AgentForParcel(context.Background(), parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.ID, id)

	list, err := f.assignment.ParcelsForAgent(context.Background(), agent.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, parcel.ID, list[0].ID)
}

func TestAssignAllowsReassignmentWhileOnTheWay(t *testing.T) {
	f := newFixture(t)
	first := f.seedUser(t, "rider1@parcelmama.test", entity.RoleDeliveryMan)
	second := f.seedUser(t, "rider2@parcelmama.test", entity.RoleDeliveryMan)
	parcel := f.bookAndAssign(t, first)

	reassigned, err := f.assignment.Assign(context.Background(), adminEmail, parcel.ID, second.ID, "2026-11-03")
	require.NoError(t, err)
	assert.Equal(t, second.ID, reassigned.DeliveryManID)
	assert.Equal(t, entity.StatusOnTheWay, reassigned.Status)
}

func TestAssignMissingParcelWritesNothing(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)

	_, err := f.assignment.Assign(context.Background(), adminEmail, "missing", agent.ID, "2026-11-01")
	assert.True(t, errors.Is(err, errors.CodeNotFound))

	parcels, err := f.store.Parcels.List(context.Background(), repository.ParcelFilter{})
	require.NoError(t, err)
	assert.Empty(t, parcels)

	stored, err := f.store.Users.GetByID(context.Background(), agent.ID)
	require.NoError(t, err)
	assert.Equal(t, agent.UpdatedAt, stored.UpdatedAt)
}

func TestAssignRejections(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)
	customer := f.seedUser(t, "plain@parcelmama.test", entity.RoleUser)
	parcel := f.book(t, "c@parcelmama.test", 1)

	tests := []struct {
		name   string
		caller string
		agent  string
		code   string
	}{
		{"anonymous caller", "", agent.ID, errors.CodeUnauthorized},
		{"non admin caller", customer.Email, agent.ID, errors.CodeUnauthorized},
		{"unknown agent", adminEmail, "missing", errors.CodeNotFound},
		{"agent is not a delivery man", adminEmail, customer.ID, errors.CodeValidation},
		{"no agent", adminEmail, "", errors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.assignment.Assign(context.Background(), tt.caller, parcel.ID, tt.agent, "2026-11-01")
			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}

	stored, err := f.parcels.Get(context.Background(), parcel.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, stored.Status)
	assert.Empty(t, stored.DeliveryManID)
}

func TestAssignTerminalParcelConflicts(t *testing.T) {
	f := newFixture(t)
	agent := f.seedUser(t, "rider@parcelmama.test", entity.RoleDeliveryMan)
	parcel := f.book(t, "c@parcelmama.test", 1)
	_, err := f.parcels.Cancel(context.Background(), parcel.ID)
	require.NoError(t, err)

	_, err = f.assignment.Assign(context.Background(), adminEmail, parcel.ID, agent.ID, "2026-11-01")
	assert.Equal(t, errors.CodeConflict, errors.CodeOf(err))
}
