package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/service"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/errors"
)

func TestBookPricesByWeightAndRegistersCustomer(t *testing.T) {
	f := newFixture(t)

	for weight, price := range map[int]float64{1: 50, 2: 100, 3: 150, 7: 150} {
		parcel := f.book(t, "new@parcelmama.test", weight)
		assert.Equal(t, price, parcel.Price, "weight %d", weight)
		assert.Equal(t, entity.StatusPending, parcel.Status)
		assert.Empty(t, parcel.DeliveryManID)
		assert.Empty(t, parcel.ApprDeliDate)
		assert.False(t, parcel.BookingDate.IsZero())
	}

	user, err := f.store.Users.GetByEmail(context.Background(), "new@parcelmama.test")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Equal(t, 4, user.BookedParcel)

	assert.Eventually(t, func() bool {
		return len(f.notifier.templates()) == 4
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, f.notifier.templates(), service.TemplateParcelBooked)
}

func TestBookRejectsBadInput(t *testing.T) {
	f := newFixture(t)

	for _, weight := range []int{0, -1} {
		_, err := f.parcels.Book(context.Background(), usecase.BookParcelInput{
			Customer:     entity.Customer{Email: "c@parcelmama.test"},
			ParcelWeight: weight,
		})
		assert.Equal(t, errors.CodeValidation, errors.CodeOf(err), "weight %d", weight)
	}

	_, err := f.parcels.Book(context.Background(), usecase.BookParcelInput{ParcelWeight: 1})
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))

	parcels, err := f.parcels.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, parcels)
}

func TestBookUsesConfiguredPriceTable(t *testing.T) {
	f := newFixture(t)
	table, err := entity.NewPriceTable(map[int]float64{1: 60, 5: 200})
	require.NoError(t, err)
	parcels := usecase.NewParcelUseCase(f.store.Parcels, f.store.Users, table, f.opts)

	parcel, err := parcels.Book(context.Background(), usecase.BookParcelInput{
		Customer:     entity.Customer{Email: "c@parcelmama.test"},
		ParcelWeight: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 60.0, parcel.Price)
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newFixture(t)
	parcel := f.book(t, "c@parcelmama.test", 1)

	first, err := f.parcels.Cancel(context.Background(), parcel.ID)
	require.NoError(t, err)
	second, err := f.parcels.Cancel(context.Background(), parcel.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.StatusCancelled, first.Status)
	assert.Equal(t, first, second)

	_, err = f.parcels.Cancel(context.Background(), "missing")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestCancelDeliveredParcelConflicts(t *testing.T) {
	f := newFixture(t)
	parcel := f.book(t, "c@parcelmama.test", 1)
	_, err := f.settlement.Complete(context.Background(), parcel.ID)
	require.NoError(t, err)

	_, err = f.parcels.Cancel(context.Background(), parcel.ID)
	assert.True(t, errors.Is(err, errors.CodeConflict))
}

func TestUpdateKeepsPriceAndLifecycleFields(t *testing.T) {
	f := newFixture(t)
	parcel := f.book(t, "c@parcelmama.test", 1)

	address := "7 River Street, Chattogram"
	phone := "01911111111"
	updated, err := f.parcels.Update(context.Background(), parcel.ID, entity.ParcelPatch{
		DeliveryAddress: &address,
		ReceiverPhone:   &phone,
	})
	require.NoError(t, err)

	assert.Equal(t, address, updated.DeliveryAddress)
	assert.Equal(t, phone, updated.ReceiverPhone)
	assert.Equal(t, parcel.Price, updated.Price)
	assert.Equal(t, parcel.Status, updated.Status)
	assert.Equal(t, parcel.ParcelWeight, updated.ParcelWeight)
	assert.Equal(t, parcel.Customer.Email, updated.Customer.Email)

	_, err = f.parcels.Update(context.Background(), parcel.ID, entity.ParcelPatch{})
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))

	_, err = f.parcels.Cancel(context.Background(), parcel.ID)
	require.NoError(t, err)
	_, err = f.parcels.Update(context.Background(), parcel.ID, entity.ParcelPatch{DeliveryAddress: &address})
	assert.Equal(t, errors.CodeConflict, errors.CodeOf(err))
}

func TestParcelQueries(t *testing.T) {
	f := newFixture(t)
	first := f.book(t, "one@parcelmama.test", 1)
	time.Sleep(2 * time.Millisecond)
	second := f.book(t, "two@parcelmama.test", 2)
	time.Sleep(2 * time.Millisecond)
	third := f.book(t, "one@parcelmama.test", 3)

	latest, err := f.parcels.List(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, third.ID, latest[0].ID)
	assert.Equal(t, second.ID, latest[1].ID)

	mine, err := f.parcels.ForCustomer(context.Background(), "one@parcelmama.test")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = f.settlement.Complete(context.Background(), first.ID)
	require.NoError(t, err)
	delivered, err := f.parcels.Delivered(context.Background())
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, first.ID, delivered[0].ID)

	got, err := f.parcels.Get(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, "two@parcelmama.test", got.Customer.Email)
}

func TestSearchUsesWholeDayBounds(t *testing.T) {
	f := newFixture(t)
	f.book(t, "c@parcelmama.test", 1)

	today := time.Now().UTC().Format("2006-01-02")
	found, err := f.parcels.Search(context.Background(), today, today)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	tomorrow := time.Now().UTC().Add(24 * time.Hour).Format("2006-01-02")
	found, err = f.parcels.Search(context.Background(), tomorrow, "")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = f.parcels.Search(context.Background(), "", "")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = f.parcels.Search(context.Background(), "yesterday", "")
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))

	_, err = f.parcels.Search(context.Background(), tomorrow, today)
	assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
}
