package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	adapter "parcelmama/internal/adapter/repository"
	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/service"
	"parcelmama/internal/usecase"
)

const adminEmail = "admin@parcelmama.test"

// recordingNotifier collects messages sent through notifyAsync.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []service.Message
}

func (n *recordingNotifier) Notify(_ context.Context, msg service.Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func (n *recordingNotifier) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.msgs))
	for _, m := range n.msgs {
		out = append(out, m.Template)
	}
	return out
}

type fixture struct {
	store    *adapter.Store
	notifier *recordingNotifier
	opts     usecase.Options

	users      *usecase.UserUseCase
	parcels    *usecase.ParcelUseCase
	assignment *usecase.AssignmentUseCase
	settlement *usecase.SettlementUseCase
	reviews    *usecase.ReviewUseCase
	ranking    *usecase.RankingUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := adapter.NewMemoryStore()
	notifier := &recordingNotifier{}
	opts := usecase.Options{Timeout: time.Second, Notifier: notifier}
	authorizer := usecase.NewRoleAuthorizer(store.Users)

	f := &fixture{
		store:      store,
		notifier:   notifier,
		opts:       opts,
		users:      usecase.NewUserUseCase(store.Users, store.Parcels, authorizer, nil, opts),
		parcels:    usecase.NewParcelUseCase(store.Parcels, store.Users, entity.DefaultPriceTable(), opts),
		assignment: usecase.NewAssignmentUseCase(store.Parcels, store.Users, authorizer, opts),
		settlement: usecase.NewSettlementUseCase(store.Parcels, store.Users, nil, opts),
		reviews:    usecase.NewReviewUseCase(store.Reviews, store.Users, store.Parcels, nil, usecase.DefaultRatingBounds(), opts),
		ranking:    usecase.NewRankingUseCase(store.Users, nil, opts),
	}
	f.seedUser(t, adminEmail, entity.RoleAdmin)
	return f
}

func (f *fixture) seedUser(t *testing.T, email, role string) *entity.User {
	t.Helper()
	user := &entity.User{Email: email, Name: email, Role: role, Phone: entity.DefaultPhone}
	require.NoError(t, f.store.Users.Create(context.Background(), user))
	return user
}

func (f *fixture) book(t *testing.T, email string, weight int) *entity.Parcel {
	t.Helper()
	parcel, err := f.parcels.Book(context.Background(), usecase.BookParcelInput{
		Customer:        entity.Customer{Name: "Customer", Email: email, Phone: "01700000000"},
		ParcelType:      "documents",
		ParcelWeight:    weight,
		ReceiverName:    "Receiver",
		ReceiverPhone:   "01800000000",
		DeliveryAddress: "12 Lake Road, Dhaka",
	})
	require.NoError(t, err)
	return parcel
}

// bookAndAssign returns a parcel on the way with agent assigned.
func (f *fixture) bookAndAssign(t *testing.T, agent *entity.User) *entity.Parcel {
	t.Helper()
	parcel := f.book(t, "customer@parcelmama.test", 1)
	assigned, err := f.assignment.Assign(context.Background(), adminEmail, parcel.ID, agent.ID, "2026-11-01")
	require.NoError(t, err)
	return assigned
}
