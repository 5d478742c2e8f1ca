package repository

import (
	"context"
	stderrors "errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
)

// NewMemoryStore keeps every collection in process. Each collection is
// guarded by its own lock, which serializes all writes to a document.
func NewMemoryStore() *Store {
	return &Store{
		Users:    NewMemoryUserRepository(),
		Parcels:  NewMemoryParcelRepository(),
		Reviews:  NewMemoryReviewRepository(),
		Payments: NewMemoryPaymentRepository(),
	}
}

func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Unavailable("Storage did not respond in time", err)
		}
		return errors.Unavailable("Request was abandoned", err)
	}
	return nil
}

type memoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*entity.User
	byEmail map[string]string
}

func NewMemoryUserRepository() repository.UserRepository {
	return &memoryUserRepository{
		users:   make(map[string]*entity.User),
		byEmail: make(map[string]string),
	}
}

func (r *memoryUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = entity.NormalizeEmail(user.Email)
	key := user.Email
	if _, exists := r.byEmail[key]; exists {
		return errors.Conflict("User with this email already exists", nil)
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.users[user.ID] = user.Clone()
	r.byEmail[key] = user.ID
	return nil
}

func (r *memoryUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return user.Clone(), nil
}

func (r *memoryUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[entity.NormalizeEmail(email)]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return r.users[id].Clone(), nil
}

func (r *memoryUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.users))
	for _, user := range r.users {
		if filter.Role != "" && user.Role != filter.Role {
			continue
		}
		users = append(users, user.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// update applies fn under the write lock and returns a copy of the result.
func (r *memoryUserRepository) update(ctx context.Context, id string, fn func(u *entity.User)) (*entity.User, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	fn(user)
	user.UpdatedAt = time.Now()
	return user.Clone(), nil
}

func (r *memoryUserRepository) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	return r.update(ctx, id, func(u *entity.User) { u.Role = role })
}

func (r *memoryUserRepository) IncrementBookedParcels(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[entity.NormalizeEmail(email)]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return r.update(ctx, id, func(u *entity.User) { u.BookedParcel++ })
}

func (r *memoryUserRepository) IncrementDeliveredParcels(ctx context.Context, id string) (*entity.User, error) {
	return r.update(ctx, id, func(u *entity.User) { u.NumOfDeliveredParcel++ })
}

func (r *memoryUserRepository) ApplyRating(ctx context.Context, id string, rating int) (*entity.User, error) {
	return r.update(ctx, id, func(u *entity.User) { u.ApplyRating(rating) })
}

func (r *memoryUserRepository) TopDeliveryMen(ctx context.Context, limit int) ([]*entity.User, error) {
	users, err := r.List(ctx, repository.UserFilter{Role: entity.RoleDeliveryMan})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(users, func(i, j int) bool {
		if users[i].NumOfDeliveredParcel != users[j].NumOfDeliveredParcel {
			return users[i].NumOfDeliveredParcel > users[j].NumOfDeliveredParcel
		}
		return users[i].AverageRating > users[j].AverageRating
	})

	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

type memoryParcelRepository struct {
	mu      sync.RWMutex
	parcels map[string]*entity.Parcel
}

func NewMemoryParcelRepository() repository.ParcelRepository {
	return &memoryParcelRepository{
		parcels: make(map[string]*entity.Parcel),
	}
}

func (r *memoryParcelRepository) Create(ctx context.Context, parcel *entity.Parcel) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if parcel.ID == "" {
		parcel.ID = uuid.New().String()
	}
	if _, exists := r.parcels[parcel.ID]; exists {
		return errors.Conflict("Parcel already exists", nil)
	}
	parcel.Customer.Email = entity.NormalizeEmail(parcel.Customer.Email)
	parcel.UpdatedAt = time.Now()
	r.parcels[parcel.ID] = parcel.Clone()
	return nil
}

func (r *memoryParcelRepository) GetByID(ctx context.Context, id string) (*entity.Parcel, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	parcel, ok := r.parcels[id]
	if !ok {
		return nil, errors.NotFound("Parcel", nil)
	}
	return parcel.Clone(), nil
}

func (r *memoryParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]*entity.Parcel, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	parcels := make([]*entity.Parcel, 0)
	for _, p := range r.parcels {
		if filter.CustomerEmail != "" && entity.NormalizeEmail(p.Customer.Email) != entity.NormalizeEmail(filter.CustomerEmail) {
			continue
		}
		if filter.DeliveryManID != "" && p.DeliveryManID != filter.DeliveryManID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if !filter.BookedFrom.IsZero() && p.BookingDate.Before(filter.BookedFrom) {
			continue
		}
		if !filter.BookedTo.IsZero() && p.BookingDate.After(filter.BookedTo) {
			continue
		}
		parcels = append(parcels, p.Clone())
	}

	sort.Slice(parcels, func(i, j int) bool { return parcels[i].BookingDate.After(parcels[j].BookingDate) })
	if filter.Limit > 0 && len(parcels) > filter.Limit {
		parcels = parcels[:filter.Limit]
	}
	return parcels, nil
}

func (r *memoryParcelRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.Parcel, bool, error) {
	if err := checkContext(ctx); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.parcels[id]
	if !ok {
		return nil, false, errors.NotFound("Parcel", nil)
	}

	working := stored.Clone()
	changed, err := fn(working)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return stored.Clone(), false, nil
	}

	working.Version = stored.Version + 1
	working.UpdatedAt = time.Now()
	r.parcels[id] = working
	return working.Clone(), true, nil
}

type memoryReviewRepository struct {
	mu      sync.RWMutex
	reviews []*entity.Review
}

func NewMemoryReviewRepository() repository.ReviewRepository {
	return &memoryReviewRepository{}
}

func (r *memoryReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()
	cp := *review
	r.reviews = append(r.reviews, &cp)
	return nil
}

func (r *memoryReviewRepository) Delete(ctx context.Context, id string) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, review := range r.reviews {
		if review.ID == id {
			r.reviews = append(r.reviews[:i], r.reviews[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memoryReviewRepository) ListByDeliveryMan(ctx context.Context, deliveryManID string) ([]*entity.Review, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reviews := make([]*entity.Review, 0)
	for _, review := range r.reviews {
		if review.DeliveryManID == deliveryManID {
			cp := *review
			reviews = append(reviews, &cp)
		}
	}
	return reviews, nil
}

type memoryPaymentRepository struct {
	mu       sync.RWMutex
	payments []*entity.Payment
}

func NewMemoryPaymentRepository() repository.PaymentRepository {
	return &memoryPaymentRepository{}
}

func (r *memoryPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.Email = entity.NormalizeEmail(payment.Email)
	payment.CreatedAt = time.Now()
	cp := *payment
	r.payments = append(r.payments, &cp)
	return nil
}

func (r *memoryPaymentRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	payments := make([]*entity.Payment, 0)
	for _, payment := range r.payments {
		if entity.NormalizeEmail(payment.Email) == entity.NormalizeEmail(email) {
			cp := *payment
			payments = append(payments, &cp)
		}
	}
	return payments, nil
}
