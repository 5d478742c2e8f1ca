package usecase

import (
	"context"
	"strings"
	"time"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

const searchDateLayout = "2006-01-02"

type ParcelUseCase struct {
	parcelRepo repository.ParcelRepository
	userRepo   repository.UserRepository
	prices     entity.PriceTable
	opts       Options
}

func NewParcelUseCase(
	parcelRepo repository.ParcelRepository,
	userRepo repository.UserRepository,
	prices entity.PriceTable,
	opts Options,
) *ParcelUseCase {
	return &ParcelUseCase{
		parcelRepo: parcelRepo,
		userRepo:   userRepo,
		prices:     prices,
		opts:       opts,
	}
}

type BookParcelInput struct {
	Customer              entity.Customer
	ParcelType            string
	ParcelWeight          int
	ReceiverName          string
	ReceiverPhone         string
	DeliveryAddress       string
	RequestedDeliveryDate string
	Latitude              float64
	Longitude             float64
}

// Book prices and stores a new pending parcel and counts it against the customer,
// registering the customer first if this is their first booking.
func (uc *ParcelUseCase) Book(ctx context.Context, input BookParcelInput) (*entity.Parcel, error) {
	email := strings.TrimSpace(input.Customer.Email)
	if email == "" {
		return nil, errors.Validation("Customer email is required", nil)
	}
	price, err := uc.prices.PriceFor(input.ParcelWeight)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	if _, _, err := ensureUser(ctx, uc.userRepo, EnsureUserInput{
		Email: email,
		Name:  input.Customer.Name,
		Phone: input.Customer.Phone,
	}); err != nil {
		return nil, err
	}

	parcel := &entity.Parcel{
		Customer: entity.Customer{
			Name:  input.Customer.Name,
			Email: email,
			Phone: input.Customer.Phone,
		},
		ParcelType:            input.ParcelType,
		ParcelWeight:          input.ParcelWeight,
		ReceiverName:          input.ReceiverName,
		ReceiverPhone:         input.ReceiverPhone,
		DeliveryAddress:       input.DeliveryAddress,
		RequestedDeliveryDate: input.RequestedDeliveryDate,
		Latitude:              input.Latitude,
		Longitude:             input.Longitude,
		Price:                 price,
		Status:                entity.StatusPending,
		BookingDate:           time.Now().UTC(),
	}
	if err := uc.parcelRepo.Create(ctx, parcel); err != nil {
		return nil, err
	}

	// The parcel is stored at this point; a failed counter bump must not make the
	// client book it a second time.
	if _, err := uc.userRepo.IncrementBookedParcels(ctx, email); err != nil {
		logger.Error("Parcel %s booked but booked counter for %s not incremented: %v", parcel.ID, email, err)
	}

	logger.Info("Parcel %s booked by %s (weight %d, price %.2f)", parcel.ID, email, parcel.ParcelWeight, parcel.Price)
	notifyAsync(uc.opts.notifier(), uc.opts.timeout(), service.Message{
		To:       email,
		Subject:  "Parcel booked",
		Template: service.TemplateParcelBooked,
		Data: map[string]interface{}{
			"name":       parcel.Customer.Name,
			"parcelId":   parcel.ID,
			"parcelType": parcel.ParcelType,
			"price":      parcel.Price,
		},
	})
	return parcel, nil
}

func (uc *ParcelUseCase) Get(ctx context.Context, id string) (*entity.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.GetByID(ctx, id)
}

// List returns the most recently booked parcels; limit 0 returns all of them.
func (uc *ParcelUseCase) List(ctx context.Context, limit int) ([]*entity.Parcel, error) {
	if limit < 0 {
		return nil, errors.Validation("limit must not be negative", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.List(ctx, repository.ParcelFilter{Limit: limit})
}

// Search filters by booking date. With both bounds the range covers the whole
// of both days; a single bound is used as given.
func (uc *ParcelUseCase) Search(ctx context.Context, dateFrom, dateTo string) ([]*entity.Parcel, error) {
	filter := repository.ParcelFilter{}

	from, err := parseSearchDate("dateFrom", dateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseSearchDate("dateTo", dateTo)
	if err != nil {
		return nil, err
	}

	switch {
	case !from.IsZero() && !to.IsZero():
		filter.BookedFrom = startOfDay(from)
		filter.BookedTo = startOfDay(to).Add(24*time.Hour - time.Millisecond)
		if filter.BookedFrom.After(filter.BookedTo) {
			return nil, errors.Validation("dateFrom must not be after dateTo", nil)
		}
	case !from.IsZero():
		filter.BookedFrom = from
	case !to.IsZero():
		filter.BookedTo = to
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.List(ctx, filter)
}

func parseSearchDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(searchDateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, errors.Validation(field+" must be a date (YYYY-MM-DD)", err)
	}
	return t.UTC(), nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (uc *ParcelUseCase) ForCustomer(ctx context.Context, email string) ([]*entity.Parcel, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.Validation("Email is required", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.List(ctx, repository.ParcelFilter{CustomerEmail: email})
}

func (uc *ParcelUseCase) Delivered(ctx context.Context) ([]*entity.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.parcelRepo.List(ctx, repository.ParcelFilter{Status: entity.StatusDelivered})
}

// Cancel is idempotent on cancelled parcels and refuses delivered ones.
func (uc *ParcelUseCase) Cancel(ctx context.Context, id string) (*entity.Parcel, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	parcel, changed, err := uc.parcelRepo.Mutate(ctx, id, func(p *entity.Parcel) (bool, error) {
		return p.Cancel()
	})
	if err != nil {
		return nil, err
	}
	if changed {
		logger.Info("Parcel %s cancelled", id)
	}
	return parcel, nil
}

// Update merges the editable booking details. Price and lifecycle fields are untouched.
func (uc *ParcelUseCase) Update(ctx context.Context, id string, patch entity.ParcelPatch) (*entity.Parcel, error) {
	if patch.IsEmpty() {
		return nil, errors.Validation("no updatable fields supplied", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	parcel, _, err := uc.parcelRepo.Mutate(ctx, id, func(p *entity.Parcel) (bool, error) {
		return p.ApplyPatch(patch)
	})
	return parcel, err
}
