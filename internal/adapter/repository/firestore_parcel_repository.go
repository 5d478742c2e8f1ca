package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
)

const parcelsCollection = "parcels"

type firestoreParcelRepository struct {
	client *firestore.Client
}

func NewFirestoreParcelRepository(client *firestore.Client) repository.ParcelRepository {
	return &firestoreParcelRepository{
		client: client,
	}
}

func (r *firestoreParcelRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(parcelsCollection)
}

func (r *firestoreParcelRepository) Create(ctx context.Context, parcel *entity.Parcel) error {
	if parcel.ID == "" {
		parcel.ID = uuid.New().String()
	}
	parcel.Customer.Email = entity.NormalizeEmail(parcel.Customer.Email)
	parcel.UpdatedAt = time.Now()

	_, err := r.collection().Doc(parcel.ID).Create(ctx, parcel)
	return firestoreError("Parcel", "create parcel", err)
}

func (r *firestoreParcelRepository) GetByID(ctx context.Context, id string) (*entity.Parcel, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError("Parcel", "get parcel", err)
	}

	var parcel entity.Parcel
	if err := doc.DataTo(&parcel); err != nil {
		return nil, errors.Internal("Failed to parse parcel data", err)
	}

	return &parcel, nil
}

func (r *firestoreParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]*entity.Parcel, error) {
	query := r.collection().Query

	if filter.CustomerEmail != "" {
		query = query.Where("customer.email", "==", entity.NormalizeEmail(filter.CustomerEmail))
	}
	if filter.DeliveryManID != "" {
		query = query.Where("deliveryManId", "==", filter.DeliveryManID)
	}
	if filter.Status != "" {
		query = query.Where("status", "==", string(filter.Status))
	}
	if !filter.BookedFrom.IsZero() {
		query = query.Where("bookingDate", ">=", filter.BookedFrom)
	}
	if !filter.BookedTo.IsZero() {
		query = query.Where("bookingDate", "<=", filter.BookedTo)
	}

	query = query.OrderBy("bookingDate", firestore.Desc)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	parcels := make([]*entity.Parcel, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, firestoreError("Parcel", "list parcels", err)
		}

		var parcel entity.Parcel
		if err := doc.DataTo(&parcel); err != nil {
			return nil, errors.Internal("Failed to parse parcel data", err)
		}
		parcels = append(parcels, &parcel)
	}

	return parcels, nil
}

// Mutate runs fn inside a Firestore transaction; Firestore retries the
// closure on contention, so the status check and the write see the same
// document version.
func (r *firestoreParcelRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.Parcel, bool, error) {
	ref := r.collection().Doc(id)

	var (
		result  entity.Parcel
		changed bool
	)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		changed = false

		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var parcel entity.Parcel
		if err := doc.DataTo(&parcel); err != nil {
			return errors.Internal("Failed to parse parcel data", err)
		}

		ok, err := fn(&parcel)
		if err != nil {
			return err
		}
		result = parcel
		if !ok {
			return nil
		}

		parcel.Version++
		parcel.UpdatedAt = time.Now()
		result = parcel
		changed = true
		return tx.Set(ref, &parcel)
	})
	if err != nil {
		return nil, false, firestoreError("Parcel", "update parcel", err)
	}

	return &result, changed, nil
}
