package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/pkg/errors"
)

type mongoParcelRepository struct {
	coll *mongo.Collection
}

func NewMongoParcelRepository(db *mongo.Database) repository.ParcelRepository {
	return &mongoParcelRepository{
		coll: db.Collection(parcelsCollection),
	}
}

func (r *mongoParcelRepository) Create(ctx context.Context, parcel *entity.Parcel) error {
	if parcel.ID == "" {
		parcel.ID = uuid.New().String()
	}
	parcel.Customer.Email = entity.NormalizeEmail(parcel.Customer.Email)
	parcel.UpdatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, parcel)
	return mongoError("Parcel", "create parcel", err)
}

func (r *mongoParcelRepository) GetByID(ctx context.Context, id string) (*entity.Parcel, error) {
	var parcel entity.Parcel
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&parcel); err != nil {
		return nil, mongoError("Parcel", "get parcel", err)
	}
	return &parcel, nil
}

func (r *mongoParcelRepository) List(ctx context.Context, filter repository.ParcelFilter) ([]*entity.Parcel, error) {
	query := bson.M{}
	if filter.CustomerEmail != "" {
		query["customer.email"] = entity.NormalizeEmail(filter.CustomerEmail)
	}
	if filter.DeliveryManID != "" {
		query["deliveryManId"] = filter.DeliveryManID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	booked := bson.M{}
	if !filter.BookedFrom.IsZero() {
		booked["$gte"] = filter.BookedFrom
	}
	if !filter.BookedTo.IsZero() {
		booked["$lte"] = filter.BookedTo
	}
	if len(booked) > 0 {
		query["bookingDate"] = booked
	}

	opts := options.Find().SetSort(bson.D{{Key: "bookingDate", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, mongoError("Parcel", "list parcels", err)
	}
	defer cursor.Close(ctx)

	parcels := make([]*entity.Parcel, 0)
	if err := cursor.All(ctx, &parcels); err != nil {
		return nil, mongoError("Parcel", "decode parcels", err)
	}
	return parcels, nil
}

// Mutate replaces the document only if its version is the one fn saw.
func (r *mongoParcelRepository) Mutate(ctx context.Context, id string, fn repository.MutateFunc) (*entity.Parcel, bool, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		parcel, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, false, err
		}

		seen := parcel.Version
		changed, err := fn(parcel)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return parcel, false, nil
		}

		parcel.Version = seen + 1
		parcel.UpdatedAt = time.Now()

		res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": id, "version": seen}, parcel)
		if err != nil {
			return nil, false, mongoError("Parcel", "update parcel", err)
		}
		if res.MatchedCount == 1 {
			return parcel, true, nil
		}
	}

	return nil, false, errors.Conflict("Parcel is being updated concurrently, try again", nil)
}
