package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"parcelmama/pkg/errors"
)

const (
	reviewsCollection  = "reviews"
	paymentsCollection = "payments"

	// maxCASAttempts bounds the optimistic retry loops on contended documents.
	maxCASAttempts = 8
)

// EnsureMongoIndexes creates the indexes the Mongo repositories rely on. The
// unique email index is what enforces one user per email.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "numOfDeliveredParcel", Value: -1}, {Key: "averageRating", Value: -1}}},
		},
		parcelsCollection: {
			{Keys: bson.D{{Key: "customer.email", Value: 1}}},
			{Keys: bson.D{{Key: "deliveryManId", Value: 1}}},
			{Keys: bson.D{{Key: "bookingDate", Value: -1}}},
		},
		reviewsCollection: {
			{Keys: bson.D{{Key: "deliveryManId", Value: 1}}},
		},
		paymentsCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func mongoError(resource, action string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return err
	}

	switch {
	case stderrors.Is(err, mongo.ErrNoDocuments):
		return errors.NotFound(resource, err)
	case mongo.IsDuplicateKeyError(err):
		return errors.Conflict(fmt.Sprintf("%s already exists", resource), err)
	case stderrors.Is(err, context.DeadlineExceeded), stderrors.Is(err, context.Canceled),
		mongo.IsTimeout(err), mongo.IsNetworkError(err):
		return errors.Unavailable(fmt.Sprintf("Failed to %s", action), err)
	}

	return errors.Internal(fmt.Sprintf("Failed to %s", action), err)
}
