package repository

import (
	"cloud.google.com/go/firestore"
	"go.mongodb.org/mongo-driver/mongo"

	"parcelmama/internal/domain/repository"
)

// Store bundles one repository per collection for a single backend.
type Store struct {
	Users    repository.UserRepository
	Parcels  repository.ParcelRepository
	Reviews  repository.ReviewRepository
	Payments repository.PaymentRepository
}

func NewFirestoreStore(client *firestore.Client) *Store {
	return &Store{
		Users:    NewFirestoreUserRepository(client),
		Parcels:  NewFirestoreParcelRepository(client),
		Reviews:  NewFirestoreReviewRepository(client),
		Payments: NewFirestorePaymentRepository(client),
	}
}

func NewMongoStore(db *mongo.Database) *Store {
	return &Store{
		Users:    NewMongoUserRepository(db),
		Parcels:  NewMongoParcelRepository(db),
		Reviews:  NewMongoReviewRepository(db),
		Payments: NewMongoPaymentRepository(db),
	}
}
