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

type firestorePaymentRepository struct {
	client *firestore.Client
}

func NewFirestorePaymentRepository(client *firestore.Client) repository.PaymentRepository {
	return &firestorePaymentRepository{
		client: client,
	}
}

func (r *firestorePaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.Email = entity.NormalizeEmail(payment.Email)
	payment.CreatedAt = time.Now()

	_, err := r.client.Collection("payments").Doc(payment.ID).Create(ctx, payment)
	return firestoreError("Payment", "record payment", err)
}

func (r *firestorePaymentRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error) {
	iter := r.client.Collection("payments").
		Where("email", "==", entity.NormalizeEmail(email)).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer iter.Stop()

	payments := make([]*entity.Payment, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, firestoreError("Payment", "list payments", err)
		}

		var payment entity.Payment
		if err := doc.DataTo(&payment); err != nil {
			return nil, errors.Internal("Failed to parse payment data", err)
		}
		payments = append(payments, &payment)
	}

	return payments, nil
}
