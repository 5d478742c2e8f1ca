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
)

type mongoReviewRepository struct {
	coll *mongo.Collection
}

func NewMongoReviewRepository(db *mongo.Database) repository.ReviewRepository {
	return &mongoReviewRepository{
		coll: db.Collection(reviewsCollection),
	}
}

func (r *mongoReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	review.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, review)
	return mongoError("Review", "create review", err)
}

func (r *mongoReviewRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return mongoError("Review", "delete review", err)
}

func (r *mongoReviewRepository) ListByDeliveryMan(ctx context.Context, deliveryManID string) ([]*entity.Review, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"deliveryManId": deliveryManID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, mongoError("Review", "list reviews", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]*entity.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, mongoError("Review", "decode reviews", err)
	}
	return reviews, nil
}

type mongoPaymentRepository struct {
	coll *mongo.Collection
}

func NewMongoPaymentRepository(db *mongo.Database) repository.PaymentRepository {
	return &mongoPaymentRepository{
		coll: db.Collection(paymentsCollection),
	}
}

func (r *mongoPaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	payment.Email = entity.NormalizeEmail(payment.Email)
	payment.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, payment)
	return mongoError("Payment", "record payment", err)
}

func (r *mongoPaymentRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error) {
	cursor, err := r.coll.Find(ctx,
		bson.M{"email": entity.NormalizeEmail(email)},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}),
	)
	if err != nil {
		return nil, mongoError("Payment", "list payments", err)
	}
	defer cursor.Close(ctx)

	payments := make([]*entity.Payment, 0)
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, mongoError("Payment", "decode payments", err)
	}
	return payments, nil
}
