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

const usersCollection = "users"

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(usersCollection)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = entity.NormalizeEmail(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(r.collection().Where("email", "==", user.Email).Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return errors.Conflict("User with this email already exists", nil)
		}
		return tx.Create(r.collection().Doc(user.ID), user)
	})

	return firestoreError("User", "create user", err)
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, firestoreError("User", "get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	iter := r.collection().Where("email", "==", entity.NormalizeEmail(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, errors.NotFound("User", nil)
	}
	if err != nil {
		return nil, firestoreError("User", "query user by email", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	return &user, nil
}

func (r *firestoreUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := r.collection().Query
	if filter.Role != "" {
		query = query.Where("role", "==", filter.Role)
	}
	return r.collect(ctx, query.Documents(ctx))
}

func (r *firestoreUserRepository) collect(ctx context.Context, iter *firestore.DocumentIterator) ([]*entity.User, error) {
	defer iter.Stop()

	users := make([]*entity.User, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, firestoreError("User", "list users", err)
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return nil, errors.Internal("Failed to parse user data", err)
		}
		users = append(users, &user)
	}

	return users, nil
}

func (r *firestoreUserRepository) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return nil, firestoreError("User", "update user role", err)
	}

	return r.GetByID(ctx, id)
}

func (r *firestoreUserRepository) increment(ctx context.Context, id, field string) (*entity.User, error) {
	_, err := r.collection().Doc(id).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.Increment(1)},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return nil, firestoreError("User", "increment "+field, err)
	}

	return r.GetByID(ctx, id)
}

func (r *firestoreUserRepository) IncrementBookedParcels(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return r.increment(ctx, user.ID, "bookedParcel")
}

func (r *firestoreUserRepository) IncrementDeliveredParcels(ctx context.Context, id string) (*entity.User, error) {
	return r.increment(ctx, id, "numOfDeliveredParcel")
}

func (r *firestoreUserRepository) ApplyRating(ctx context.Context, id string, rating int) (*entity.User, error) {
	ref := r.collection().Doc(id)

	var updated entity.User
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var user entity.User
		if err := doc.DataTo(&user); err != nil {
			return errors.Internal("Failed to parse user data", err)
		}

		user.ApplyRating(rating)
		user.UpdatedAt = time.Now()
		updated = user

		return tx.Update(ref, []firestore.Update{
			{Path: "averageRating", Value: user.AverageRating},
			{Path: "reviewCount", Value: user.ReviewCount},
			{Path: "updatedAt", Value: user.UpdatedAt},
		})
	})
	if err != nil {
		return nil, firestoreError("User", "update delivery man rating", err)
	}

	return &updated, nil
}

func (r *firestoreUserRepository) TopDeliveryMen(ctx context.Context, limit int) ([]*entity.User, error) {
	query := r.collection().
		Where("role", "==", entity.RoleDeliveryMan).
		OrderBy("numOfDeliveredParcel", firestore.Desc).
		OrderBy("averageRating", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	return r.collect(ctx, query.Documents(ctx))
}
