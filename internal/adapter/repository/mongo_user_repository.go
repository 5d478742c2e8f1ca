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

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		coll: db.Collection(usersCollection),
	}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = entity.NormalizeEmail(user.Email)
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return errors.Conflict("User with this email already exists", err)
	}
	return mongoError("User", "create user", err)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var user entity.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mongoError("User", "get user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": entity.NormalizeEmail(email)})
}

func (r *mongoUserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*entity.User, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, mongoError("User", "list users", err)
	}
	defer cursor.Close(ctx)

	users := make([]*entity.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, mongoError("User", "decode users", err)
	}
	return users, nil
}

func (r *mongoUserRepository) List(ctx context.Context, filter repository.UserFilter) ([]*entity.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["role"] = filter.Role
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

func (r *mongoUserRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update bson.M, action string) (*entity.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user entity.User
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user); err != nil {
		return nil, mongoError("User", action, err)
	}
	return &user, nil
}

func (r *mongoUserRepository) UpdateRole(ctx context.Context, id, role string) (*entity.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now()}},
		"update user role",
	)
}

func (r *mongoUserRepository) IncrementBookedParcels(ctx context.Context, email string) (*entity.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"email": entity.NormalizeEmail(email)},
		bson.M{"$inc": bson.M{"bookedParcel": 1}, "$set": bson.M{"updatedAt": time.Now()}},
		"increment booked parcels",
	)
}

func (r *mongoUserRepository) IncrementDeliveredParcels(ctx context.Context, id string) (*entity.User, error) {
	return r.findOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"numOfDeliveredParcel": 1}, "$set": bson.M{"updatedAt": time.Now()}},
		"increment delivered parcels",
	)
}

// ApplyRating is a compare-and-swap on reviewCount: a concurrent review bumps
// the count, the guarded update matches nothing and the loop re-reads.
func (r *mongoUserRepository) ApplyRating(ctx context.Context, id string, rating int) (*entity.User, error) {
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		user, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		seen := user.ReviewCount
		user.ApplyRating(rating)
		user.UpdatedAt = time.Now()

		res, err := r.coll.UpdateOne(ctx,
			bson.M{"_id": id, "reviewCount": seen},
			bson.M{"$set": bson.M{
				"averageRating": user.AverageRating,
				"reviewCount":   user.ReviewCount,
				"updatedAt":     user.UpdatedAt,
			}},
		)
		if err != nil {
			return nil, mongoError("User", "update delivery man rating", err)
		}
		if res.MatchedCount == 1 {
			return user, nil
		}
	}

	return nil, errors.Conflict("Delivery man rating is being updated concurrently, try again", nil)
}

func (r *mongoUserRepository) TopDeliveryMen(ctx context.Context, limit int) ([]*entity.User, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "numOfDeliveredParcel", Value: -1},
		{Key: "averageRating", Value: -1},
	})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"role": entity.RoleDeliveryMan}, opts)
}
