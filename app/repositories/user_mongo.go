package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/pkg/database"
	"github.com/shashiranjanraj/supermart/pkg/metrics"
)

const userCollection = "users"

// MongoUserRepository persists users in the `users` collection.
type MongoUserRepository struct{}

func NewMongoUserRepository() *MongoUserRepository {
	return &MongoUserRepository{}
}

func (r *MongoUserRepository) col() *mongo.Collection {
	return database.Collection(userCollection)
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer metrics.ObserveStore(userCollection, "find", time.Now())

	var u models.User
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) FindByGithubID(ctx context.Context, githubID string) (*models.User, error) {
	defer metrics.ObserveStore(userCollection, "find", time.Now())

	var u models.User
	err := r.col().FindOne(ctx, bson.M{"githubId": githubID}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveStore(userCollection, "insert", time.Now())

	res, err := r.col().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}
