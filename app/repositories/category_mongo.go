package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/pkg/database"
	"github.com/shashiranjanraj/supermart/pkg/metrics"
	"github.com/shashiranjanraj/supermart/pkg/validate"
)

const categoryCollection = "categories"

// MongoCategoryRepository persists categories in the `categories`
// collection. Name uniqueness is enforced by the index created in
// database/migrations.
type MongoCategoryRepository struct{}

func NewMongoCategoryRepository() *MongoCategoryRepository {
	return &MongoCategoryRepository{}
}

func (r *MongoCategoryRepository) col() *mongo.Collection {
	return database.Collection(categoryCollection)
}

func (r *MongoCategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	defer metrics.ObserveStore(categoryCollection, "find", time.Now())

	cur, err := r.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	categories := []models.Category{}
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) Create(ctx context.Context, cat *models.Category) error {
	defer metrics.ObserveStore(categoryCollection, "insert", time.Now())

	res, err := r.col().InsertOne(ctx, cat)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		cat.ID = oid
	}
	return nil
}

func (r *MongoCategoryRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error) {
	if errs := validate.StructPartial(&patch); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	if patch.IsEmpty() {
		var existing models.Category
		err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		if err != nil {
			return nil, err
		}
		return &existing, nil
	}

	defer metrics.ObserveStore(categoryCollection, "update", time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Category
	err := r.col().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch.SetDoc()}, opts).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveStore(categoryCollection, "delete", time.Now())

	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
