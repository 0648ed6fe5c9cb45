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

const productCollection = "products"

// MongoProductRepository persists products in the `products` collection.
type MongoProductRepository struct{}

func NewMongoProductRepository() *MongoProductRepository {
	return &MongoProductRepository{}
}

func (r *MongoProductRepository) col() *mongo.Collection {
	return database.Collection(productCollection)
}

func (r *MongoProductRepository) All(ctx context.Context) ([]models.Product, error) {
	defer metrics.ObserveStore(productCollection, "find", time.Now())

	cur, err := r.col().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	products := []models.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *MongoProductRepository) Find(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	defer metrics.ObserveStore(productCollection, "find", time.Now())

	var p models.Product
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create validates the full document, then inserts it. A patch missing a
// required field never reaches the store.
func (r *MongoProductRepository) Create(ctx context.Context, patch models.ProductPatch, createdBy primitive.ObjectID) (*models.Product, error) {
	if errs := patch.Validate(); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	var p models.Product
	patch.Apply(&p)
	p.CreatedBy = createdBy

	defer metrics.ObserveStore(productCollection, "insert", time.Now())

	res, err := r.col().InsertOne(ctx, &p)
	if err != nil {
		return nil, err
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return &p, nil
}

// Update applies only the supplied fields, re-running required-field
// validation on them first. Returns ErrNotFound when nothing matches id.
func (r *MongoProductRepository) Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	if errs := patch.ValidatePartial(); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	if patch.IsEmpty() {
		return r.Find(ctx, id)
	}

	defer metrics.ObserveStore(productCollection, "update", time.Now())

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Product
	err := r.col().
		FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": patch.SetDoc()}, opts).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	defer metrics.ObserveStore(productCollection, "delete", time.Now())

	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
