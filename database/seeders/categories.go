package seeders

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shashiranjanraj/supermart/app/models"
)

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts a starter set of categories. Names already
// present are left alone, so reseeding is safe.
func SeedCategories(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("categories")

	starter := []models.Category{
		{CategoryName: "Dairy", Description: "Milk, cheese, butter and yoghurt"},
		{CategoryName: "Bakery", Description: "Bread, rolls and pastries"},
		{CategoryName: "Produce", Description: "Fresh fruit and vegetables"},
		{CategoryName: "Beverages", Description: "Juices, sodas and water"},
		{CategoryName: "Household", Description: "Cleaning and paper goods"},
	}

	for _, cat := range starter {
		n, err := col.CountDocuments(ctx, bson.M{"categoryName": cat.CategoryName})
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := col.InsertOne(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}
