// Package migrations holds the schema migrations. Each registers itself
// via init(); the CLI imports this package blank to pick them up.
package migrations

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/supermart/pkg/migration"
)

func init() {
	migration.Register("20260815000000_unique_category_name", &UniqueCategoryName{})
	migration.Register("20260815000001_unique_user_github_id", &UniqueUserGithubID{})
}

// UniqueCategoryName enforces category name uniqueness at the store
// level, backing the duplicate-create rejection.
type UniqueCategoryName struct{}

func (m *UniqueCategoryName) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "categoryName", Value: 1}},
		Options: options.Index().SetName("uniq_category_name").SetUnique(true),
	})
	return err
}

func (m *UniqueCategoryName) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("categories").Indexes().DropOne(ctx, "uniq_category_name")
	return err
}

// UniqueUserGithubID keys local users to their external identity.
type UniqueUserGithubID struct{}

func (m *UniqueUserGithubID) Up(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "githubId", Value: 1}},
		Options: options.Index().SetName("uniq_user_github_id").SetUnique(true),
	})
	return err
}

func (m *UniqueUserGithubID) Down(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().DropOne(ctx, "uniq_user_github_id")
	return err
}
