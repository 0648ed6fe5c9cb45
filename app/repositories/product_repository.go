package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/app/models"
)

// ProductRepository is the store contract for products. Create and Update
// run document validation before writing, so no partial record persists
// past a failed validation.
type ProductRepository interface {
	All(ctx context.Context) ([]models.Product, error)
	Find(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, patch models.ProductPatch, createdBy primitive.ObjectID) (*models.Product, error)
	Update(ctx context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CategoryRepository is the store contract for categories. Create and
// Update surface ErrDuplicate when the unique categoryName index rejects
// a write.
type CategoryRepository interface {
	All(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, cat *models.Category) error
	Update(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository is the store contract for users. FindOrCreate implements
// lazy account creation on first login, keyed by the external identity ID.
type UserRepository interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByGithubID(ctx context.Context, githubID string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}
