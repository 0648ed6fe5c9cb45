package repositories

import (
	"context"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/supermart/app/models"
	"github.com/shashiranjanraj/supermart/pkg/validate"
)

// In-memory repositories with the same semantics as the Mongo ones,
// including write-time validation and name uniqueness. Used by tests.

// ─── Products ─────────────────────────────────────────────────────────────────

type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[primitive.ObjectID]models.Product
}

func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{products: map[primitive.ObjectID]models.Product{}}
}

func (r *MemoryProductRepository) All(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryProductRepository) Find(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (r *MemoryProductRepository) Create(_ context.Context, patch models.ProductPatch, createdBy primitive.ObjectID) (*models.Product, error) {
	if errs := patch.Validate(); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	var p models.Product
	patch.Apply(&p)
	p.ID = primitive.NewObjectID()
	p.CreatedBy = createdBy

	r.mu.Lock()
	r.products[p.ID] = p
	r.mu.Unlock()

	return &p, nil
}

func (r *MemoryProductRepository) Update(_ context.Context, id primitive.ObjectID, patch models.ProductPatch) (*models.Product, error) {
	if errs := patch.ValidatePartial(); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	patch.Apply(&p)
	r.products[id] = p
	return &p, nil
}

func (r *MemoryProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

type MemoryCategoryRepository struct {
	mu         sync.RWMutex
	categories map[primitive.ObjectID]models.Category
}

func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{categories: map[primitive.ObjectID]models.Category{}}
}

func (r *MemoryCategoryRepository) All(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryCategoryRepository) Create(_ context.Context, cat *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTakenLocked(cat.CategoryName, primitive.NilObjectID) {
		return ErrDuplicate
	}

	cat.ID = primitive.NewObjectID()
	r.categories[cat.ID] = *cat
	return nil
}

func (r *MemoryCategoryRepository) Update(_ context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error) {
	if errs := validate.StructPartial(&patch); validate.HasErrors(errs) {
		return nil, &ValidationError{Fields: errs}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.CategoryName != nil && r.nameTakenLocked(strings.TrimSpace(*patch.CategoryName), id) {
		return nil, ErrDuplicate
	}

	patch.Apply(&c)
	r.categories[id] = c
	return &c, nil
}

func (r *MemoryCategoryRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.categories[id]; !ok {
		return ErrNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *MemoryCategoryRepository) nameTakenLocked(name string, except primitive.ObjectID) bool {
	for id, c := range r.categories {
		if id != except && c.CategoryName == name {
			return true
		}
	}
	return false
}

// ─── Users ────────────────────────────────────────────────────────────────────

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[primitive.ObjectID]models.User{}}
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryUserRepository) FindByGithubID(_ context.Context, githubID string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.GithubID == githubID {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.GithubID == user.GithubID {
			return ErrDuplicate
		}
	}

	user.ID = primitive.NewObjectID()
	r.users[user.ID] = *user
	return nil
}
