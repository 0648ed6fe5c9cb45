// Package migration provides an ordered, recorded migration runner for
// MongoDB. Migrations here create indexes rather than tables; applied
// migrations are tracked in a `migrations` collection so each runs once.
//
// Usage (in database/migrations/initial.go):
//
//	func init() {
//	    migration.Register("20260101000000_unique_category_name", &UniqueCategoryName{})
//	}
//
// Run from CLI:
//
//	supermart migrate             // run all pending
//	supermart migrate:rollback    // rollback last batch
//	supermart migrate:status      // show each migration's state
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/supermart/pkg/logger"
)

const trackingCollection = "migrations"

// Migration is the interface every migration must implement.
type Migration interface {
	// Up applies the migration.
	Up(ctx context.Context, db *mongo.Database) error
	// Down reverses the migration.
	Down(ctx context.Context, db *mongo.Database) error
}

// migrationRecord is the document stored in the tracking collection.
type migrationRecord struct {
	Name  string    `bson:"name"`
	Batch int       `bson:"batch"`
	RunAt time.Time `bson:"runAt"`
}

// ------------------- Registry -------------------

type registeredMigration struct {
	name string
	m    Migration
}

var registry []registeredMigration

// Register adds a migration to the global registry.
// name should be a timestamp-prefixed string; timestamps sort
// lexicographically, so registration order and name order agree.
func Register(name string, m Migration) {
	registry = append(registry, registeredMigration{name: name, m: m})
}

// ------------------- Runner -------------------

// Runner executes and tracks migrations.
type Runner struct {
	db *mongo.Database
}

// New creates a Runner backed by the provided database.
func New(db *mongo.Database) *Runner {
	return &Runner{db: db}
}

func (r *Runner) tracking() *mongo.Collection {
	return r.db.Collection(trackingCollection)
}

// EnsureIndex creates the unique name index on the tracking collection.
func (r *Runner) EnsureIndex(ctx context.Context) error {
	_, err := r.tracking().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Pending returns the migrations that have not yet been run.
func (r *Runner) Pending(ctx context.Context) ([]registeredMigration, error) {
	ran, err := r.ranSet(ctx)
	if err != nil {
		return nil, err
	}

	var pending []registeredMigration
	for _, reg := range registry {
		if !ran[reg.name] {
			pending = append(pending, reg)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].name < pending[j].name
	})

	return pending, nil
}

// Run executes all pending migrations in a single batch.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("migration: ensure index: %w", err)
	}

	pending, err := r.Pending(ctx)
	if err != nil {
		return fmt.Errorf("migration: fetch pending: %w", err)
	}

	if len(pending) == 0 {
		logger.Info("migration: nothing to migrate")
		fmt.Println("Nothing to migrate.")
		return nil
	}

	batch, err := r.nextBatch(ctx)
	if err != nil {
		return err
	}

	for _, reg := range pending {
		logger.Info("migration: running", "name", reg.name)
		fmt.Printf("  Migrating: %s\n", reg.name)

		if err := reg.m.Up(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s up: %w", reg.name, err)
		}

		record := migrationRecord{Name: reg.name, Batch: batch, RunAt: time.Now()}
		if _, err := r.tracking().InsertOne(ctx, record); err != nil {
			return fmt.Errorf("migration: record %s: %w", reg.name, err)
		}

		fmt.Printf("  Migrated:  %s\n", reg.name)
	}

	logger.Info("migration: done", "ran", len(pending), "batch", batch)
	return nil
}

// Rollback reverses all migrations from the most recent batch.
func (r *Runner) Rollback(ctx context.Context) error {
	maxBatch, err := r.maxBatch(ctx)
	if err != nil {
		return err
	}
	if maxBatch == 0 {
		fmt.Println("Nothing to roll back.")
		return nil
	}

	cur, err := r.tracking().Find(ctx,
		bson.M{"batch": maxBatch},
		options.Find().SetSort(bson.D{{Key: "name", Value: -1}}),
	)
	if err != nil {
		return err
	}

	var records []migrationRecord
	if err := cur.All(ctx, &records); err != nil {
		return err
	}

	regMap := make(map[string]Migration, len(registry))
	for _, reg := range registry {
		regMap[reg.name] = reg.m
	}

	for _, rec := range records {
		m, ok := regMap[rec.Name]
		if !ok {
			return fmt.Errorf("migration: cannot rollback %s, not registered", rec.Name)
		}

		fmt.Printf("  Rolling back: %s\n", rec.Name)
		logger.Info("migration: rolling back", "name", rec.Name)

		if err := m.Down(ctx, r.db); err != nil {
			return fmt.Errorf("migration: %s down: %w", rec.Name, err)
		}

		if _, err := r.tracking().DeleteOne(ctx, bson.M{"name": rec.Name}); err != nil {
			return err
		}

		fmt.Printf("  Rolled back:  %s\n", rec.Name)
	}

	return nil
}

// Status prints all migrations and whether each has been run.
func (r *Runner) Status(ctx context.Context) error {
	cur, err := r.tracking().Find(ctx, bson.M{})
	if err != nil {
		return err
	}

	var ran []migrationRecord
	if err := cur.All(ctx, &ran); err != nil {
		return err
	}

	ranMap := make(map[string]migrationRecord, len(ran))
	for _, rec := range ran {
		ranMap[rec.Name] = rec
	}

	fmt.Printf("%-60s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, reg := range registry {
		if rec, ok := ranMap[reg.name]; ok {
			fmt.Printf("%-60s  %-8s  %d\n", reg.name, "Ran", rec.Batch)
		} else {
			fmt.Printf("%-60s  %-8s  -\n", reg.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) ranSet(ctx context.Context) (map[string]bool, error) {
	cur, err := r.tracking().Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var ran []migrationRecord
	if err := cur.All(ctx, &ran); err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(ran))
	for _, rec := range ran {
		set[rec.Name] = true
	}
	return set, nil
}

func (r *Runner) maxBatch(ctx context.Context) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "batch", Value: -1}})

	var top migrationRecord
	err := r.tracking().FindOne(ctx, bson.M{}, opts).Decode(&top)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return top.Batch, nil
}

func (r *Runner) nextBatch(ctx context.Context) (int, error) {
	max, err := r.maxBatch(ctx)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
