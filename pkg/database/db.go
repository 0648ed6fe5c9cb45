// Package database manages the MongoDB client used by every repository.
package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/supermart/config"
)

// ErrNoURI is returned when MONGO_URI is not configured. The server treats
// this as fatal at startup.
var ErrNoURI = errors.New("database: MONGO_URI is not set")

var (
	client *mongo.Client
	db     *mongo.Database
)

// Connect opens the MongoDB connection and verifies it with a ping.
// Returns an error instead of calling log.Fatal so the caller can shut
// down gracefully.
func Connect() error {
	uri := config.MongoURI()
	if uri == "" {
		return ErrNoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	c, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	db = c.Database(config.MongoDB())
	return nil
}

// DB returns the active database handle. Nil before Connect.
func DB() *mongo.Database {
	return db
}

// Collection is a shorthand for DB().Collection(name).
func Collection(name string) *mongo.Collection {
	return db.Collection(name)
}

// Disconnect closes the client connection.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
