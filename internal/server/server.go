// Package server boots the application: config, stores, log sinks, and
// the HTTP listener with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/supermart/app/repositories"
	"github.com/shashiranjanraj/supermart/app/services"
	"github.com/shashiranjanraj/supermart/config"
	"github.com/shashiranjanraj/supermart/internal/kernel"
	"github.com/shashiranjanraj/supermart/pkg/cache"
	"github.com/shashiranjanraj/supermart/pkg/database"
	"github.com/shashiranjanraj/supermart/pkg/logger"
	"github.com/shashiranjanraj/supermart/pkg/router"
)

const shutdownTimeout = 15 * time.Second

// Bootstrap loads config and connects the backing stores. It returns an
// error only for conditions the process cannot run without; a missing
// Redis degrades to the in-process session store with a warning.
func Bootstrap() error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := database.Connect(); err != nil {
		if errors.Is(err, database.ErrNoURI) {
			return fmt.Errorf("MONGO_URI is required: %w", err)
		}
		return fmt.Errorf("connect mongodb: %w", err)
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, sessions fall back to process memory", "error", err)
	}

	if config.LogMongo() {
		attachMongoSink()
	}

	return nil
}

// attachMongoSink fans log records out to MongoDB alongside the console
// handler. Failure to attach is logged and otherwise ignored.
func attachMongoSink() {
	mh, err := logger.NewMongoHandler(config.MongoURI(), config.MongoDB(), "logs")
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
		return
	}
	logger.Use(logger.NewMultiHandler(logger.L.Handler(), mh))
}

// BuildRouter wires the Mongo-backed repositories into the kernel.
func BuildRouter() *router.Router {
	repos := kernel.Repos{
		Products:   repositories.NewMongoProductRepository(),
		Categories: repositories.NewMongoCategoryRepository(),
		Users:      repositories.NewMongoUserRepository(),
	}
	return kernel.Build(repos, services.NewGithubClient())
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then
// drains in-flight requests and disconnects the stores.
func Run() error {
	if err := Bootstrap(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           BuildRouter().Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown drain failed", "error", err)
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Error("mongodb disconnect failed", "error", err)
	}

	logger.Info("server stopped")
	return nil
}
