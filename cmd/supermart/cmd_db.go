package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/supermart/config"
	"github.com/shashiranjanraj/supermart/database/seeders"
	"github.com/shashiranjanraj/supermart/pkg/database"
	"github.com/shashiranjanraj/supermart/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

func dbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// supermart migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx, cancel := dbCtx()
		defer cancel()
		fmt.Println("Running migrations…")
		return migration.New(database.DB()).Run(ctx)
	},
}

// supermart migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx, cancel := dbCtx()
		defer cancel()
		fmt.Println("Rolling back last batch…")
		return migration.New(database.DB()).Rollback(ctx)
	},
}

// supermart migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx, cancel := dbCtx()
		defer cancel()
		return migration.New(database.DB()).Status(ctx)
	},
}

// supermart seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		ctx, cancel := dbCtx()
		defer cancel()
		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, database.DB())
	},
}
