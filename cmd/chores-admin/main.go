package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"family-chores-go/internal/app"
	"family-chores-go/internal/config"
	"family-chores-go/internal/db"
	"family-chores-go/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var log = logger.NewFromEnv()

var rootCmd = &cobra.Command{
	Use:           "chores-admin",
	Short:         "Operator tooling for the family chores service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(migrateCmd, reconcileCmd, goalsCmd, familyCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func openDB() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return config.Config{}, nil, err
	}
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, dbConn, nil
}

// withServices runs fn against a fully wired domain layer and releases the
// connections afterwards.
func withServices(ctx context.Context, fn func(*app.Services) error) error {
	cfg, dbConn, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(dbConn)

	services, err := app.NewServices(ctx, cfg, dbConn, nil, log)
	if err != nil {
		return err
	}
	defer services.Close()

	return fn(services)
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
