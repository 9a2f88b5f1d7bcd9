// Package main is the entry point for the pet adoption API server.
//
// main stays minimal:
//  1. read configuration (.env + environment)
//  2. build the logger and open the store
//  3. hand both to internal/server and block until shutdown
//
// Example:
//
//	JWT_SECRET=$(openssl rand -hex 32) go run ./cmd/server
//	DB_DRIVER=postgres DATABASE_URL=postgres://... JWT_SECRET=... go run ./cmd/server
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/sakif/pet-adoption/internal/config"
	"github.com/sakif/pet-adoption/internal/repository"
	"github.com/sakif/pet-adoption/internal/repository/postgres"
	"github.com/sakif/pet-adoption/internal/repository/sqlite"
	"github.com/sakif/pet-adoption/internal/server"
)

func main() {
	if err := run(); err != nil {
		// The configured logger may not exist yet, so fall back to the default.
		slog.Error("fatal", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("ENV_FILE"))
	if err != nil {
		return err
	}

	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := openStore(ctx, cfg, logger)
	cancel()
	if err != nil {
		return err
	}

	srv, err := server.New(cfg.Server(), store, logger)
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("creating server: %w", err)
	}

	// Start blocks until SIGINT/SIGTERM and closes the store on the way out.
	return srv.Start()
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		logger.Info("database ready", slog.String("dialect", db.Dialect().Name()))
		return db, nil

	default:
		// Create the parent directory on first run (like `mkdir -p`).
		if cfg.DBPath != ":memory:" {
			dir := filepath.Dir(cfg.DBPath)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}

		db, err := sqlite.New(ctx, cfg.DBPath, sqlite.Options{ForeignKeys: cfg.ForeignKeys})
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		logger.Info("database ready",
			slog.String("dialect", db.Dialect().Name()),
			slog.String("path", cfg.DBPath),
			slog.Bool("foreignKeys", cfg.ForeignKeys),
		)
		return db, nil
	}
}
