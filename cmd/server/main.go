// Package main implements the entry point for the tasktrack API server,
// a minimal multi-user task tracker with JWT-authenticated, per-user
// task CRUD over PostgreSQL.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/mbarlow/tasktrack/internal/config"
	"github.com/mbarlow/tasktrack/internal/platform/logger"
)

// main is the entry point for the tasktrack server.
// It initializes configuration, logging, the database connection and
// migrations, wires the application dependencies, and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, sets up all application components, and runs the
// server until it is signalled to shut down.
func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Set up structured logging using the configured log level
	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	// Establish the database connection
	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}

	// Apply pending schema migrations before serving traffic
	if err := runMigrations(db, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Wire the application dependencies
	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
