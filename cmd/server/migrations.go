package main

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// runMigrations applies any pending schema migrations using goose.
// Migrations are embedded in the binary so the server is self-contained.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	// Use a correlation ID for all migration logs to allow tracing the
	// entire operation.
	correlationID := uuid.New().String()
	migrationLogger := logger.With(
		"correlation_id", correlationID,
		"component", "migrations",
	)

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	migrationLogger.Info("Applying pending migrations")
	if err := goose.Up(db, "migrations"); err != nil {
		migrationLogger.Error("Migration failed", "error", err)
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	migrationLogger.Info("Migrations applied", "db_version", version)
	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
