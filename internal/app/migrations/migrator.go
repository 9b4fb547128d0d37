package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embedded embed.FS

const migrationsDir = "sql"

// Files returns the embedded migration files
func Files() fs.FS {
	return embedded
}

// Migrator applies the embedded goose migrations
type Migrator struct {
	db     *pgxpool.Pool
	logger zerolog.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *pgxpool.Pool, logger zerolog.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	sqlDB := stdlib.OpenDBFromPool(m.db)
	defer sqlDB.Close()

	goose.SetBaseFS(embedded)
	goose.SetLogger(gooseLogger{m.logger})

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect: %w", err)
	}

	if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("reading migration version: %w", err)
	}
	m.logger.Info().Int64("version", version).Msg("Database schema is up to date")
	return nil
}

// gooseLogger routes goose output through zerolog
type gooseLogger struct {
	lgr zerolog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.lgr.Info().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.lgr.Fatal().Msgf(strings.TrimSuffix(format, "\n"), v...)
}
