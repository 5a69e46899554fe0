package db

import (
	"context"
	"embed"
	"log"
	"time"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MigrateConfig defines the configuration needed for database migrations
type MigrateConfig struct {
	DBURL string
}

// Migrate connects to the database and applies the embedded migrations.
func Migrate(cfg MigrateConfig) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := InitDB(ctx, cfg.DBURL); err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "failed to set dialect")
	}

	if err := goose.Up(DB, "migrations"); err != nil {
		return errors.Wrap(err, "failed to run migrations")
	}

	log.Println("database migration check complete. All migrations are up to date")
	return nil
}
