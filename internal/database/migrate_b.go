package database

import (
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Store B ships its schema inside the binary and applies it with goose.

//go:embed migrations/storeb/*.sql
var storeBMigrations embed.FS

const storeBMigrationsDir = "migrations/storeb"

func prepareGoose() error {
	goose.SetBaseFS(storeBMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// RunEmbeddedMigrations applies all pending Store B migrations
func (db *DB) RunEmbeddedMigrations() error {
	db.log.Info().Str("dir", storeBMigrationsDir).Msg("Running embedded migrations")

	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Up(db.DB, storeBMigrationsDir); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	db.log.Info().Int64("version", version).Msg("Migrations completed")
	return nil
}

// RollbackEmbeddedMigration rolls back the last Store B migration
func (db *DB) RollbackEmbeddedMigration() error {
	db.log.Info().Msg("Rolling back last embedded migration")

	if err := prepareGoose(); err != nil {
		return err
	}
	if err := goose.Down(db.DB, storeBMigrationsDir); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	db.log.Info().Msg("Migration rolled back")
	return nil
}
