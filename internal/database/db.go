package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/hybrid-blog-api/internal/models"
	"github.com/rs/zerolog"
)

// Driver names registered by the blank imports in migrate_a.go and migrate_b.go.
const (
	DriverStoreA = "postgres"
	DriverStoreB = "pgx"
)

// DB wraps the sql.DB connection of a single store. Each store gets its own
// DB; nothing is shared between them.
type DB struct {
	*sql.DB
	store models.StoreName
	log   zerolog.Logger
}

// New opens a connection pool for store using driverName and verifies it
func New(cfg *config.DatabaseConfig, store models.StoreName, driverName string, log zerolog.Logger) (*DB, error) {
	db, err := sql.Open(driverName, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open store %s connection: %w", store, err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.MaxLifetime)

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store %s: %w", store, err)
	}

	wrapper := Wrap(db, store, log)

	wrapper.log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Str("driver", driverName).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return wrapper, nil
}

// Wrap adopts an already opened pool, e.g. one created by sqlmock
func Wrap(db *sql.DB, store models.StoreName, log zerolog.Logger) *DB {
	return &DB{
		DB:    db,
		store: store,
		log:   log.With().Str("component", "database").Str("store", string(store)).Logger(),
	}
}

// Store names the store this connection belongs to
func (db *DB) Store() models.StoreName {
	return db.store
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Stats returns database connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.DB.Stats()
}
