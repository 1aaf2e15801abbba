package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Store A holds users and posts
	StoreA DatabaseConfig `envPrefix:"STORE_A_"`

	// Store B holds comments, tags and the post-tag bridge
	StoreB DatabaseConfig `envPrefix:"STORE_B_"`

	// Read-time enrichment
	Enrichment EnrichmentConfig `envPrefix:"ENRICH_"`

	// Logging configuration
	Log LogConfig `envPrefix:"LOG_"`

	// CrossStoreCascade makes post/user deletes also remove the dependent Store B rows.
	CrossStoreCascade bool `env:"CROSS_STORE_CASCADE"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig holds connection and schema settings for one store
type DatabaseConfig struct {
	Host         string        `env:"HOST"`
	Port         string        `env:"PORT"`
	User         string        `env:"USER"`
	Password     string        `env:"PASSWORD"`
	Name         string        `env:"NAME"`
	SSLMode      string        `env:"SSLMODE"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS"`
	MaxIdleConns int           `env:"MAX_IDLE_CONNS"`
	MaxLifetime  time.Duration `env:"MAX_LIFETIME"`

	// AutoMigrate applies the store's own schema policy on startup.
	AutoMigrate bool `env:"AUTO_MIGRATE"`
	// MigrationsPath is only read by Store A, which migrates from files.
	MigrationsPath string `env:"MIGRATIONS_PATH"`
}

// EnrichmentConfig bounds the per-request fan-out of enrichment queries
type EnrichmentConfig struct {
	Concurrency int `env:"CONCURRENCY"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LEVEL"`
	Format string `env:"FORMAT"` // "json" or "pretty"
}

// Default returns the configuration used when no environment variable is set.
// Both stores share a type, so their defaults are set here rather than via envDefault.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		StoreA: DatabaseConfig{
			Host:           "localhost",
			Port:           "5432",
			User:           "postgres",
			Password:       "postgres",
			Name:           "blog_store_a",
			SSLMode:        "disable",
			MaxOpenConns:   25,
			MaxIdleConns:   5,
			MaxLifetime:    5 * time.Minute,
			AutoMigrate:    true,
			MigrationsPath: "./migrations/storea",
		},
		StoreB: DatabaseConfig{
			Host:         "localhost",
			Port:         "5433",
			User:         "postgres",
			Password:     "postgres",
			Name:         "blog_store_b",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
			MaxLifetime:  5 * time.Minute,
			AutoMigrate:  true,
		},
		Enrichment: EnrichmentConfig{
			Concurrency: 8,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from environment variables on top of Default
func Load() (*Config, error) {
	cfg := Default()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.StoreA.Host == "" {
		return fmt.Errorf("STORE_A_HOST is required")
	}
	if c.StoreA.Name == "" {
		return fmt.Errorf("STORE_A_NAME is required")
	}
	if c.StoreB.Host == "" {
		return fmt.Errorf("STORE_B_HOST is required")
	}
	if c.StoreB.Name == "" {
		return fmt.Errorf("STORE_B_NAME is required")
	}
	if c.Enrichment.Concurrency < 1 {
		return fmt.Errorf("ENRICH_CONCURRENCY must be positive, got %d", c.Enrichment.Concurrency)
	}
	return nil
}

// GetDSN returns the key/value PostgreSQL connection string understood by both drivers
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
