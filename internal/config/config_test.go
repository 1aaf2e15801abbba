package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "blog_store_a", cfg.StoreA.Name)
	assert.Equal(t, "5432", cfg.StoreA.Port)
	assert.Equal(t, "./migrations/storea", cfg.StoreA.MigrationsPath)
	assert.Equal(t, "blog_store_b", cfg.StoreB.Name)
	assert.Equal(t, "5433", cfg.StoreB.Port)
	assert.True(t, cfg.StoreA.AutoMigrate)
	assert.True(t, cfg.StoreB.AutoMigrate)
	assert.Equal(t, 8, cfg.Enrichment.Concurrency)
	assert.False(t, cfg.CrossStoreCascade)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "server overrides",
			envVars: map[string]string{
				"PORT":                "8080",
				"SERVER_READ_TIMEOUT": "5s",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "8080", cfg.Server.Port)
				assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
			},
		},
		{
			name: "stores are configured independently",
			envVars: map[string]string{
				"STORE_A_HOST":         "a.internal",
				"STORE_A_AUTO_MIGRATE": "false",
				"STORE_B_HOST":         "b.internal",
				"STORE_B_NAME":         "comments",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "a.internal", cfg.StoreA.Host)
				assert.False(t, cfg.StoreA.AutoMigrate)
				assert.Equal(t, "blog_store_a", cfg.StoreA.Name)
				assert.Equal(t, "b.internal", cfg.StoreB.Host)
				assert.Equal(t, "comments", cfg.StoreB.Name)
				assert.True(t, cfg.StoreB.AutoMigrate)
			},
		},
		{
			name: "cascade and enrichment",
			envVars: map[string]string{
				"CROSS_STORE_CASCADE": "true",
				"ENRICH_CONCURRENCY":  "2",
				"LOG_LEVEL":           "debug",
			},
			expected: func(cfg *Config) {
				assert.True(t, cfg.CrossStoreCascade)
				assert.Equal(t, 2, cfg.Enrichment.Concurrency)
				assert.Equal(t, "debug", cfg.Log.Level)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := Load()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	t.Setenv("ENRICH_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENRICH_CONCURRENCY")
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := Default()
	assert.Equal(t,
		"host=localhost port=5433 user=postgres password=postgres dbname=blog_store_b sslmode=disable",
		cfg.StoreB.GetDSN(),
	)
}
