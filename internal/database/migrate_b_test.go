package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(storeBMigrations, storeBMigrationsDir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := fs.ReadFile(storeBMigrations, storeBMigrationsDir+"/"+entries[0].Name())
	require.NoError(t, err)

	sql := string(data)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	assert.Contains(t, sql, "PRIMARY KEY (post_id, tag_id)")
	// Store B must not declare constraints against Store A tables.
	assert.False(t, strings.Contains(sql, "REFERENCES users"))
	assert.False(t, strings.Contains(sql, "REFERENCES posts"))
}
