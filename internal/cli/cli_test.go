package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hybrid-blog-api/internal/models"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCommand_InvalidFormat(t *testing.T) {
	err := execute(t, "--format", "yaml", "seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
}

func TestSeedCommand_RejectsNonPositiveCount(t *testing.T) {
	err := execute(t, "seed", "--count", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--count must be positive")
}

func TestSeedCommand_Defaults(t *testing.T) {
	cmd := NewSeedCommand(&RootOptions{})

	count, err := cmd.Flags().GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	clearFirst, err := cmd.Flags().GetBool("clear")
	require.NoError(t, err)
	assert.False(t, clearFirst)
}

func TestMigrateCommand_InvalidStore(t *testing.T) {
	err := execute(t, "migrate", "up", "--store", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid store "c"`)
}

func TestMigrateOptions_Targets(t *testing.T) {
	tests := []struct {
		store    string
		expected []models.StoreName
	}{
		{"a", []models.StoreName{models.StoreA}},
		{"B", []models.StoreName{models.StoreB}},
		{"all", []models.StoreName{models.StoreA, models.StoreB}},
	}

	for _, tt := range tests {
		t.Run(tt.store, func(t *testing.T) {
			targets, err := (&migrateOptions{store: tt.store}).targets()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, targets)
		})
	}
}
