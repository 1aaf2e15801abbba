package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/hybrid-blog-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	log.Info().Msg("dropped")
	log.Warn().Str("store", "B").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "B", entry["store"])
	assert.Equal(t, serviceName, entry["service"])
}

func TestNewWithWriter_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(config.LogConfig{Level: "loud"}, &buf)

	log.Debug().Msg("debug")
	assert.Zero(t, buf.Len())

	log.Info().Msg("info")
	assert.NotZero(t, buf.Len())
}
