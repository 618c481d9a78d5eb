package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.False(t, cfg.Pretty)
	assert.NotNil(t, cfg.Output)
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level LogLevel
		want  zerolog.Level
	}{
		{LevelDebug, zerolog.DebugLevel},
		{LevelInfo, zerolog.InfoLevel},
		{LevelWarn, zerolog.WarnLevel},
		{"WARNING", zerolog.WarnLevel},
		{LevelError, zerolog.ErrorLevel},
		{" Debug ", zerolog.DebugLevel},
		{"verbose", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.level), string(tt.level))
	}
}

//nolint:paralleltest // Setup replaces the global logger
func TestSetup(t *testing.T) {
	t.Run("filters below the level", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := Setup(Config{Level: LevelWarn, Output: buf})

		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("json output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := Setup(Config{Level: LevelDebug, Output: buf})

		logger.Debug().Str("endpoint", "/geomap/api/locations").Msg("fetching")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "debug", entry["level"])
		assert.Equal(t, "fetching", entry["message"])
		assert.Equal(t, "/geomap/api/locations", entry["endpoint"])
		assert.Contains(t, entry, "time")
	})

	t.Run("pretty output", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := Setup(Config{Level: LevelInfo, Pretty: true, Output: buf})

		logger.Info().Msg("console message")

		assert.Contains(t, buf.String(), "console message")
		assert.False(t, strings.HasPrefix(buf.String(), "{"))
	})

	t.Run("component logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		Setup(Config{Level: LevelInfo, Output: buf})

		logger := NewLogger("cli")
		logger.Info().Msg("hello")

		assert.Contains(t, buf.String(), `"component":"cli"`)
	})
}

func TestAdapter(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	adapter := NewAdapter(zerolog.New(buf).Level(zerolog.DebugLevel))

	adapter.Debug("HTTP Request", map[string]interface{}{"method": "GET"})
	adapter.Info("info", nil)
	adapter.Warn("warn", map[string]interface{}{"page": 2})
	adapter.Error("error", map[string]interface{}{"status": 500})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "HTTP Request", entry["message"])
	assert.Equal(t, "GET", entry["method"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.InDelta(t, 2, entry["page"], 0)

	require.NoError(t, json.Unmarshal([]byte(lines[3]), &entry))
	assert.Equal(t, "error", entry["level"])
}
