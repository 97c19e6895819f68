package app

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out strings.Builder
		newLogger("debug", "json", &out).Debug("hello", "k", "v")

		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(out.String()), &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "DEBUG", entry["level"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("text filters by level", func(t *testing.T) {
		var out strings.Builder
		logger := newLogger("warn", "text", &out)
		logger.Info("hidden")
		logger.Warn("shown")
		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "msg=shown")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		var out strings.Builder
		logger := newLogger("verbose", "text", &out)
		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "shown")
	})
}

func TestLogLevels(t *testing.T) {
	assert.Equal(t, []string{"debug", "info", "warn", "error"}, LogLevels())
}
