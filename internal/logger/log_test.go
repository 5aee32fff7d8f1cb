package logger

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisefood/internal/config"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level("debug"))
	assert.Equal(t, slog.LevelWarn, Level("WARN"))
	assert.Equal(t, slog.LevelError, Level("error"))
	assert.Equal(t, slog.LevelInfo, Level("info"))
	assert.Equal(t, slog.LevelInfo, Level(""))
	assert.Equal(t, slog.LevelInfo, Level("verbose"))
}

func TestNewWritesJSONAtConfiguredLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	l := New(config.LogConfig{Level: "warn", File: file})

	l.Info("too quiet")
	l.Warn("loud enough", "key", "value")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "too quiet")
	require.Contains(t, out, "loud enough")

	// Every emitted line is a JSON object.
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
	}
}
