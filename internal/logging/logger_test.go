package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesToLogFile(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "debug"})
	defer Shutdown()

	Logger().Info("hello", "key", "value")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestLoggerBeforeInitDoesNotPanic(t *testing.T) {
	Shutdown()
	assert.NotPanics(t, func() {
		Logger().Info("discarded")
	})
}

func TestForComponentUsesHandlerAtLogTime(t *testing.T) {
	// Component logger created before Init must pick up the real handler.
	log := ForComponent(CompStore)

	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "debug"})
	defer Shutdown()

	log.Debug("component_event")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, CompStore, entry["component"])
	assert.Equal(t, "component_event", entry["msg"])
}

func TestLevelFiltering(t *testing.T) {
	dir := t.TempDir()
	Init(Config{LogDir: dir, Level: "warn"})
	defer Shutdown()

	Logger().Info("dropped")
	Logger().Warn("kept")

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}
