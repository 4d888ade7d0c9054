package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(file, "debug")
	require.NoError(t, err)

	log.Info("booking id=%d placed in bay=%d", 42, 1)
	log.Close()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "booking id=42 placed in bay=1")
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	log, err := New(file, "warn")
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("visible")
	log.Close()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "visible")
}

func TestNew_UnknownLevel(t *testing.T) {
	_, err := New("", "verbose")
	assert.Error(t, err)
}
