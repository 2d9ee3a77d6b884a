package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("Accept: booking id=%d", 1)
	log.Warn("Accept: booking id=%d conflicts", 2)
	log.Error("Accept: booking id=%d failed", 3)

	out := buf.String()
	assert.NotContains(t, out, "booking id=1")
	assert.Contains(t, out, "booking id=2 conflicts")
	assert.Contains(t, out, "booking id=3 failed")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	log, err := New(path, "info")
	require.NoError(t, err)
	log.Info("hello %s", "file")
	log.Close()

	assert.FileExists(t, path)
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log, err := New("", "verbose")
	require.NoError(t, err)
	assert.Equal(t, "info", log.log.GetLevel().String())
}
