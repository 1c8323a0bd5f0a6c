package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelInfo, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("shown %d", 2)
	logger.Warn("warned")
	logger.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown 2")
	assert.Contains(t, out, "[WARN] warned")
	assert.Contains(t, out, "[ERROR] failed")
}

func TestDefaultLoggerWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelDebug, &buf)

	logger.WithField("game", "g1").Info("solved")
	assert.Contains(t, buf.String(), "game=g1")

	// Original logger must be unaffected.
	buf.Reset()
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "game=g1")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLogLevel("debug"))
	assert.Equal(t, LevelWarn, ParseLogLevel("WARNING"))
	assert.Equal(t, LevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LevelInfo, ParseLogLevel("bogus"))
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "oink.log")
	logger, err := NewFileLogger(LevelInfo, path)
	require.NoError(t, err)

	logger.Info("solved %d vertices", 3)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] solved 3 vertices")
}

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStdLogger(LevelInfo, &buf)

	logger.Debug("hidden")
	logger.Info("shown %d", 2)
	logger.Warn("warned")
	logger.Error("failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] shown 2")
	assert.Contains(t, out, "[WARN] warned")
	assert.Contains(t, out, "[ERROR] failed")

	buf.Reset()
	logger.WithField("game", "g1").Info("solved")
	assert.Contains(t, buf.String(), "game=g1")
}

func TestNullLogger(t *testing.T) {
	logger := &NullLogger{}
	logger.Debug("a")
	logger.Info("b")
	logger.Warn("c")
	logger.Error("d")
	assert.Same(t, logger, logger.WithField("k", "v"))
}

func TestTimer(t *testing.T) {
	timer := NewTimer()
	stop := timer.Start("solving")
	d1 := stop()
	d2 := stop()
	assert.Equal(t, d1, d2)
	assert.Equal(t, d1, timer.Duration("solving"))
	assert.True(t, strings.HasPrefix(timer.Summary(), "solving="))

	var buf bytes.Buffer
	timer.Report(NewDefaultLogger(LevelInfo, &buf))
	assert.Contains(t, buf.String(), "solving:")
}
