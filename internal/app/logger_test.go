package app

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/handlergrid/internal/testutil"
)

func TestNewLogger_JSON(t *testing.T) {
	t.Parallel()
	// Arrange
	buf := &testutil.SafeBuffer{}
	logger := newLogger(&Config{LogLevel: "warning", LogFormat: "json"}, buf)

	// Act
	logger.Info("Dropped.")
	logger.Warn("Kept.", "plugin", "numeric")

	// Assert
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "Kept.", rec["msg"])
	assert.Equal(t, serviceName, rec["service"])
	assert.Equal(t, "numeric", rec["plugin"])
	assert.NotContains(t, rec, slog.SourceKey)
}

func TestNewLogger_DebugAddsSource(t *testing.T) {
	t.Parallel()
	// Arrange
	buf := &testutil.SafeBuffer{}
	logger := newLogger(&Config{LogLevel: "debug"}, buf)

	// Act
	logger.Debug("Resolved handler.")

	// Assert
	out := buf.String()
	assert.Contains(t, out, `msg="Resolved handler."`)
	assert.Contains(t, out, "service=handlergrid")
	assert.Contains(t, out, "source=")
	assert.Contains(t, out, "logger_test.go")
}

func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	testCases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, expected := range testCases {
		level, err := parseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, level, in)
	}

	_, err := parseLogLevel("verbose")
	assert.ErrorContains(t, err, `unknown log level "verbose"`)
}
