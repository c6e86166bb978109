package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		level    LogLevel
		expected slog.Level
	}{
		{"debug", LevelDebug, slog.LevelDebug},
		{"info", LevelInfo, slog.LevelInfo},
		{"warn", LevelWarn, slog.LevelWarn},
		{"warning alias", "WARNING", slog.LevelWarn},
		{"error", LevelError, slog.LevelError},
		{"unknown falls back to info", "loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.level))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestNew_FileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "lanwatch.log")

	logger, err := New(Config{Level: LevelDebug, Format: FormatJSON, Output: logFile})
	require.NoError(t, err)

	logger.InfoScan("host online", "192.168.1.10", "rtt_ms", 3)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "host online", entry["msg"])
	assert.Equal(t, "192.168.1.10", entry["target"])
	assert.EqualValues(t, 3, entry["rtt_ms"])

	info, err := os.Stat(logFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(logFilePerm), info.Mode().Perm())
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: LevelWarn, Format: FormatText})

	logger.Info("dropped")
	logger.DebugScan("dropped too", "10.0.0.1")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, Config{Level: LevelDebug, Format: FormatJSON})

	logger.WithComponent("scanner").WithScanID("abc").InfoScan("probe", "10.0.0.2")
	logger.ErrorRegistry("save failed", errors.New("disk full"))
	logger.InfoRefresh("refresh done", "devices", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	var first, second, third map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &third))

	assert.Equal(t, "scanner", first["component"])
	assert.Equal(t, "abc", first["scan_id"])
	assert.Equal(t, "10.0.0.2", first["target"])

	assert.Equal(t, "registry", second["component"])
	assert.Equal(t, "disk full", second["error"])
	assert.Equal(t, "ERROR", second["level"])

	assert.Equal(t, "refresh", third["component"])
	assert.EqualValues(t, 4, third["devices"])
}

func TestSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer
	SetDefault(NewWithWriter(&buf, Config{Level: LevelDebug}))

	Debug("debug message")
	Info("info message")
	Warn("warn message")
	Error("error message")

	out := buf.String()
	for _, msg := range []string{"debug message", "info message", "warn message", "error message"} {
		assert.Contains(t, out, msg)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	require.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.ErrorScan("x", "y", errors.New("z")) })
	assert.NoError(t, logger.Close())
}
