package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockdash/internal/config"
)

// initFileLogger initializes the global logger writing JSON to a temp file
// and returns the file path.
func initFileLogger(t *testing.T, level, format string) string {
	t.Helper()
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logFile := filepath.Join(t.TempDir(), "test.log")
	_, err := InitializeLogger(config.LoggingConfig{
		Level:    level,
		Format:   format,
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	return logFile
}

// lastLogEntry closes the log file and parses its final line as JSON.
func lastLogEntry(t *testing.T, logFile string) map[string]interface{} {
	t.Helper()
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestInitializeLoggerWritesJSON(t *testing.T) {
	logFile := initFileLogger(t, "info", "json")

	GetLogger().Info("test message", "key", "value")

	entry := lastLogEntry(t, logFile)
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestTraceIDInjection(t *testing.T) {
	logFile := initFileLogger(t, "debug", "json")

	ctx := WithTraceID(context.Background(), "test-trace-123")
	LoggerWithContext(ctx).InfoContext(ctx, "test with trace")

	entry := lastLogEntry(t, logFile)
	assert.Equal(t, "test-trace-123", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	levels := map[string]string{
		"debug": "DEBUG",
		"info":  "INFO",
		"warn":  "WARN",
		"error": "ERROR",
	}

	for level, want := range levels {
		t.Run(level, func(t *testing.T) {
			logFile := initFileLogger(t, level, "json")

			logger := GetLogger()
			switch level {
			case "debug":
				logger.Debug("entry")
			case "info":
				logger.Info("entry")
			case "warn":
				logger.Warn("entry")
			case "error":
				logger.Error("entry")
			}

			assert.Equal(t, want, lastLogEntry(t, logFile)["level"])
		})
	}
}

func TestTextFormat(t *testing.T) {
	logFile := initFileLogger(t, "info", "text")

	GetLogger().Info("plain text entry")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `msg="plain text entry"`)
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := ContextWithTraceID(context.Background())
	traceID := GetTraceID(ctx)
	require.NotEmpty(t, traceID)

	// An existing trace ID survives EnsureTraceID.
	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)))

	// A bare context gets one attached.
	assert.NotEmpty(t, GetTraceID(EnsureTraceID(context.Background())))
}

func TestLoggerHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	WithComponent(logger, "test-component").Info("tagged")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test-component", entry["component"])

	buf.Reset()
	WithError(logger, os.ErrNotExist).Info("error test")

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry["error"], "file does not exist")
}
