package logger

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFromContext(t *testing.T) {
	t.Run("Should return logger from context when present", func(t *testing.T) {
		expectedLogger := NewLogger(TestConfig())
		ctx := ContextWithLogger(t.Context(), expectedLogger)

		actualLogger := FromContext(ctx)

		require.NotNil(t, actualLogger)
		assert.Equal(t, expectedLogger, actualLogger)
	})

	t.Run("Should return default logger when no logger in context", func(t *testing.T) {
		logger := FromContext(t.Context())

		require.NotNil(t, logger)
		assert.Same(t, GetDefault(), logger)
	})

	t.Run("Should return default logger when wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, "not a logger")

		require.NotNil(t, FromContext(ctx))
	})

	t.Run("Should return default logger when nil logger in context", func(t *testing.T) {
		ctx := context.WithValue(t.Context(), LoggerCtxKey, (Logger)(nil))

		require.NotNil(t, FromContext(ctx))
	})
}

func TestLogLevel_ToCharmlogLevel(t *testing.T) {
	testCases := []struct {
		level    LogLevel
		expected int
	}{
		{DebugLevel, -4},
		{InfoLevel, 0},
		{WarnLevel, 4},
		{ErrorLevel, 8},
		{DisabledLevel, 1000},
		{LogLevel("unknown"), 0},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expected, int(tc.level.ToCharmlogLevel()), "level %s", tc.level)
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, DisabledLevel, ParseLevel("disabled"))
	assert.Equal(t, InfoLevel, ParseLevel("loud"))
	assert.Equal(t, InfoLevel, ParseLevel(""))
}

func TestNewLogger(t *testing.T) {
	t.Run("Should write text output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		logger.Info("test message", "rows", 3)

		assert.Contains(t, buf.String(), "test message")
		assert.Contains(t, buf.String(), "rows=3")
	})

	t.Run("Should write JSON output when enabled", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: InfoLevel, Output: &buf, JSON: true, TimeFormat: "15:04:05"})
		logger.Info("test message", "sheet", "Sheet1")

		line := bytes.TrimSpace(buf.Bytes())
		require.True(t, gjson.ValidBytes(line), "not JSON: %s", line)
		assert.Equal(t, "test message", gjson.GetBytes(line, "msg").String())
		assert.Equal(t, "Sheet1", gjson.GetBytes(line, "sheet").String())
	})

	t.Run("Should carry fields added with With", func(t *testing.T) {
		var buf bytes.Buffer
		base := NewLogger(&Config{Level: InfoLevel, Output: &buf, TimeFormat: "15:04:05"})
		base.With("component", "detect").Info("operation completed")

		assert.Contains(t, buf.String(), "component=detect")
		assert.Contains(t, buf.String(), "operation completed")
	})
}

func TestConfigDefaults(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, InfoLevel, config.Level)
	assert.Equal(t, os.Stderr, config.Output)
	assert.Equal(t, "15:04:05", config.TimeFormat)

	config = TestConfig()
	assert.Equal(t, DisabledLevel, config.Level)
	assert.Equal(t, io.Discard, config.Output)
}

func TestLoggerLevels(t *testing.T) {
	t.Run("Should respect log level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: WarnLevel, Output: &buf, TimeFormat: "15:04:05"})

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warn message")
		assert.Contains(t, output, "error message")
	})

	t.Run("Should disable all logging when DisabledLevel is used", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&Config{Level: DisabledLevel, Output: &buf, TimeFormat: "15:04:05"})
		logger.Error("error message")

		assert.Empty(t, buf.String())
	})
}
