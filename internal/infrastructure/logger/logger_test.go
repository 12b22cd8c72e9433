package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func testConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "json",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		logger, err := New(testConfig())
		require.NoError(t, err)
		require.NotNil(t, logger)
		logger.Info("ledger starting")
	})

	t.Run("console format", func(t *testing.T) {
		cfg := testConfig()
		cfg.Format = "console"
		logger, err := New(cfg)
		require.NoError(t, err)
		logger.Info("ledger starting")
	})

	t.Run("debug level enables debug output", func(t *testing.T) {
		cfg := testConfig()
		cfg.Level = "debug"
		logger, err := New(cfg)
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("error level suppresses info", func(t *testing.T) {
		cfg := testConfig()
		cfg.Level = "error"
		logger, err := New(cfg)
		require.NoError(t, err)
		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"INFO", zapcore.InfoLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestBuildWriter_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.log")

	cfg := testConfig()
	cfg.Output = path
	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("wrote to file")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "wrote to file")
}

func TestBuildWriter_UnwritableFileFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.Output = "/nonexistent-dir/ledger.log"

	// Must not fail; falls back to stdout
	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Info("still alive")
}

func TestSync(t *testing.T) {
	logger, err := New(testConfig())
	require.NoError(t, err)

	// Sync on stdout may return an error on some platforms; it must not panic
	_ = Sync(logger)
}
