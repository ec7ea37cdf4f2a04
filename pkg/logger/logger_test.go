package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	appConfig "github.com/festy23/converge/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("creates logger from environment", func(t *testing.T) {
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("LOG_FORMAT")
		os.Unsetenv("LOG_OUTPUT")

		logger, err := New()
		require.NoError(t, err)
		assert.NotNil(t, logger)
		assert.True(t, logger.Desugar().Core().Enabled(zapcore.InfoLevel))
		assert.False(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))
	})
}

func TestNewWithConfig(t *testing.T) {
	tests := []struct {
		name         string
		cfg          appConfig.LoggerConfig
		enabledLevel zapcore.Level
		mutedLevel   zapcore.Level
	}{
		{
			name:         "production info",
			cfg:          appConfig.LoggerConfig{Level: "info", Format: "json", Output: "stdout"},
			enabledLevel: zapcore.InfoLevel,
			mutedLevel:   zapcore.DebugLevel,
		},
		{
			name:         "development debug",
			cfg:          appConfig.LoggerConfig{Level: "debug", Format: "console", Output: "stdout"},
			enabledLevel: zapcore.DebugLevel,
			mutedLevel:   zapcore.DebugLevel - 1,
		},
		{
			name:         "warn to stderr",
			cfg:          appConfig.LoggerConfig{Level: "warn", Format: "json", Output: "stderr"},
			enabledLevel: zapcore.WarnLevel,
			mutedLevel:   zapcore.InfoLevel,
		},
		{
			name:         "error level",
			cfg:          appConfig.LoggerConfig{Level: "error", Format: "json", Output: "stdout"},
			enabledLevel: zapcore.ErrorLevel,
			mutedLevel:   zapcore.WarnLevel,
		},
		{
			name:         "invalid level falls back to info",
			cfg:          appConfig.LoggerConfig{Level: "verbose", Format: "json", Output: "stdout"},
			enabledLevel: zapcore.InfoLevel,
			mutedLevel:   zapcore.DebugLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewWithConfig(tt.cfg)
			require.NoError(t, err)
			core := logger.Desugar().Core()
			assert.True(t, core.Enabled(tt.enabledLevel))
			assert.False(t, core.Enabled(tt.mutedLevel))
		})
	}
}

func TestNewWithConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "converge.log")

	logger, err := NewWithConfig(appConfig.LoggerConfig{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	logger.Infow("invite issued", "project_id", 1)
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "invite issued")
	assert.Contains(t, string(data), `"service":"converge"`)
}

func TestNewWithConfig_UnwritableOutput(t *testing.T) {
	_, err := NewWithConfig(appConfig.LoggerConfig{
		Level:  "info",
		Format: "json",
		Output: filepath.Join(t.TempDir(), "missing", "dir", "converge.log"),
	})
	assert.ErrorContains(t, err, "failed to build logger")
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Infow("discarded", "key", "value")
	})
}
