package config

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Contains(t, s.CorpusRoot, ".claude")
	assert.Equal(t, 500, s.CacheCapacity)
	assert.Equal(t, 10, s.DefaultLimit)
	assert.Equal(t, 50, s.MaxLimit)
	assert.Equal(t, 8, s.ProjectLimit)
	assert.Equal(t, 4, s.FileLimit)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("GOHISTORY_CACHE_CAPACITY", "100")
	t.Setenv("GOHISTORY_LOG_LEVEL", "debug")

	s, err := LoadSettings()
	require.NoError(t, err)

	assert.Equal(t, 100, s.CacheCapacity)
	assert.Equal(t, "debug", s.LogLevel)
}

func TestLoadSettings_InvalidCapacity(t *testing.T) {
	t.Setenv("GOHISTORY_CACHE_CAPACITY", "0")

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestLoadSettings_FlagOverride(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse([]string{"--cache-size", "64", "--log-level", "warn"}))

	s, err := LoadSettingsWithFlags(flags)
	require.NoError(t, err)

	assert.Equal(t, 64, s.CacheCapacity)
	assert.Equal(t, "warn", s.LogLevel)
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}
