package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.edinet-fsa.go.jp/api/v2", cfg.Edinet.BaseURL)
	assert.Equal(t, "edinet-cli/1.0", cfg.Edinet.UserAgent)
	assert.Equal(t, 30, cfg.Edinet.TimeoutSecs)
	assert.Equal(t, float64(2), cfg.Edinet.RatePerSec)
	assert.Equal(t, []int{7, 30, 90}, cfg.Search.Windows)
	assert.Equal(t, 4, cfg.Search.Concurrency)
	assert.Equal(t, 8, cfg.Resolver.Workers)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EDINET_EDINET_API_KEY", "secret-key")
	t.Setenv("EDINET_STORE_DRIVER", "postgres")
	t.Setenv("EDINET_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret-key", cfg.Edinet.APIKey)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger_LevelsAndFormats(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "warn", Format: "json"}))

	err := InitLogger(LogConfig{Level: "nope", Format: "json"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse log level")
}
