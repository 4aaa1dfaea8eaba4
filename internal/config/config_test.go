package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmishr/geo-dashboard/internal/models"
)

func setRequiredKeys(t *testing.T) {
	t.Helper()
	t.Setenv("TOMTOM_API_KEY", "tt-key")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredKeys(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.RateLimitRPS)
	assert.Equal(t, "tt-key", cfg.Providers.TomTomKey)
	assert.Equal(t, "ow-key", cfg.Providers.OpenWeatherKey)
	assert.Equal(t, 20*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Providers.RoutingTimeout)
	assert.Equal(t, "./data/geo-dashboard.db", cfg.DB.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("SERVER_HOST", "0.0.0.0")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Providers.Timeout)
	assert.Equal(t, ":memory:", cfg.DB.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MissingTomTomKey(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "")
	t.Setenv("OPENWEATHER_API_KEY", "ow-key")

	_, err := Load()
	var ce *models.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "TOMTOM_API_KEY", ce.Key)
}

func TestLoad_MissingOpenWeatherKey(t *testing.T) {
	t.Setenv("TOMTOM_API_KEY", "tt-key")
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := Load()
	var ce *models.ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "OPENWEATHER_API_KEY", ce.Key)
}

func TestLoad_InvalidPort(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("LOG_LEVEL", "verbose")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log format")
}

func TestLoad_MalformedIntFallsBack(t *testing.T) {
	setRequiredKeys(t)
	t.Setenv("SERVER_PORT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
