package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/nmishr/geo-dashboard/internal/models"
)

type Config struct {
	Server    ServerConfig
	Providers ProvidersConfig
	DB        DatabaseConfig
	Logging   LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	RateLimitRPS int
}

type ProvidersConfig struct {
	TomTomKey      string
	OpenWeatherKey string
	Timeout        time.Duration
	RoutingTimeout time.Duration
}

type DatabaseConfig struct {
	Path string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables. Missing provider
// credentials fail here, before any network call is attempted.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "localhost"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 5),
		},
		Providers: ProvidersConfig{
			TomTomKey:      getEnv("TOMTOM_API_KEY", ""),
			OpenWeatherKey: getEnv("OPENWEATHER_API_KEY", ""),
			Timeout:        getEnvDuration("PROVIDER_TIMEOUT", 20*time.Second),
			RoutingTimeout: getEnvDuration("ROUTING_TIMEOUT", 30*time.Second),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/geo-dashboard.db"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Providers.TomTomKey == "" {
		return &models.ConfigError{Key: "TOMTOM_API_KEY"}
	}
	if c.Providers.OpenWeatherKey == "" {
		return &models.ConfigError{Key: "OPENWEATHER_API_KEY"}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.RateLimitRPS < 1 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimitRPS)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if c.Providers.RoutingTimeout <= 0 {
		return fmt.Errorf("routing timeout must be positive")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
