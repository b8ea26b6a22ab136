// Package config reads the service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the service.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// DatabaseURL selects the Postgres store; empty runs on the memory store.
	DatabaseURL string `envconfig:"DATABASE_URL"`
	RedisURL    string `envconfig:"REDIS_URL"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
	DevSeed   bool   `envconfig:"DEV_SEED" default:"false"`

	RateLimitPerMinute int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"600"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	NotifyChannel string `envconfig:"NOTIFY_CHANNEL" default:"hacc_transactions"`
	Currency      string `envconfig:"REPORT_CURRENCY" default:"USD"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.RedisURL = strings.TrimSpace(cfg.RedisURL)
	if cfg.RateLimitPerMinute < 0 {
		return nil, errors.New("config: RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if cfg.NotifyChannel == "" {
		return nil, errors.New("config: NOTIFY_CHANNEL must not be empty")
	}
	if len(cfg.Currency) != 3 {
		return nil, fmt.Errorf("config: REPORT_CURRENCY %q is not an ISO 4217 code", cfg.Currency)
	}
	cfg.Currency = strings.ToUpper(cfg.Currency)
	return &cfg, nil
}

// IsProduction returns true when the service runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// Level maps LogLevel to a slog level; unknown values mean info.
func (c *Config) Level() slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns the process logger: JSON unless LOG_FORMAT is text.
func (c *Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Level()}
	if strings.EqualFold(strings.TrimSpace(c.LogFormat), "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
