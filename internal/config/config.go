// Package config handles server configuration loaded from environment
// variables. Отсутствие JWT секрета — фатальная ошибка старта, а не
// ошибка обработки запросов.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime settings for the stockroom server.
type Config struct {
	// Addr bind address for the HTTP server
	Addr string `env:"STOCKROOM_ADDR" envDefault:":8080"`
	// DatabasePath path to the SQLite database file
	DatabasePath string `env:"STOCKROOM_DB_PATH" envDefault:"stockroom.db"`
	// JWTSecret HMAC secret for signing tokens (HS256), required
	JWTSecret string `env:"STOCKROOM_JWT_SECRET"`
	// AccessTokenTTL lifetime of access tokens
	AccessTokenTTL time.Duration `env:"STOCKROOM_ACCESS_TTL" envDefault:"15m"`
	// RefreshTokenTTL lifetime of refresh tokens
	RefreshTokenTTL time.Duration `env:"STOCKROOM_REFRESH_TTL" envDefault:"168h"`
	// TokenSweepInterval how often expired refresh tokens are reclaimed
	TokenSweepInterval time.Duration `env:"STOCKROOM_TOKEN_SWEEP_INTERVAL" envDefault:"1h"`
	// LogLevel one of debug, info, warn, error
	LogLevel string `env:"STOCKROOM_LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate проверяет обязательные и осмысленные значения
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("STOCKROOM_JWT_SECRET is required")
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("access token TTL must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh token TTL must be positive")
	}
	if c.RefreshTokenTTL <= c.AccessTokenTTL {
		return fmt.Errorf("refresh token TTL must exceed access token TTL")
	}
	if c.TokenSweepInterval <= 0 {
		return fmt.Errorf("token sweep interval must be positive")
	}
	return nil
}

// SlogLevel переводит конфигурационный уровень в slog.Level.
// Неизвестные значения трактуются как info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
