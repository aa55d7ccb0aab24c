// Package config loads application configuration. Precedence is
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the server.
type Config struct {
	Env          string    `yaml:"env"`
	Port         string    `yaml:"port"`
	DatabasePath string    `yaml:"database_path"`
	JWTSecret    string    `yaml:"jwt_secret"`
	BcryptCost   int       `yaml:"bcrypt_cost"`
	RateLimit    RateLimit `yaml:"rate_limit"`
}

// RateLimit configures the login rate limiter.
type RateLimit struct {
	MaxAttempts int           `yaml:"max_attempts"`
	Window      time.Duration `yaml:"window"`
}

// Load builds the configuration. If path is non-empty the YAML file at
// that location is applied over the defaults before the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Env:          "development",
		Port:         "8080",
		DatabasePath: "daybook.db",
		BcryptCost:   12,
		RateLimit: RateLimit{
			MaxAttempts: 5,
			Window:      15 * time.Minute,
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.Env = envOrDefault("ENV", cfg.Env)
	cfg.Port = envOrDefault("PORT", cfg.Port)
	cfg.DatabasePath = envOrDefault("DATABASE_PATH", cfg.DatabasePath)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
		}
		cfg.BcryptCost = parsed
	}
	if v := os.Getenv("RATE_LIMIT_MAX_ATTEMPTS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_MAX_ATTEMPTS: %w", err)
		}
		cfg.RateLimit.MaxAttempts = parsed
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
		}
		cfg.RateLimit.Window = parsed
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost must be between 4 and 14, got %d", c.BcryptCost)
	}
	if c.RateLimit.MaxAttempts < 1 {
		return fmt.Errorf("rate limit max attempts must be positive, got %d", c.RateLimit.MaxAttempts)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	return nil
}

// CookieSecure reports whether cookies should carry the Secure attribute,
// mirroring the production/non-production environment switch.
func (c *Config) CookieSecure() bool {
	return c.Env == "production"
}

func envOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
