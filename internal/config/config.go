// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DevFallbackSecret is used when OSTORE_SESSION_SECRET is unset in development.
// It is public and must never reach production.
const DevFallbackSecret = "dev_fallback_secret_do_not_deploy"

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	DevFallbackSecret,
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"OSTORE_DB_PATH" envDefault:"./data/ostore.db"`
	SessionSecret string `env:"OSTORE_SESSION_SECRET"`
	ServerHost    string `env:"OSTORE_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"OSTORE_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"OSTORE_ENV" envDefault:"development"`
	LogLevel      string `env:"OSTORE_LOG_LEVEL" envDefault:"info"`

	// Login rate limiting per client IP
	LoginRate  float64 `env:"OSTORE_LOGIN_RATE" envDefault:"0.5"` // requests per second
	LoginBurst int     `env:"OSTORE_LOGIN_BURST" envDefault:"5"`

	// Audit events older than this many days are purged nightly
	EventRetentionDays int `env:"OSTORE_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Cache configuration. An empty RedisURL selects the in-memory backend.
	RedisURL        string `env:"OSTORE_REDIS_URL"`
	CacheTTLSeconds int    `env:"OSTORE_CACHE_TTL" envDefault:"300"`

	// Seeding configuration
	DoSeed bool `env:"OSTORE_DO_SEED" envDefault:"false"` // Seed the demo product catalog
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// EventRetention returns the audit event retention period.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// CacheTTL returns the default cache entry lifetime.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// UsesFallbackSecret reports whether the insecure development secret is active.
func (c Config) UsesFallbackSecret() bool {
	return c.SessionSecret == DevFallbackSecret
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validateSecret(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateSecret applies the session secret policy. Development tolerates a
// missing secret by falling back to DevFallbackSecret; production does not.
func (c *Config) validateSecret() error {
	if c.SessionSecret == "" {
		if !c.IsDevelopment() {
			return fmt.Errorf("OSTORE_SESSION_SECRET is required outside development; " +
				"generate one with: openssl rand -base64 32")
		}
		c.SessionSecret = DevFallbackSecret
		slog.Warn("OSTORE_SESSION_SECRET not set, using insecure development fallback")
		return nil
	}

	if c.IsDevelopment() {
		return nil
	}

	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("OSTORE_SESSION_SECRET must be at least %d bytes long, got %d bytes",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("OSTORE_SESSION_SECRET is a known default value and must not be used")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("OSTORE_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return nil
}

// CSRFKey returns a 32-byte key derived from the session secret.
func (c Config) CSRFKey() []byte {
	key := make([]byte, MinSessionSecretLength)
	copy(key, c.SessionSecret)
	return key
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
