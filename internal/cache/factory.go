// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set.
	RedisURL string

	// Prefix is the key prefix for Redis.
	Prefix string

	DefaultTTL      time.Duration
	MaxSize         int // memory backend only, 0 = unlimited
	CleanupInterval time.Duration
}

// DefaultConfig returns the in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "ostore:",
		DefaultTTL:      5 * time.Minute,
		MaxSize:         1000,
		CleanupInterval: time.Minute,
	}
}

// New creates a Redis cache when cfg.RedisURL is set and an in-memory cache
// otherwise.
func New(cfg Config) (Cache, error) {
	if cfg.RedisURL != "" {
		c, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("cache backend initialized", "type", "redis", "prefix", cfg.Prefix)
		return c, nil
	}

	slog.Info("cache backend initialized", "type", "memory", "max_size", cfg.MaxSize)
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	}), nil
}
