// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the limiter map; it is reset when exceeded.
const maxTrackedClients = 10000

// limiterCache is a keyed set of token-bucket limiters with double-check locking.
type limiterCache[K comparable] struct {
	limiters map[K]*rate.Limiter
	mu       sync.RWMutex
	rate     rate.Limit
	burst    int
	maxSize  int
}

func newLimiterCache[K comparable](rps float64, burst, maxSize int) *limiterCache[K] {
	return &limiterCache[K]{
		limiters: make(map[K]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
		maxSize:  maxSize,
	}
}

// get returns the limiter for key, creating one if needed.
func (lc *limiterCache[K]) get(key K) *rate.Limiter {
	lc.mu.RLock()
	limiter, exists := lc.limiters[key]
	lc.mu.RUnlock()

	if exists {
		return limiter
	}

	lc.mu.Lock()
	defer lc.mu.Unlock()

	if limiter, exists = lc.limiters[key]; exists {
		return limiter
	}

	if len(lc.limiters) >= lc.maxSize {
		slog.Info("clearing login rate limiters", "size", len(lc.limiters))
		lc.limiters = make(map[K]*rate.Limiter)
	}

	limiter = rate.NewLimiter(lc.rate, lc.burst)
	lc.limiters[key] = limiter
	return limiter
}

func (lc *limiterCache[K]) size() int {
	lc.mu.RLock()
	defer lc.mu.RUnlock()
	return len(lc.limiters)
}

// LoginProtectionConfig holds configuration for login rate limiting.
type LoginProtectionConfig struct {
	// IPRateLimit is requests per second per IP (default: 0.5).
	IPRateLimit float64
	// IPBurst is the maximum burst per IP (default: 5).
	IPBurst int
}

// DefaultLoginProtectionConfig returns the defaults: one attempt every two
// seconds with a burst of five.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{IPRateLimit: 0.5, IPBurst: 5}
}

// LoginProtection throttles login submissions per client IP. Accounts are
// never locked.
type LoginProtection struct {
	ipLimiters *limiterCache[string]
}

// NewLoginProtection creates a LoginProtection, filling zero config values
// with the defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}

	return &LoginProtection{
		ipLimiters: newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst, maxTrackedClients),
	}
}

// CheckIPRateLimit reports whether a request from ip may proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ipLimiters.get(ip).Allow()
}

// Middleware rate limits POST requests by client IP with a 429 response.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			if !lp.CheckIPRateLimit(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts. Please wait and try again.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
