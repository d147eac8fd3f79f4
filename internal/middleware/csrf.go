// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"

	"filippo.io/csrf/gorilla"
	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ostore-go/internal/session"
)

// CSRFFieldName is the form field carrying the session CSRF token.
const CSRFFieldName = "csrf_token"

// CSRFConfig holds configuration for cross-origin request protection.
// filippo.io/csrf/gorilla checks Fetch metadata and Origin headers rather
// than cookies.
type CSRFConfig struct {
	// AuthKey is a 32-byte key, derived from the session secret.
	AuthKey []byte

	// ErrorHandler is called when validation fails. Defaults to a 403.
	ErrorHandler http.Handler

	// TrustedOrigins are host[:port] values allowed to post cross-origin.
	TrustedOrigins []string
}

// DefaultCSRFConfig returns a CSRFConfig that trusts localhost in development.
func DefaultCSRFConfig(authKey []byte, isDev bool) CSRFConfig {
	cfg := CSRFConfig{AuthKey: authKey}
	if isDev {
		cfg.TrustedOrigins = []string{"localhost:8080", "127.0.0.1:8080"}
	}
	return cfg
}

// CSRF rejects cross-origin state-changing requests.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	errorHandler := cfg.ErrorHandler
	if errorHandler == nil {
		errorHandler = http.HandlerFunc(csrfErrorHandler)
	}

	opts := []csrf.Option{csrf.ErrorHandler(errorHandler)}
	if len(cfg.TrustedOrigins) > 0 {
		opts = append(opts, csrf.TrustedOrigins(cfg.TrustedOrigins))
	}

	return csrf.Protect(cfg.AuthKey, opts...)
}

// CSRFFailureReason returns why the cross-origin check rejected r, or "unknown".
func CSRFFailureReason(r *http.Request) string {
	if reason := csrf.FailureReason(r); reason != nil {
		return reason.Error()
	}
	return "unknown"
}

func csrfErrorHandler(w http.ResponseWriter, r *http.Request) {
	slog.Warn("CSRF validation failed",
		"reason", CSRFFailureReason(r),
		"method", r.Method,
		"path", r.URL.Path,
		"origin", r.Header.Get("Origin"),
		"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
	)
	http.Error(w, "Forbidden - CSRF validation failed", http.StatusForbidden)
}

// RequireCSRFToken checks the csrf_token form field of unsafe requests
// against the session token. On mismatch onFail answers the request and the
// wrapped handler never runs.
func RequireCSRFToken(sm *scs.SessionManager, onFail http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if !session.VerifyCSRF(r.Context(), sm, r.PostFormValue(CSRFFieldName)) {
				slog.Warn("CSRF token mismatch", "method", r.Method, "path", r.URL.Path)
				onFail.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
