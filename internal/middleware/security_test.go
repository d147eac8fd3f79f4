// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS bool
	}{
		{"production mode enables HSTS", false, true},
		{"development mode disables HSTS", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			handler := SecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev))(okHandler(&called))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			if hsts := rec.Header().Get("Strict-Transport-Security"); (hsts != "") != tt.wantHSTS {
				t.Errorf("HSTS = %q, want present=%v", hsts, tt.wantHSTS)
			}
			csp := rec.Header().Get("Content-Security-Policy")
			if !strings.Contains(csp, "default-src 'self'") || !strings.Contains(csp, "form-action 'self'") {
				t.Errorf("unexpected CSP: %q", csp)
			}
			if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
				t.Error("expected X-Content-Type-Options: nosniff")
			}
			if rec.Header().Get("X-Frame-Options") != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", rec.Header().Get("X-Frame-Options"))
			}
		})
	}
}

func TestSecurityHeaders_ExcludedPath(t *testing.T) {
	var called bool
	handler := SecurityHeaders(DefaultSecurityHeadersConfig(false))(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !called {
		t.Fatal("handler should run")
	}
	if rec.Header().Get("Content-Security-Policy") != "" {
		t.Error("excluded path should not get a CSP header")
	}
}
