// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for the admin guard, CSRF
// protection, security headers, login rate limiting and request metrics.
package middleware

import (
	"net"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/session"
)

// LoginPath is where anonymous visitors of admin pages are sent.
const LoginPath = "/admin/login"

// RequireAdmin redirects to the login page unless the session carries the
// admin flag. The wrapped handler does not run for anonymous requests.
func RequireAdmin(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !session.IsAdmin(r.Context(), sm) {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP stores the request's client address in the context for the
// event log. Run it after chi's RealIP.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := service.WithClientIP(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP returns the host part of RemoteAddr, which chi's RealIP has
// already replaced with the proxy-reported address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
