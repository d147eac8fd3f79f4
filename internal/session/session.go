// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the SQLite-backed session manager and owns the
// session keys shared by the cart, the admin guard and the CSRF token.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Session keys.
const (
	KeyAdminLoggedIn = "admin_logged_in"
	KeyCSRFToken     = "_csrf_token"
	KeyCart          = "cart"
	KeyFlashes       = "flashes"
)

// New creates a session manager persisted in the sessions table of db.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.IdleTimeout = 2 * time.Hour
	sm.Cookie.Name = "ostore_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	// __Host- prefix pins the cookie to this origin over HTTPS.
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}
