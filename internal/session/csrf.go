// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/alexedwards/scs/v2"
)

// csrfTokenBytes is the amount of randomness in a token (32 hex chars).
const csrfTokenBytes = 16

// CSRFToken returns the session's anti-forgery token, creating it on first use.
// The token stays stable for the lifetime of the session.
func CSRFToken(ctx context.Context, sm *scs.SessionManager) (string, error) {
	if token := sm.GetString(ctx, KeyCSRFToken); token != "" {
		return token, nil
	}

	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating csrf token: %w", err)
	}

	token := hex.EncodeToString(b)
	sm.Put(ctx, KeyCSRFToken, token)
	return token, nil
}

// VerifyCSRF reports whether submitted matches the session token.
// An empty submitted value or a session without a token never matches.
func VerifyCSRF(ctx context.Context, sm *scs.SessionManager, submitted string) bool {
	expected := sm.GetString(ctx, KeyCSRFToken)
	if expected == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(submitted)) == 1
}

// IsAdmin reports whether the session belongs to a logged-in admin.
func IsAdmin(ctx context.Context, sm *scs.SessionManager) bool {
	return sm.GetBool(ctx, KeyAdminLoggedIn)
}
