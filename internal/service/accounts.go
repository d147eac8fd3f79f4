// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/ostore-go/internal/auth"
	"github.com/olegiv/ostore-go/internal/store"
)

// AccountService registers and authenticates admin accounts.
type AccountService struct {
	queries *store.Queries
	events  *EventService
}

// NewAccountService creates a new AccountService. events may be nil.
func NewAccountService(db *sql.DB, events *EventService) *AccountService {
	return &AccountService{queries: store.New(db), events: events}
}

func normalizeCredentials(username, password string) (string, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", "", ErrCredentialsRequired
	}
	return username, password, nil
}

// Register creates an account. Usernames are case-sensitive and unique.
func (s *AccountService) Register(ctx context.Context, username, password string) (store.User, error) {
	username, password, err := normalizeCredentials(username, password)
	if err != nil {
		return store.User{}, err
	}

	n, err := s.queries.CountUsersByUsername(ctx, username)
	if err != nil {
		return store.User{}, fmt.Errorf("checking username: %w", err)
	}
	if n > 0 {
		return store.User{}, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return store.User{}, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.queries.CreateUser(ctx, store.CreateUserParams{Username: username, PasswordHash: hash})
	if store.IsUniqueViolation(err) {
		// Lost a race with a concurrent registration.
		return store.User{}, ErrUsernameTaken
	}
	if err != nil {
		return store.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.logEvent(ctx, EventLevelInfo, "Account registered", username)
	return u, nil
}

// Authenticate checks the credentials. Unknown usernames and wrong passwords
// both yield ErrInvalidCredentials and cost one hash verification each.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (store.User, error) {
	username, password, err := normalizeCredentials(username, password)
	if err != nil {
		return store.User{}, err
	}

	u, err := s.queries.GetUserByUsername(ctx, username)
	if errors.Is(err, sql.ErrNoRows) {
		_, _ = auth.CheckPassword(password, auth.DummyHash())
		s.logEvent(ctx, EventLevelWarning, "Login failed", username)
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil {
		return store.User{}, fmt.Errorf("verifying password for %q: %w", username, err)
	}
	if !ok {
		s.logEvent(ctx, EventLevelWarning, "Login failed", username)
		return store.User{}, ErrInvalidCredentials
	}

	s.logEvent(ctx, EventLevelInfo, "Login succeeded", username)
	return u, nil
}

func (s *AccountService) logEvent(ctx context.Context, level, message, username string) {
	if s.events == nil {
		return
	}
	_ = s.events.LogAuthEvent(ctx, level, message, map[string]any{"username": username})
}
