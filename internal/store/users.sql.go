// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"
	"time"
)

const createUser = `INSERT INTO users (username, password_hash)
VALUES (?, ?)
RETURNING id`

// CreateUserParams holds the columns of a new admin account.
type CreateUserParams struct {
	Username     string
	PasswordHash string
}

// CreateUser inserts an account. A duplicate username fails the UNIQUE
// constraint; see IsUniqueViolation.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	u := User{
		Username:     arg.Username,
		PasswordHash: arg.PasswordHash,
		CreatedAt:    time.Now(),
	}
	err := q.db.QueryRowContext(ctx, createUser, arg.Username, arg.PasswordHash).Scan(&u.ID)
	return u, err
}

const getUserByUsername = `SELECT id, username, password_hash, created_at FROM users WHERE username = ?`

// GetUserByUsername matches the username exactly (case-sensitive).
// Returns sql.ErrNoRows when absent.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByUsername, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const countUsersByUsername = `SELECT COUNT(*) FROM users WHERE username = ?`

// CountUsersByUsername returns how many accounts carry username.
func (q *Queries) CountUsersByUsername(ctx context.Context, username string) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countUsersByUsername, username).Scan(&n)
	return n, err
}

// IsUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
// Both the modernc and mattn drivers use the same message text.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
