// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "time"

// Product is a catalog row.
type Product struct {
	ID       int64
	Name     string
	Price    float64
	Category string
	Image    string
}

// User is an admin account.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Event is an audit log entry.
type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string // JSON object
	IpAddress string
	CreatedAt time.Time
}
