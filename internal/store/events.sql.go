// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const createEvent = `INSERT INTO events (level, category, message, metadata, ip_address, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

// CreateEventParams holds the columns of a new event.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	IpAddress string
	CreatedAt time.Time
}

// CreateEvent inserts an event log entry.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	e := Event{
		Level:     arg.Level,
		Category:  arg.Category,
		Message:   arg.Message,
		Metadata:  arg.Metadata,
		IpAddress: arg.IpAddress,
		CreatedAt: arg.CreatedAt,
	}
	err := q.db.QueryRowContext(ctx, createEvent,
		arg.Level, arg.Category, arg.Message, arg.Metadata, arg.IpAddress, arg.CreatedAt,
	).Scan(&e.ID)
	return e, err
}

const listRecentEvents = `SELECT id, level, category, message, metadata, ip_address, created_at
FROM events ORDER BY created_at DESC, id DESC LIMIT ?`

// ListRecentEvents returns the newest events first.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.Metadata, &e.IpAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

const deleteOldEvents = `DELETE FROM events WHERE created_at < ?`

// DeleteOldEvents removes events created before cutoff.
func (q *Queries) DeleteOldEvents(ctx context.Context, cutoff time.Time) error {
	_, err := q.db.ExecContext(ctx, deleteOldEvents, cutoff)
	return err
}
