// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service holds the storefront's business logic: catalog queries,
// product administration, admin accounts and the audit event log.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/olegiv/ostore-go/internal/store"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories.
const (
	EventCategoryAuth    = "auth"
	EventCategoryProduct = "product"
	EventCategorySystem  = "system"
)

type clientIPKey struct{}

// WithClientIP attaches the requesting client's address to ctx so events
// logged further down record it.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// ClientIP returns the address stored by WithClientIP, or "".
func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

// EventService writes and reads the audit event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{
		queries: store.New(db),
	}
}

// LogEvent creates a new event log entry.
func (s *EventService) LogEvent(ctx context.Context, level, category, message string, metadata map[string]any) error {
	metadataJSON := "{}"
	if metadata != nil {
		if b, err := json.Marshal(metadata); err == nil {
			metadataJSON = string(b)
		}
	}

	_, err := s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:     level,
		Category:  category,
		Message:   message,
		Metadata:  metadataJSON,
		IpAddress: ClientIP(ctx),
		CreatedAt: time.Now(),
	})
	if err != nil {
		// Info level: WARN+ records are themselves written to the events table.
		slog.Info("failed to log event", "error", err, "category", category)
		return err
	}

	return nil
}

// LogProductEvent logs a product administration event.
func (s *EventService) LogProductEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, EventCategoryProduct, message, metadata)
}

// LogAuthEvent logs an authentication-related event.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, metadata map[string]any) error {
	return s.LogEvent(ctx, level, EventCategoryAuth, message, metadata)
}

// Recent returns the newest events, newest first.
func (s *EventService) Recent(ctx context.Context, limit int) ([]store.Event, error) {
	return s.queries.ListRecentEvents(ctx, int64(limit))
}

// DeleteOldEvents removes events older than the specified duration.
func (s *EventService) DeleteOldEvents(ctx context.Context, olderThan time.Duration) error {
	return s.queries.DeleteOldEvents(ctx, time.Now().Add(-olderThan))
}
