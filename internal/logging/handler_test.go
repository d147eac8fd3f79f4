// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/store"
)

// testDB creates a temporary test database with migrations applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "logging-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func recentEvents(t *testing.T, db *sql.DB) []store.Event {
	t.Helper()
	events, err := store.New(db).ListRecentEvents(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecentEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_Levels(t *testing.T) {
	tests := []struct {
		name      string
		log       func(*slog.Logger)
		wantLevel string
	}{
		{"error", func(l *slog.Logger) { l.Error("database connection failed", "host", "localhost") }, service.EventLevelError},
		{"warn", func(l *slog.Logger) { l.Warn("slow query detected", "duration_ms", 5000) }, service.EventLevelWarning},
		{"info", func(l *slog.Logger) { l.Info("server started", "port", 8080) }, ""},
		{"debug", func(l *slog.Logger) { l.Debug("processing request") }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testDB(t)
			tt.log(slog.New(NewEventLogHandler(discardHandler{}, db)))

			events := recentEvents(t, db)
			if tt.wantLevel == "" {
				if len(events) != 0 {
					t.Errorf("expected no events, got %d", len(events))
				}
				return
			}
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if events[0].Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", events[0].Level, tt.wantLevel)
			}
		})
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelInfo))

	logger.Info("server started", "port", 8080)

	if events := recentEvents(t, db); len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
}

func TestEventLogHandler_CategoryAndMetadata(t *testing.T) {
	db := testDB(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db)).With("component", "admin")

	ctx := service.WithClientIP(context.Background(), "203.0.113.9")
	logger.WarnContext(ctx, "something odd", "category", service.EventCategoryProduct, "id", 7, "note", `quote " and \ slash`)

	events := recentEvents(t, db)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Category != service.EventCategoryProduct {
		t.Errorf("Category = %q, want %q", e.Category, service.EventCategoryProduct)
	}
	if e.IpAddress != "203.0.113.9" {
		t.Errorf("IpAddress = %q, want 203.0.113.9", e.IpAddress)
	}

	var meta map[string]string
	if err := json.Unmarshal([]byte(e.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not valid JSON: %v (%s)", err, e.Metadata)
	}
	want := map[string]string{"component": "admin", "id": "7", "note": `quote " and \ slash`}
	for k, v := range want {
		if meta[k] != v {
			t.Errorf("metadata[%q] = %q, want %q", k, meta[k], v)
		}
	}
	if _, ok := meta["category"]; ok {
		t.Error("category should not be duplicated in metadata")
	}
}

func TestInferCategory(t *testing.T) {
	tests := map[string]string{
		"Login failed":              service.EventCategoryAuth,
		"invalid CSRF token":        service.EventCategoryAuth,
		"failed to update product":  service.EventCategoryProduct,
		"cart view failed":          service.EventCategoryProduct,
		"database connection reset": service.EventCategorySystem,
	}
	for msg, want := range tests {
		if got := inferCategory(msg); got != want {
			t.Errorf("inferCategory(%q) = %q, want %q", msg, got, want)
		}
	}
}
