// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/olegiv/ostore-go/internal/middleware"
)

// Job names.
const (
	JobPurgeEvents   = "purge_events"
	JobCatalogGauges = "catalog_gauges"
)

// EventPurger deletes audit events older than a cutoff age.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) error
}

// CatalogCounter reports the current catalog size.
type CatalogCounter interface {
	CountProducts(ctx context.Context) (int64, error)
}

// RegisterMaintenance adds the storefront's standard jobs: a nightly purge of
// events older than retention and a catalog size gauge refreshed every
// five minutes. With nil metrics the gauge job is skipped.
func RegisterMaintenance(s *Scheduler, events EventPurger, retention time.Duration, catalog CatalogCounter, metrics *middleware.Metrics) error {
	err := s.Add(JobPurgeEvents, "0 3 * * *", func(ctx context.Context) error {
		if err := events.DeleteOldEvents(ctx, retention); err != nil {
			return fmt.Errorf("purging events: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if metrics == nil {
		return nil
	}

	return s.Add(JobCatalogGauges, "*/5 * * * *", func(ctx context.Context) error {
		n, err := catalog.CountProducts(ctx)
		if err != nil {
			return fmt.Errorf("counting products: %w", err)
		}
		metrics.SetCatalogSize(n)
		return nil
	})
}
