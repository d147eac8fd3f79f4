// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// DemoProducts is the starter catalog inserted by Seed.
var DemoProducts = []CreateProductParams{
	{Name: "Football", Price: 499, Category: "Outdoor", Image: "football.jpeg"},
	{Name: "Cricket Bat", Price: 1299, Category: "Outdoor", Image: "cricket_bat.jpeg"},
	{Name: "Tennis Racket", Price: 999, Category: "Indoor", Image: "tennis_racket.jpeg"},
	{Name: "Dumbbells", Price: 999, Category: "Fitness", Image: "dumbbells.jpeg"},
	{Name: "Yoga Mat", Price: 699, Category: "Fitness", Image: "yoga_mat.jpeg"},
}

// Seed inserts DemoProducts when doSeed is set and the catalog is empty.
func Seed(ctx context.Context, db *sql.DB, doSeed bool) error {
	if !doSeed {
		slog.Debug("seeding disabled, skipping")
		return nil
	}

	queries := New(db)

	count, err := queries.CountProducts(ctx)
	if err != nil {
		return fmt.Errorf("counting products: %w", err)
	}
	if count > 0 {
		slog.Info("catalog already populated, skipping seed", "products", count)
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	qtx := queries.WithTx(tx)
	for _, p := range DemoProducts {
		if _, err := qtx.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("seeding product %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}

	slog.Info("seeded demo catalog", "products", len(DemoProducts))
	return nil
}
