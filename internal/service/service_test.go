// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/ostore-go/internal/store"
)

// testDB creates a migrated SQLite database in a temp directory.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "service-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// seedProducts inserts the given products and returns them with their ids.
func seedProducts(t *testing.T, db *sql.DB, products ...store.Product) []store.Product {
	t.Helper()

	q := store.New(db)
	out := make([]store.Product, 0, len(products))
	for _, p := range products {
		created, err := q.CreateProduct(t.Context(), store.CreateProductParams{
			Name: p.Name, Price: p.Price, Category: p.Category, Image: p.Image,
		})
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}
