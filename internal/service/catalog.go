// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olegiv/ostore-go/internal/cache"
	"github.com/olegiv/ostore-go/internal/store"
)

// CategoriesCacheKey holds the cached category list.
const CategoriesCacheKey = "catalog:categories"

// Filter narrows a catalog listing. Empty fields do not filter.
type Filter struct {
	Query    string // case-insensitive substring of the product name
	Category string // exact category
}

// CatalogService answers read-only product queries.
type CatalogService struct {
	queries    *store.Queries
	categories *cache.TypedCache[[]string] // nil = uncached
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(db *sql.DB) *CatalogService {
	return &CatalogService{queries: store.New(db)}
}

// WithCache serves Categories from c. Product writes must invalidate
// CategoriesCacheKey in the same cache, see ProductService.WithCache.
func (s *CatalogService) WithCache(c cache.Cache, ttl time.Duration) *CatalogService {
	s.categories = cache.NewTypedCache[[]string](c, ttl)
	return s
}

// Search returns products matching f in storage order. Both filter fields
// are trimmed first; LIKE wildcards in the query match literally.
func (s *CatalogService) Search(ctx context.Context, f Filter) ([]store.Product, error) {
	products, err := s.queries.SearchProducts(ctx, store.SearchProductsParams{
		Query:    strings.TrimSpace(f.Query),
		Category: strings.TrimSpace(f.Category),
	})
	if err != nil {
		return nil, fmt.Errorf("searching products: %w", err)
	}
	return products, nil
}

// ListProducts returns the whole catalog in storage order.
func (s *CatalogService) ListProducts(ctx context.Context) ([]store.Product, error) {
	products, err := s.queries.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// Get returns one product or ErrProductNotFound.
func (s *CatalogService) Get(ctx context.Context, id int64) (store.Product, error) {
	p, err := s.queries.GetProductByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Product{}, ErrProductNotFound
	}
	if err != nil {
		return store.Product{}, fmt.Errorf("getting product %d: %w", id, err)
	}
	return p, nil
}

// Categories returns the distinct categories, sorted.
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	if s.categories != nil {
		return s.categories.GetOrLoad(ctx, CategoriesCacheKey, s.loadCategories)
	}
	return s.loadCategories(ctx)
}

func (s *CatalogService) loadCategories(ctx context.Context) ([]string, error) {
	cats, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return cats, nil
}

// CountProducts returns the catalog size.
func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	n, err := s.queries.CountProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting products: %w", err)
	}
	return n, nil
}
