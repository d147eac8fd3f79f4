// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/ostore-go/internal/cache"
	"github.com/olegiv/ostore-go/internal/store"
	"github.com/olegiv/ostore-go/internal/util"
)

// ProductInput is the raw admin form submission.
type ProductInput struct {
	Name     string `validate:"required"`
	Price    string `validate:"required"`
	Category string `validate:"required"`
	Image    string `validate:"required"`
}

// ProductFields is validated, normalised product data.
type ProductFields struct {
	Name     string
	Price    float64
	Category string
	Image    string
}

// ProductService performs validated product writes for the admin panel.
type ProductService struct {
	db       *sql.DB
	queries  *store.Queries
	events   *EventService
	validate *validator.Validate
	cache    cache.Cache // optional, see WithCache
}

// NewProductService creates a new ProductService. events may be nil.
func NewProductService(db *sql.DB, events *EventService) *ProductService {
	return &ProductService{
		db:       db,
		queries:  store.New(db),
		events:   events,
		validate: validator.New(),
	}
}

// WithCache makes every successful write drop the cached category list.
func (s *ProductService) WithCache(c cache.Cache) *ProductService {
	s.cache = c
	return s
}

// ValidateProductInput trims and checks in. Text containing HTML markup is
// rejected, not rewritten. With requireImage false an empty image is
// accepted and left empty in the result.
// Failures return a *ValidationError carrying the user-facing message.
func (s *ProductService) ValidateProductInput(in ProductInput, requireImage bool) (ProductFields, error) {
	in = ProductInput{
		Name:     util.CleanText(in.Name),
		Price:    strings.TrimSpace(in.Price),
		Category: util.CleanText(in.Category),
		Image:    util.CleanText(in.Image),
	}

	var err error
	if requireImage {
		err = s.validate.Struct(in)
	} else {
		err = s.validate.StructExcept(in, "Image")
	}
	if err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return ProductFields{}, &ValidationError{Field: verrs[0].Field(), Message: MsgFieldsRequired}
		}
		return ProductFields{}, fmt.Errorf("validating product: %w", err)
	}

	for _, field := range []struct{ name, value string }{
		{"Name", in.Name}, {"Category", in.Category}, {"Image", in.Image},
	} {
		if util.ContainsMarkup(field.value) {
			return ProductFields{}, &ValidationError{Field: field.name, Message: MsgMarkupInField}
		}
	}

	price, err := parsePrice(in.Price)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return ProductFields{}, &ValidationError{Field: "Price", Message: MsgPriceNotNumber}
	}
	if price <= 0 {
		return ProductFields{}, &ValidationError{Field: "Price", Message: MsgPriceNotAbove0}
	}

	if in.Image != "" && !util.IsAllowedImage(in.Image) {
		return ProductFields{}, &ValidationError{Field: "Image", Message: MsgInvalidImage}
	}

	return ProductFields{
		Name:     in.Name,
		Price:    price,
		Category: in.Category,
		Image:    in.Image,
	}, nil
}

// parsePrice parses a decimal price. Hexadecimal floats are rejected.
func parsePrice(s string) (float64, error) {
	digits := strings.TrimLeft(s, "+-")
	if len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(s, 64)
}

// Create validates in and inserts a new product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (store.Product, error) {
	f, err := s.ValidateProductInput(in, true)
	if err != nil {
		return store.Product{}, err
	}

	p, err := s.queries.CreateProduct(ctx, store.CreateProductParams{
		Name:     f.Name,
		Price:    f.Price,
		Category: f.Category,
		Image:    f.Image,
	})
	if err != nil {
		return store.Product{}, fmt.Errorf("creating product: %w", err)
	}

	s.invalidateCategories(ctx)
	s.logEvent(ctx, "Product created", p)
	return p, nil
}

// Update replaces the product's fields. An empty image keeps the stored one.
// Concurrent updates are not reconciled; the last write wins.
func (s *ProductService) Update(ctx context.Context, id int64, in ProductInput) (store.Product, error) {
	f, err := s.ValidateProductInput(in, false)
	if err != nil {
		return store.Product{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Product{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := s.queries.WithTx(tx)

	if f.Image == "" {
		f.Image, err = q.GetProductImage(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return store.Product{}, ErrProductNotFound
		}
		if err != nil {
			return store.Product{}, fmt.Errorf("reading stored image: %w", err)
		}
	}

	p := store.Product{ID: id, Name: f.Name, Price: f.Price, Category: f.Category, Image: f.Image}
	n, err := q.UpdateProduct(ctx, store.UpdateProductParams{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Image:    p.Image,
	})
	if err != nil {
		return store.Product{}, fmt.Errorf("updating product %d: %w", id, err)
	}
	if n == 0 {
		return store.Product{}, ErrProductNotFound
	}

	if err := tx.Commit(); err != nil {
		return store.Product{}, fmt.Errorf("committing update: %w", err)
	}

	s.invalidateCategories(ctx)
	s.logEvent(ctx, "Product updated", p)
	return p, nil
}

// Delete removes the product. A missing id is not an error.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.queries.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	s.invalidateCategories(ctx)
	s.logEvent(ctx, "Product deleted", store.Product{ID: id})
	return nil
}

func (s *ProductService) invalidateCategories(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, CategoriesCacheKey); err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		slog.Warn("cache invalidation failed", "key", CategoriesCacheKey, "error", err)
	}
}

func (s *ProductService) logEvent(ctx context.Context, message string, p store.Product) {
	if s.events == nil {
		return
	}
	meta := map[string]any{"product_id": p.ID}
	if p.Name != "" {
		meta["name"] = p.Name
	}
	_ = s.events.LogProductEvent(ctx, EventLevelInfo, message, meta)
}
