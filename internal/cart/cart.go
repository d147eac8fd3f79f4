// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cart keeps a visitor's shopping cart in the session as a mapping of
// product name to quantity. Carts written by older releases as a flat list of
// names are upgraded on first read.
package cart

import (
	"context"
	"encoding/gob"
	"fmt"
	"math"
	"sort"

	"github.com/olegiv/ostore-go/internal/session"
	"github.com/olegiv/ostore-go/internal/store"
)

// Quantities maps a product name to a positive quantity.
type Quantities map[string]int

func init() {
	// Session values are gob-encoded; both cart encodings must be registered
	// so existing sessions keep decoding.
	gob.Register(Quantities{})
	gob.Register([]string{})
}

// Store is the subset of *scs.SessionManager used by the cart.
type Store interface {
	Get(ctx context.Context, key string) any
	Put(ctx context.Context, key string, val any)
}

// Catalog lists the products a cart is priced against.
type Catalog interface {
	ListProducts(ctx context.Context) ([]store.Product, error)
}

// Line is one priced cart row.
type Line struct {
	Product  store.Product
	Quantity int
	Subtotal float64
}

// View is a cart joined against the current catalog.
type View struct {
	Lines []Line
	Total float64
}

// Manager reads and mutates the cart held in a session.
type Manager struct {
	sessions Store
}

// NewManager creates a cart manager backed by the given session store.
func NewManager(sessions Store) *Manager {
	return &Manager{sessions: sessions}
}

// Decode interprets a stored session value. Canonical mappings are copied
// with non-positive quantities dropped; legacy name lists are counted and
// reported as migrated. Any other value is an empty cart.
func Decode(v any) (q Quantities, migrated bool) {
	q = Quantities{}

	switch c := v.(type) {
	case nil:
	case Quantities:
		for name, n := range c {
			q.set(name, n)
		}
	case map[string]int:
		for name, n := range c {
			q.set(name, n)
		}
	case map[string]any:
		for name, raw := range c {
			if n, ok := toInt(raw); ok {
				q.set(name, n)
			}
		}
	case []string:
		for _, name := range c {
			q[name]++
		}
		migrated = true
	case []any:
		for _, raw := range c {
			if name, ok := raw.(string); ok {
				q[name]++
			}
		}
		migrated = true
	}

	return q, migrated
}

func (q Quantities) set(name string, n int) {
	if n > 0 {
		q[name] = n
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// Load returns the current cart, writing the canonical form back to the
// session when a legacy representation was found.
func (m *Manager) Load(ctx context.Context) Quantities {
	q, migrated := Decode(m.sessions.Get(ctx, session.KeyCart))
	if migrated {
		m.save(ctx, q)
	}
	return q
}

func (m *Manager) save(ctx context.Context, q Quantities) {
	m.sessions.Put(ctx, session.KeyCart, q)
}

// Add increments the quantity for name, starting at one.
// The name is not checked against the catalog.
func (m *Manager) Add(ctx context.Context, name string) Quantities {
	q := m.Load(ctx)
	q[name]++
	m.save(ctx, q)
	return q
}

// Remove drops the whole line for name. Removing an absent name is a no-op.
func (m *Manager) Remove(ctx context.Context, name string) Quantities {
	q := m.Load(ctx)
	if _, ok := q[name]; ok {
		delete(q, name)
		m.save(ctx, q)
	}
	return q
}

// Count returns the total number of units in the cart.
func (m *Manager) Count(ctx context.Context) int {
	total := 0
	for _, n := range m.Load(ctx) {
		total += n
	}
	return total
}

// View prices the cart at current catalog prices. Entries whose product no
// longer exists are skipped. A name shared by several products yields one
// line per product.
func (m *Manager) View(ctx context.Context, catalog Catalog) (View, error) {
	q := m.Load(ctx)
	if len(q) == 0 {
		return View{}, nil
	}

	products, err := catalog.ListProducts(ctx)
	if err != nil {
		return View{}, fmt.Errorf("listing products: %w", err)
	}

	names := make([]string, 0, len(q))
	for name := range q {
		names = append(names, name)
	}
	sort.Strings(names)

	var v View
	for _, name := range names {
		qty := q[name]
		for _, p := range products {
			if p.Name != name {
				continue
			}
			line := Line{Product: p, Quantity: qty, Subtotal: float64(qty) * p.Price}
			v.Lines = append(v.Lines, line)
			v.Total += line.Subtotal
		}
	}

	return v, nil
}
