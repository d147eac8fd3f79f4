// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ostore-go/internal/cart"
	"github.com/olegiv/ostore-go/internal/middleware"
	"github.com/olegiv/ostore-go/internal/render"
)

// CartHandler serves the session cart.
type CartHandler struct {
	renderer *render.Renderer
	cart     *cart.Manager
	catalog  cart.Catalog
	metrics  *middleware.Metrics
}

// NewCartHandler creates a new CartHandler. metrics may be nil.
func NewCartHandler(renderer *render.Renderer, cm *cart.Manager, catalog cart.Catalog, metrics *middleware.Metrics) *CartHandler {
	return &CartHandler{
		renderer: renderer,
		cart:     cm,
		catalog:  catalog,
		metrics:  metrics,
	}
}

// Add handles GET /add_to_cart/{name}. The name is not checked against the
// catalog; unknown names are skipped when the cart is shown.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	h.cart.Add(r.Context(), productNameParam(r))
	h.metrics.CountCart("add")
	http.Redirect(w, r, redirectProducts, http.StatusSeeOther)
}

// Remove handles GET /remove_from_cart/{name}.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	h.cart.Remove(r.Context(), productNameParam(r))
	h.metrics.CountCart("remove")
	http.Redirect(w, r, redirectCart, http.StatusSeeOther)
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.cart.View(r.Context(), h.catalog)
	if err != nil {
		logAndInternalError(w, "failed to build cart view", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "cart", render.TemplateData{
		Title: "Cart",
		Data:  view,
	})
}

// productNameParam returns the decoded {name} parameter. chi matches on the
// raw path when the request carries escaped slashes, leaving the value escaped.
func productNameParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
