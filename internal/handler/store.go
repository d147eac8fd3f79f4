// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/store"
)

// StoreHandler serves the public storefront pages.
type StoreHandler struct {
	renderer *render.Renderer
	catalog  *service.CatalogService
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(renderer *render.Renderer, catalog *service.CatalogService) *StoreHandler {
	return &StoreHandler{renderer: renderer, catalog: catalog}
}

// ProductsData is the template data for the catalog page.
type ProductsData struct {
	Products   []store.Product
	Categories []string
	Query      string
	Category   string
}

// Home handles GET /.
func (h *StoreHandler) Home(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "index", render.TemplateData{Title: "Home"})
}

// Products handles GET /products with the optional q and category filters.
func (h *StoreHandler) Products(w http.ResponseWriter, r *http.Request) {
	filter := service.Filter{
		Query:    r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := h.catalog.Search(r.Context(), filter)
	if err != nil {
		logAndInternalError(w, "failed to search products", "error", err, "query", filter.Query)
		return
	}

	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list categories", "error", err)
		return
	}

	renderPage(w, r, h.renderer, "products", render.TemplateData{
		Title: "Products",
		Data: ProductsData{
			Products:   products,
			Categories: categories,
			Query:      filter.Query,
			Category:   filter.Category,
		},
	})
}

// Contact handles GET /contact.
func (h *StoreHandler) Contact(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "contact", render.TemplateData{
		Title: "Contact",
		Data:  h.renderer.Content("contact"),
	})
}
