// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/olegiv/ostore-go/internal/middleware"
	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/store"
)

// AdminHandler serves the product administration panel. Every route is
// mounted behind middleware.RequireAdmin; the POST routes also sit behind
// middleware.RequireCSRFToken.
type AdminHandler struct {
	renderer *render.Renderer
	catalog  *service.CatalogService
	products *service.ProductService
	events   *service.EventService
	metrics  *middleware.Metrics
}

// NewAdminHandler creates a new AdminHandler. metrics may be nil.
func NewAdminHandler(
	renderer *render.Renderer,
	catalog *service.CatalogService,
	products *service.ProductService,
	events *service.EventService,
	metrics *middleware.Metrics,
) *AdminHandler {
	return &AdminHandler{
		renderer: renderer,
		catalog:  catalog,
		products: products,
		events:   events,
		metrics:  metrics,
	}
}

// DashboardData is the template data for the admin dashboard.
type DashboardData struct {
	Products []store.Product
	Events   []store.Event
}

// EditData is the template data for the product edit form.
type EditData struct {
	Product store.Product
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		logAndInternalError(w, "failed to list products", "error", err)
		return
	}

	events, err := h.events.Recent(r.Context(), recentEventsLimit)
	if err != nil {
		// The product table is still useful without the audit trail.
		slog.Error("failed to list recent events", "error", err)
	}

	renderPage(w, r, h.renderer, "admin", render.TemplateData{
		Title: "Admin",
		Data: DashboardData{
			Products: products,
			Events:   events,
		},
	})
}

// Add handles POST /admin/add.
func (h *AdminHandler) Add(w http.ResponseWriter, r *http.Request) {
	_, err := h.products.Create(r.Context(), productInput(r))
	if h.handleWriteError(w, r, err, "create") {
		return
	}

	h.metrics.CountProductChange("create")
	flashAndRedirect(w, r, h.renderer, redirectAdmin, MsgProductAdded, render.FlashSuccess)
}

// Delete handles GET /admin/delete/{id}. Unknown ids are not an error.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		logAndInternalError(w, "failed to delete product", "error", err, "product_id", id)
		return
	}

	h.metrics.CountProductChange("delete")
	flashAndRedirect(w, r, h.renderer, redirectAdmin, MsgProductDeleted, render.FlashWarning)
}

// Edit handles GET /admin/edit/{id}.
func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if errors.Is(err, service.ErrProductNotFound) {
		flashAndRedirect(w, r, h.renderer, redirectAdmin, MsgProductNotFound, render.FlashError)
		return
	}
	if err != nil {
		logAndInternalError(w, "failed to get product", "error", err, "product_id", id)
		return
	}

	renderPage(w, r, h.renderer, "admin_edit", render.TemplateData{
		Title: "Edit " + product.Name,
		Data:  EditData{Product: product},
	})
}

// Update handles POST /admin/update/{id}. An empty image keeps the stored one.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	_, err := h.products.Update(r.Context(), id, productInput(r))
	if h.handleWriteError(w, r, err, "update") {
		return
	}

	h.metrics.CountProductChange("update")
	flashAndRedirect(w, r, h.renderer, redirectAdmin, MsgProductUpdated, render.FlashInfo)
}

// handleWriteError answers the request for a failed product write and
// reports whether it did.
func (h *AdminHandler) handleWriteError(w http.ResponseWriter, r *http.Request, err error, op string) bool {
	if err == nil {
		return false
	}

	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		flashAndRedirect(w, r, h.renderer, redirectAdmin, verr.Message, render.FlashError)
	case errors.Is(err, service.ErrProductNotFound):
		flashAndRedirect(w, r, h.renderer, redirectAdmin, MsgProductNotFound, render.FlashError)
	default:
		logAndInternalError(w, "failed to "+op+" product", "error", err)
	}
	return true
}

func productInput(r *http.Request) service.ProductInput {
	return service.ProductInput{
		Name:     r.PostFormValue("name"),
		Price:    r.PostFormValue("price"),
		Category: r.PostFormValue("category"),
		Image:    r.PostFormValue("image"),
	}
}
