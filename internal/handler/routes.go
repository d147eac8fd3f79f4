// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/ostore-go/internal/cart"
	"github.com/olegiv/ostore-go/internal/middleware"
	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/service"
)

// staticMaxAge is the Cache-Control max-age for embedded assets, in seconds.
const staticMaxAge = "86400"

// RouterConfig carries everything the router wires together.
type RouterConfig struct {
	DB              *sql.DB
	SessionManager  *scs.SessionManager
	Renderer        *render.Renderer
	Cart            *cart.Manager
	Catalog         *service.CatalogService
	Products        *service.ProductService
	Accounts        *service.AccountService
	Events          *service.EventService
	Metrics         *middleware.Metrics // optional
	LoginProtection *middleware.LoginProtection
	CSRF            middleware.CSRFConfig
	SecurityHeaders middleware.SecurityHeadersConfig
	StaticFS        fs.FS // optional
	Version         string
}

// NewRouter builds the application's HTTP handler.
func NewRouter(cfg RouterConfig) http.Handler {
	sm := cfg.SessionManager
	csrfFailure := CSRFFailure(cfg.Renderer)

	csrfCfg := cfg.CSRF
	if csrfCfg.ErrorHandler == nil {
		csrfCfg.ErrorHandler = csrfFailure
	}

	storeHandler := NewStoreHandler(cfg.Renderer, cfg.Catalog)
	cartHandler := NewCartHandler(cfg.Renderer, cfg.Cart, cfg.Catalog, cfg.Metrics)
	adminHandler := NewAdminHandler(cfg.Renderer, cfg.Catalog, cfg.Products, cfg.Events, cfg.Metrics)
	authHandler := NewAuthHandler(cfg.Renderer, sm, cfg.Accounts)
	healthHandler := NewHealthHandler(cfg.DB, cfg.Version)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.ClientIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.SecurityHeaders))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	// Machine endpoints carry no session.
	r.Get(RouteHealth, healthHandler.Health)
	if cfg.Metrics != nil {
		r.Handle(RouteMetrics, cfg.Metrics.Handler())
	}
	if cfg.StaticFS != nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(cfg.StaticFS)))
		r.Handle(RouteStatic, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age="+staticMaxAge)
			static.ServeHTTP(w, r)
		}))
	}

	r.Group(func(r chi.Router) {
		r.Use(sm.LoadAndSave)
		r.Use(middleware.CSRF(csrfCfg))

		r.Get(RouteRoot, storeHandler.Home)
		r.Get(RouteProducts, storeHandler.Products)
		r.Get(RouteContact, storeHandler.Contact)

		r.Get(RouteAddToCart, cartHandler.Add)
		r.Get(RouteRemoveFromCart, cartHandler.Remove)
		r.Get(RouteCart, cartHandler.View)

		r.Get(RouteRegister, authHandler.RegisterForm)
		r.Post(RouteRegister, authHandler.Register)

		r.Route(RouteAdmin, func(r chi.Router) {
			r.Get(RouteAdminLogin, authHandler.LoginForm)
			r.With(cfg.LoginProtection.Middleware()).Post(RouteAdminLogin, authHandler.Login)
			r.Get(RouteAdminLogout, authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(sm))

				r.Get(RouteRoot, adminHandler.Dashboard)
				r.Get(RouteAdminDelete, adminHandler.Delete)
				r.Get(RouteAdminEdit, adminHandler.Edit)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCSRFToken(sm, csrfFailure))
					r.Post(RouteAdminAdd, adminHandler.Add)
					r.Post(RouteAdminUpdate, adminHandler.Update)
				})
			})
		})
	})

	return r
}
