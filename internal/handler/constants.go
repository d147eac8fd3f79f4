// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route patterns for chi router registration.
const (
	RouteRoot     = "/"
	RouteProducts = "/products"
	RouteContact  = "/contact"
	RouteCart     = "/cart"
	RouteRegister = "/register"
	RouteHealth   = "/health"
	RouteMetrics  = "/metrics"
	RouteStatic   = "/static/*"

	RouteAddToCart      = "/add_to_cart/{name}"
	RouteRemoveFromCart = "/remove_from_cart/{name}"

	// RouteAdmin is the admin mount point; the routes below are relative to it.
	RouteAdmin       = "/admin"
	RouteAdminLogin  = "/login"
	RouteAdminLogout = "/logout"
	RouteAdminAdd    = "/add"
	RouteAdminDelete = "/delete/{id:[0-9]+}"
	RouteAdminEdit   = "/edit/{id:[0-9]+}"
	RouteAdminUpdate = "/update/{id:[0-9]+}"
)

const (
	redirectHome       = RouteRoot
	redirectProducts   = RouteProducts
	redirectCart       = RouteCart
	redirectRegister   = RouteRegister
	redirectAdmin      = RouteAdmin
	redirectAdminLogin = RouteAdmin + RouteAdminLogin
)

// User-facing flash messages.
const (
	MsgProductAdded     = "Product added successfully!"
	MsgProductDeleted   = "Product deleted"
	MsgProductUpdated   = "Product updated successfully!"
	MsgProductNotFound  = "Product not found"
	MsgInvalidCSRF      = "Invalid CSRF token"
	MsgLoginRequired    = "Username and password are required"
	MsgRegisterRequired = "Username and password are required."
	MsgUsernameTaken    = "Username already exists."
	MsgBadCredentials   = "Invalid username or password"
	MsgAccountCreated   = "Account created successfully. Please log in."
)

// recentEventsLimit is how many audit events the dashboard lists.
const recentEventsLimit = 10

// HeaderContentType is the Content-Type HTTP header name.
const HeaderContentType = "Content-Type"
