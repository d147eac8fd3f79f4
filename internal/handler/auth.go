// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/session"
)

// AuthHandler handles admin login, registration and logout.
type AuthHandler struct {
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
	accounts       *service.AccountService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, sm *scs.SessionManager, accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{
		renderer:       renderer,
		sessionManager: sm,
		accounts:       accounts,
	}
}

// LoginForm handles GET /admin/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "admin_login", render.TemplateData{Title: "Admin login"})
}

// Login handles POST /admin/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	_, err := h.accounts.Authenticate(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		flashAndRedirect(w, r, h.renderer, redirectAdminLogin, MsgLoginRequired, render.FlashDanger)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		flashAndRedirect(w, r, h.renderer, redirectAdminLogin, MsgBadCredentials, render.FlashDanger)
		return
	case err != nil:
		logAndInternalError(w, "failed to authenticate", "error", err)
		return
	}

	// New token on privilege change to prevent session fixation.
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "failed to renew session token", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), session.KeyAdminLoggedIn, true)

	http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, h.renderer, "register", render.TemplateData{Title: "Register"})
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	_, err := h.accounts.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	switch {
	case errors.Is(err, service.ErrCredentialsRequired):
		flashAndRedirect(w, r, h.renderer, redirectRegister, MsgRegisterRequired, render.FlashDanger)
		return
	case errors.Is(err, service.ErrUsernameTaken):
		flashAndRedirect(w, r, h.renderer, redirectRegister, MsgUsernameTaken, render.FlashDanger)
		return
	case err != nil:
		logAndInternalError(w, "failed to register account", "error", err)
		return
	}

	flashAndRedirect(w, r, h.renderer, redirectAdminLogin, MsgAccountCreated, render.FlashSuccess)
}

// Logout handles GET /admin/logout. The whole session goes, cart included.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}
	http.Redirect(w, r, redirectHome, http.StatusSeeOther)
}
