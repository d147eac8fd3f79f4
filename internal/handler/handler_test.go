// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olegiv/ostore-go/internal/cart"
	"github.com/olegiv/ostore-go/internal/middleware"
	"github.com/olegiv/ostore-go/internal/render"
	"github.com/olegiv/ostore-go/internal/service"
	"github.com/olegiv/ostore-go/internal/session"
	"github.com/olegiv/ostore-go/internal/store"
	"github.com/olegiv/ostore-go/web"
)

// testApp is the full router over a temporary database.
type testApp struct {
	t       *testing.T
	db      *sql.DB
	queries *store.Queries
	sm      *scs.SessionManager
	router  http.Handler
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "handler-test.db"))
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	sm := session.New(db, true)
	cm := cart.NewManager(sm)
	renderer, err := render.New(render.Config{
		TemplatesFS:    web.Templates(),
		ContentFS:      web.Content(),
		SessionManager: sm,
		Cart:           cm,
	})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	events := service.NewEventService(db)
	router := NewRouter(RouterConfig{
		DB:              db,
		SessionManager:  sm,
		Renderer:        renderer,
		Cart:            cm,
		Catalog:         service.NewCatalogService(db),
		Products:        service.NewProductService(db, events),
		Accounts:        service.NewAccountService(db, events),
		Events:          events,
		Metrics:         middleware.NewMetrics(prometheus.NewRegistry()),
		LoginProtection: middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()),
		CSRF:            middleware.DefaultCSRFConfig(make([]byte, 32), true),
		SecurityHeaders: middleware.DefaultSecurityHeadersConfig(true),
		StaticFS:        web.Static(),
		Version:         "test",
	})

	return &testApp{t: t, db: db, queries: store.New(db), sm: sm, router: router}
}

func (a *testApp) createProduct(name string, price float64, category, image string) store.Product {
	a.t.Helper()
	p, err := a.queries.CreateProduct(a.t.Context(), store.CreateProductParams{
		Name: name, Price: price, Category: category, Image: image,
	})
	if err != nil {
		a.t.Fatalf("CreateProduct: %v", err)
	}
	return p
}

func (a *testApp) productCount() int64 {
	a.t.Helper()
	n, err := a.queries.CountProducts(a.t.Context())
	if err != nil {
		a.t.Fatalf("CountProducts: %v", err)
	}
	return n
}

// client is a browser stand-in that keeps cookies and does not follow redirects.
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) client() *client {
	return &client{app: a, cookies: make(map[string]*http.Cookie)}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	c.app.t.Helper()
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	rec := httptest.NewRecorder()
	c.app.router.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	c.app.t.Helper()
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	c.app.t.Helper()
	return c.do(newFormRequest(path, form))
}

func newFormRequest(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(HeaderContentType, "application/x-www-form-urlencoded")
	return req
}

var csrfFieldRe = regexp.MustCompile(`name="csrf_token" value="([0-9a-f]+)"`)

// csrfToken renders page and extracts the form token from it.
func (c *client) csrfToken(page string) string {
	c.app.t.Helper()
	rec := c.get(page)
	m := csrfFieldRe.FindStringSubmatch(rec.Body.String())
	if m == nil {
		c.app.t.Fatalf("no csrf_token field on %s", page)
	}
	return m[1]
}

// loginAsAdmin registers an account and logs this client in.
func (c *client) loginAsAdmin() {
	c.app.t.Helper()
	accounts := service.NewAccountService(c.app.db, nil)
	if _, err := accounts.Register(c.app.t.Context(), "admin", "s3cret-pass"); err != nil {
		c.app.t.Fatalf("Register: %v", err)
	}

	rec := c.post("/admin/login", url.Values{"username": {"admin"}, "password": {"s3cret-pass"}})
	assertRedirect(c.app.t, rec, "/admin")
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusSeeOther, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("Location = %q, want %q", got, location)
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, status, rec.Body.String())
	}
}

func assertContains(t *testing.T, body string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(body, want) {
			t.Errorf("body does not contain %q", want)
		}
	}
}

func assertNotContains(t *testing.T, body string, unwanted ...string) {
	t.Helper()
	for _, s := range unwanted {
		if strings.Contains(body, s) {
			t.Errorf("body unexpectedly contains %q", s)
		}
	}
}

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}
