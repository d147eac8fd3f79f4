// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/ostore-go/internal/session"
)

func testTemplates() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}[{{.Title}}|admin={{.IsAdmin}}|cart={{.CartCount}}|token={{.CSRFToken}}]` +
				`{{range .Flashes}}<p class="{{.Kind}}">{{.Message}}</p>{{end}}{{template "content" .}}{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}footer {{.CurrentYear}}{{end}}`)},
		"pages/home.html":      {Data: []byte(`{{define "content"}}home {{template "footer" .}}{{end}}`)},
		"pages/price.html":     {Data: []byte(`{{define "content"}}{{price .Data}}{{end}}`)},
		"pages/broken.html":    {Data: []byte(`{{define "content"}}{{.Data.Missing}}{{end}}`)},
	}
}

type fixedCart int

func (c fixedCart) Count(context.Context) int { return int(c) }

func newTestRenderer(t *testing.T, sm *scs.SessionManager) *Renderer {
	t.Helper()
	r, err := New(Config{
		TemplatesFS: testTemplates(),
		ContentFS: fstest.MapFS{
			"contact.md": {Data: []byte("# Contact\n\nCall *us*.")},
		},
		SessionManager: sm,
		Cart:           fixedCart(3),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r
}

// serve runs h inside a loaded session and returns the recorder.
func serve(sm *scs.SessionManager, h http.HandlerFunc, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	sm.LoadAndSave(h).ServeHTTP(rec, req)
	return rec
}

func TestNew_ParsesPages(t *testing.T) {
	r := newTestRenderer(t, scs.New())

	for _, name := range []string{"home", "price", "broken"} {
		if !r.HasTemplate(name) {
			t.Errorf("HasTemplate(%q) = false", name)
		}
	}
	if r.HasTemplate("base") {
		t.Error("layouts should not be registered as pages")
	}
}

func TestNew_NoPages(t *testing.T) {
	_, err := New(Config{TemplatesFS: fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
	}})
	if err == nil {
		t.Fatal("New should fail without page templates")
	}
}

func TestRender_SharedData(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	var token string
	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		sm.Put(req.Context(), session.KeyAdminLoggedIn, true)
		if err := r.Render(w, req, "home", TemplateData{Title: "Home"}); err != nil {
			t.Errorf("Render: %v", err)
		}
		token = sm.GetString(req.Context(), session.KeyCSRFToken)
	})

	body := rec.Body.String()
	if token == "" {
		t.Fatal("Render should create the CSRF token")
	}
	for _, want := range []string{"[Home|", "admin=true", "cart=3", "token=" + token, "home footer"} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRender_FlashesShownOnce(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		r.AddFlash(req.Context(), "Product deleted", FlashWarning)
		r.AddFlash(req.Context(), "Second", FlashInfo)
		w.WriteHeader(http.StatusSeeOther)
	})
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	rec = serve(sm, func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "home", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
	}, cookies...)
	body := rec.Body.String()
	if !strings.Contains(body, `<p class="warning">Product deleted</p><p class="info">Second</p>`) {
		t.Errorf("flashes missing or out of order: %q", body)
	}

	rec = serve(sm, func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "home", TemplateData{}); err != nil {
			t.Errorf("Render: %v", err)
		}
	}, cookies...)
	if strings.Contains(rec.Body.String(), "Product deleted") {
		t.Error("flash should be shown only once")
	}
}

func TestRender_Errors(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	serve(sm, func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "missing", TemplateData{}); err == nil {
			t.Error("Render of unknown template should fail")
		}

		rec := httptest.NewRecorder()
		if err := r.Render(rec, req, "broken", TemplateData{Data: 42}); err == nil {
			t.Error("Render should report template execution errors")
		}
		if rec.Body.Len() != 0 {
			t.Errorf("failed render wrote %q", rec.Body.String())
		}
	})
}

func TestRender_PriceFunc(t *testing.T) {
	sm := scs.New()
	r := newTestRenderer(t, sm)

	rec := serve(sm, func(w http.ResponseWriter, req *http.Request) {
		if err := r.Render(w, req, "price", TemplateData{Data: 1299.0}); err != nil {
			t.Errorf("Render: %v", err)
		}
	})
	if !strings.Contains(rec.Body.String(), "1,299.00") {
		t.Errorf("body = %q, want formatted price", rec.Body.String())
	}
}

func TestMarkdown(t *testing.T) {
	html, err := Markdown([]byte("# Title\n\nSome *text* <script>alert(1)</script>"))
	if err != nil {
		t.Fatalf("Markdown: %v", err)
	}
	s := string(html)
	if !strings.Contains(s, "<h1>Title</h1>") || !strings.Contains(s, "<em>text</em>") {
		t.Errorf("unexpected HTML: %q", s)
	}
	if strings.Contains(s, "<script>") {
		t.Errorf("raw HTML should not pass through: %q", s)
	}
}

func TestContent(t *testing.T) {
	r := newTestRenderer(t, scs.New())

	if got := string(r.Content("contact")); !strings.Contains(got, "<h1>Contact</h1>") {
		t.Errorf("Content(contact) = %q", got)
	}
	if got := r.Content("missing"); got != "" {
		t.Errorf("Content(missing) = %q, want empty", got)
	}
}
