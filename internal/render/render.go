// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded page templates and renders them with
// the per-request data every page shares: flash messages, the CSRF token,
// the admin flag and the cart badge.
package render

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/yuin/goldmark"

	"github.com/olegiv/ostore-go/internal/session"
	"github.com/olegiv/ostore-go/internal/util"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Message string
	Kind    string
}

func init() {
	gob.Register([]Flash{})
}

// CartCounter reports the number of units in the visitor's cart.
type CartCounter interface {
	Count(ctx context.Context) int
}

// Renderer handles template rendering with cached, pre-parsed templates.
type Renderer struct {
	templates      map[string]*template.Template
	content        map[string]template.HTML
	sessionManager *scs.SessionManager
	cart           CartCounter
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS // layouts/, partials/ and pages/
	ContentFS      fs.FS // Markdown documents, optional
	SessionManager *scs.SessionManager
	Cart           CartCounter // optional
}

const baseLayout = "layouts/base.html"

// New creates a Renderer, parsing every page and converting every Markdown
// document up front.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		content:        make(map[string]template.HTML),
		sessionManager: cfg.SessionManager,
		cart:           cfg.Cart,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	if cfg.ContentFS != nil {
		if err := r.loadContent(cfg.ContentFS); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// parseTemplates builds one template set per page: base layout, partials, page.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := fs.Glob(templatesFS, "partials/*.html")
	if err != nil {
		return fmt.Errorf("listing partials: %w", err)
	}

	pages, err := fs.Glob(templatesFS, "pages/*.html")
	if err != nil {
		return fmt.Errorf("listing pages: %w", err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page templates found")
	}

	for _, page := range pages {
		name := strings.TrimSuffix(path.Base(page), ".html")

		files := append([]string{baseLayout}, partials...)
		files = append(files, page)

		tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, files...)
		if err != nil {
			return fmt.Errorf("parsing template %s: %w", name, err)
		}
		r.templates[name] = tmpl
	}

	return nil
}

// loadContent converts every *.md file in contentFS to HTML.
func (r *Renderer) loadContent(contentFS fs.FS) error {
	docs, err := fs.Glob(contentFS, "*.md")
	if err != nil {
		return fmt.Errorf("listing content: %w", err)
	}

	for _, doc := range docs {
		src, err := fs.ReadFile(contentFS, doc)
		if err != nil {
			return fmt.Errorf("reading %s: %w", doc, err)
		}
		html, err := Markdown(src)
		if err != nil {
			return fmt.Errorf("rendering %s: %w", doc, err)
		}
		r.content[strings.TrimSuffix(doc, ".md")] = html
	}

	return nil
}

// Markdown converts src to HTML. Raw HTML in src is not passed through.
func Markdown(src []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- goldmark escapes raw HTML by default
}

// Content returns the rendered Markdown document name, or "" if unknown.
func (r *Renderer) Content(name string) template.HTML {
	return r.content[name]
}

// HasTemplate reports whether a page template called name exists.
func (r *Renderer) HasTemplate(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"price":      util.FormatPrice,
		"pathEscape": url.PathEscape,
		"formatDateTime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 3:04 PM")
		},
	}
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Data        any
	Flashes     []Flash
	CSRFToken   string
	IsAdmin     bool
	CartCount   int
	CurrentYear int
}

// AddFlash queues a message for the next rendered page of this session.
func (r *Renderer) AddFlash(ctx context.Context, message, kind string) {
	flashes, _ := r.sessionManager.Get(ctx, session.KeyFlashes).([]Flash)
	flashes = append(flashes, Flash{Message: message, Kind: kind})
	r.sessionManager.Put(ctx, session.KeyFlashes, flashes)
}

// popFlashes returns and clears the queued messages.
func (r *Renderer) popFlashes(ctx context.Context) []Flash {
	flashes, _ := r.sessionManager.Pop(ctx, session.KeyFlashes).([]Flash)
	return flashes
}

// Render renders page name with data. The response is buffered, so a
// template error leaves w untouched.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	ctx := req.Context()
	data.CurrentYear = time.Now().Year()

	if r.sessionManager != nil {
		token, err := session.CSRFToken(ctx, r.sessionManager)
		if err != nil {
			return err
		}
		data.CSRFToken = token
		data.IsAdmin = session.IsAdmin(ctx, r.sessionManager)
		data.Flashes = r.popFlashes(ctx)
	}
	if r.cart != nil {
		data.CartCount = r.cart.Count(ctx)
	}

	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("writing response", "template", name, "error", err)
	}
	return nil
}
