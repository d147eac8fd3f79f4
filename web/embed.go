// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package web embeds the storefront's templates, static assets and
// Markdown content.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var templates embed.FS

//go:embed all:static
var static embed.FS

//go:embed content/*.md
var content embed.FS

// Templates returns the template tree rooted at layouts/, partials/ and pages/.
func Templates() fs.FS {
	return mustSub(templates, "templates")
}

// Static returns the static asset tree served under /static/.
func Static() fs.FS {
	return mustSub(static, "static")
}

// Content returns the Markdown documents.
func Content() fs.FS {
	return mustSub(content, "content")
}

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
