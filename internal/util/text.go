// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides text cleanup, image filename checks and price
// formatting shared by the services and the renderer.
package util

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// markupStripper removes every HTML element.
var markupStripper = bluemonday.StrictPolicy()

// CleanText trims s and returns it in Unicode NFC form. The text is
// otherwise kept as typed; templates escape on output.
func CleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ContainsMarkup reports whether s holds HTML elements or comments. Bare
// "<", ">" and "&" characters and entity text are not markup.
func ContainsMarkup(s string) bool {
	if !strings.ContainsAny(s, "<>") {
		return false
	}
	return html.UnescapeString(markupStripper.Sanitize(s)) != html.UnescapeString(s)
}
