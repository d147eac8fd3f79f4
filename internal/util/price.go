// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// FormatPrice renders a price with two decimals and thousands grouping,
// e.g. 1299 -> "1,299.00".
func FormatPrice(v float64) string {
	return pricePrinter.Sprintf("%.2f", v)
}
