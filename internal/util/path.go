// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"path"
	"strings"
)

// allowedImageExts lists the accepted image extensions, lower-case.
var allowedImageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// IsAllowedImage reports whether name is a bare filename with an accepted
// image extension. The extension check is case-insensitive. Names carrying
// directory components or traversal sequences are rejected.
func IsAllowedImage(name string) bool {
	if name == "" || ContainsPathTraversal(name) || strings.ContainsAny(name, `/\`) {
		return false
	}
	return allowedImageExts[strings.ToLower(path.Ext(name))]
}

// ContainsPathTraversal reports whether p contains ".." segments after cleaning.
func ContainsPathTraversal(p string) bool {
	cleaned := path.Clean(strings.ReplaceAll(p, `\`, "/"))
	return cleaned == ".." || strings.HasPrefix(cleaned, "../") || strings.Contains(cleaned, "/../")
}
