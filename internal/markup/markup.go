// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markup turns stored content into sanitized HTML.
package markup

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/olegiv/ocms-api/internal/model"
)

// Raw HTML inside markdown is passed through and then sanitized together
// with the rest of the output.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// sanitizer allows the tags editors need for rich content and strips
// scripts, event handlers and javascript: URLs.
var sanitizer = bluemonday.UGCPolicy()

// Render converts content written in format into sanitized HTML.
func Render(content, format string) (string, error) {
	switch format {
	case model.FormatMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("rendering markdown: %w", err)
		}
		return sanitizer.Sanitize(buf.String()), nil
	case model.FormatHTML, "":
		return sanitizer.Sanitize(content), nil
	default:
		return "", fmt.Errorf("unknown content format %q", format)
	}
}

// Sanitize strips unsafe markup from html.
func Sanitize(html string) string {
	return sanitizer.Sanitize(html)
}
