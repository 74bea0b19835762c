// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/ocms-api/internal/markup"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

// Pagination defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// Pagination selects one page of a list. Zero values mean page 1 with
// DefaultPerPage entries.
type Pagination struct {
	Page    int64
	PerPage int64
}

func (p Pagination) normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Pagination) offset() int64 {
	return (p.Page - 1) * p.PerPage
}

// PageMeta describes a returned page of a list.
type PageMeta struct {
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func newPageMeta(p Pagination, total int64) PageMeta {
	pages := (total + p.PerPage - 1) / p.PerPage
	return PageMeta{Page: p.Page, PerPage: p.PerPage, Total: total, TotalPages: pages}
}

type slugCheck func(ctx context.Context, arg store.SlugExistsParams) (int64, error)

// resolveSlug picks the explicit slug when given, otherwise derives one from
// title, and makes sure no other record (besides excludeID) uses it.
func resolveSlug(ctx context.Context, explicit *string, title string, excludeID int64, exists slugCheck) (string, error) {
	var slug string
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		slug = strings.TrimSpace(*explicit)
		if !util.IsValidSlug(slug) {
			return "", invalid("slug", "may only contain lowercase letters, digits and hyphens")
		}
	} else {
		slug = util.Slugify(title)
		if slug == "" {
			return "", invalid("slug", "could not be derived from the title")
		}
	}

	n, err := exists(ctx, store.SlugExistsParams{Slug: slug, ExcludeID: excludeID})
	if err != nil {
		return "", fmt.Errorf("checking slug: %w", err)
	}
	if n > 0 {
		return "", fmt.Errorf("slug %q: %w", slug, ErrConflict)
	}
	return slug, nil
}

// validateContent checks the fields shared by blog posts, pages and
// portfolio items.
func validateContent(v *ValidationError, title, status, format *string, creating bool) {
	if creating && title == nil {
		v.Add("title", "is required")
	}
	if title != nil {
		switch t := strings.TrimSpace(*title); {
		case t == "":
			v.Add("title", "is required")
		case len(t) > 255:
			v.Add("title", "must be at most 255 characters")
		}
	}
	if status != nil && !model.IsValidStatus(*status) {
		v.Add("status", "must be draft or published")
	}
	if format != nil && !model.IsValidFormat(*format) {
		v.Add("content_format", "must be html or markdown")
	}
}

func render(content, format string) (string, error) {
	html, err := markup.Render(content, format)
	if err != nil {
		return "", invalid("content_format", err.Error())
	}
	return html, nil
}

// hiddenFromPublic reports whether a record with status must be hidden from
// anonymous readers.
func hiddenFromPublic(publishedOnly bool, status string) bool {
	return publishedOnly && status != model.StatusPublished
}
