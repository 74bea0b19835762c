// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
)

// PageInput holds page fields. Nil fields are left unchanged on update.
type PageInput struct {
	Title           *string
	Slug            *string
	Content         *string
	ContentFormat   *string
	MetaTitle       *string
	MetaDescription *string
	Status          *string
}

// PageService manages static pages.
type PageService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewPageService creates a PageService.
func NewPageService(db *sql.DB, logger *slog.Logger) *PageService {
	return &PageService{queries: store.New(db), logger: logger, now: utcNow}
}

// List returns pages ordered by title.
func (s *PageService) List(ctx context.Context, status string, publishedOnly bool) ([]store.Page, error) {
	if publishedOnly {
		status = model.StatusPublished
	}
	pages, err := s.queries.ListPages(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	return pages, nil
}

// Get returns one page. Drafts are not found when publishedOnly is set.
func (s *PageService) Get(ctx context.Context, id int64, publishedOnly bool) (store.Page, error) {
	page, err := s.queries.GetPageByID(ctx, id)
	return s.visible(page, err, publishedOnly)
}

// GetBySlug returns one page by its slug.
func (s *PageService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (store.Page, error) {
	page, err := s.queries.GetPageBySlug(ctx, slug)
	return s.visible(page, err, publishedOnly)
}

func (s *PageService) visible(page store.Page, err error, publishedOnly bool) (store.Page, error) {
	if err != nil {
		return store.Page{}, storeErr(err, "loading page")
	}
	if hiddenFromPublic(publishedOnly, page.Status) {
		return store.Page{}, fmt.Errorf("loading page: %w", ErrNotFound)
	}
	return page, nil
}

// Create adds a page.
func (s *PageService) Create(ctx context.Context, in PageInput) (store.Page, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, in.ContentFormat, true)
	if err := v.Err(); err != nil {
		return store.Page{}, err
	}

	title := strings.TrimSpace(*in.Title)
	slug, err := resolveSlug(ctx, in.Slug, title, 0, s.queries.PageSlugExists)
	if err != nil {
		return store.Page{}, err
	}
	content := valueOr(in.Content, "")
	format := valueOr(in.ContentFormat, model.FormatHTML)
	html, err := render(content, format)
	if err != nil {
		return store.Page{}, err
	}

	now := s.now()
	page, err := s.queries.CreatePage(ctx, store.CreatePageParams{
		Title:           title,
		Slug:            slug,
		Content:         content,
		ContentFormat:   format,
		RenderedHtml:    html,
		MetaTitle:       valueOr(in.MetaTitle, ""),
		MetaDescription: valueOr(in.MetaDescription, ""),
		Status:          valueOr(in.Status, model.StatusDraft),
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return store.Page{}, storeErr(err, "creating page")
	}
	s.logger.Info("page created", "id", page.ID, "slug", page.Slug)
	return page, nil
}

// Update changes the given fields of a page.
func (s *PageService) Update(ctx context.Context, id int64, in PageInput) (store.Page, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, in.ContentFormat, false)
	if err := v.Err(); err != nil {
		return store.Page{}, err
	}

	page, err := s.queries.GetPageByID(ctx, id)
	if err != nil {
		return store.Page{}, storeErr(err, "loading page")
	}
	if in.Title != nil {
		page.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		if page.Slug, err = resolveSlug(ctx, in.Slug, page.Title, id, s.queries.PageSlugExists); err != nil {
			return store.Page{}, err
		}
	}
	page.Content = valueOr(in.Content, page.Content)
	page.ContentFormat = valueOr(in.ContentFormat, page.ContentFormat)
	page.MetaTitle = valueOr(in.MetaTitle, page.MetaTitle)
	page.MetaDescription = valueOr(in.MetaDescription, page.MetaDescription)
	page.Status = valueOr(in.Status, page.Status)
	if page.RenderedHtml, err = render(page.Content, page.ContentFormat); err != nil {
		return store.Page{}, err
	}

	updated, err := s.queries.UpdatePage(ctx, store.UpdatePageParams{
		Title:           page.Title,
		Slug:            page.Slug,
		Content:         page.Content,
		ContentFormat:   page.ContentFormat,
		RenderedHtml:    page.RenderedHtml,
		MetaTitle:       page.MetaTitle,
		MetaDescription: page.MetaDescription,
		Status:          page.Status,
		UpdatedAt:       s.now(),
		ID:              id,
	})
	if err != nil {
		return store.Page{}, storeErr(err, "updating page")
	}
	return updated, nil
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeletePage(ctx, id)
	return affected(n, err, "deleting page")
}
