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

// PortfolioInput holds portfolio item fields. Nil fields are left unchanged
// on update. Content is always markdown.
type PortfolioInput struct {
	Title       *string
	Slug        *string
	Description *string
	Content     *string
	Client      *string
	Category    *string
	ImageURL    *string
	ProjectURL  *string
	Featured    *bool
	Order       *int64
	Status      *string
}

// PortfolioService manages portfolio items.
type PortfolioService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewPortfolioService creates a PortfolioService.
func NewPortfolioService(db *sql.DB, logger *slog.Logger) *PortfolioService {
	return &PortfolioService{queries: store.New(db), logger: logger, now: utcNow}
}

// List returns items with featured ones first, then by order. An empty
// category matches all.
func (s *PortfolioService) List(ctx context.Context, status, category string, publishedOnly bool) ([]store.PortfolioItem, error) {
	if publishedOnly {
		status = model.StatusPublished
	}
	items, err := s.queries.ListPortfolioItems(ctx, store.ListPortfolioItemsParams{Status: status, Category: category})
	if err != nil {
		return nil, fmt.Errorf("listing portfolio items: %w", err)
	}
	return items, nil
}

// Get returns one item. Drafts are not found when publishedOnly is set.
func (s *PortfolioService) Get(ctx context.Context, id int64, publishedOnly bool) (store.PortfolioItem, error) {
	item, err := s.queries.GetPortfolioItemByID(ctx, id)
	return s.visible(item, err, publishedOnly)
}

// GetBySlug returns one item by its slug.
func (s *PortfolioService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (store.PortfolioItem, error) {
	item, err := s.queries.GetPortfolioItemBySlug(ctx, slug)
	return s.visible(item, err, publishedOnly)
}

func (s *PortfolioService) visible(item store.PortfolioItem, err error, publishedOnly bool) (store.PortfolioItem, error) {
	if err != nil {
		return store.PortfolioItem{}, storeErr(err, "loading portfolio item")
	}
	if hiddenFromPublic(publishedOnly, item.Status) {
		return store.PortfolioItem{}, fmt.Errorf("loading portfolio item: %w", ErrNotFound)
	}
	return item, nil
}

// Create adds a portfolio item.
func (s *PortfolioService) Create(ctx context.Context, in PortfolioInput) (store.PortfolioItem, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, nil, true)
	if err := v.Err(); err != nil {
		return store.PortfolioItem{}, err
	}

	title := strings.TrimSpace(*in.Title)
	slug, err := resolveSlug(ctx, in.Slug, title, 0, s.queries.PortfolioItemSlugExists)
	if err != nil {
		return store.PortfolioItem{}, err
	}
	content := valueOr(in.Content, "")
	html, err := render(content, model.FormatMarkdown)
	if err != nil {
		return store.PortfolioItem{}, err
	}

	now := s.now()
	item, err := s.queries.CreatePortfolioItem(ctx, store.CreatePortfolioItemParams{
		Title:        title,
		Slug:         slug,
		Description:  valueOr(in.Description, ""),
		Content:      content,
		RenderedHtml: html,
		Client:       valueOr(in.Client, ""),
		Category:     valueOr(in.Category, ""),
		ImageUrl:     valueOr(in.ImageURL, ""),
		ProjectUrl:   valueOr(in.ProjectURL, ""),
		Featured:     valueOr(in.Featured, false),
		SortOrder:    valueOr(in.Order, 0),
		Status:       valueOr(in.Status, model.StatusDraft),
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return store.PortfolioItem{}, storeErr(err, "creating portfolio item")
	}
	s.logger.Info("portfolio item created", "id", item.ID, "slug", item.Slug)
	return item, nil
}

// Update changes the given fields of an item.
func (s *PortfolioService) Update(ctx context.Context, id int64, in PortfolioInput) (store.PortfolioItem, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, nil, false)
	if err := v.Err(); err != nil {
		return store.PortfolioItem{}, err
	}

	item, err := s.queries.GetPortfolioItemByID(ctx, id)
	if err != nil {
		return store.PortfolioItem{}, storeErr(err, "loading portfolio item")
	}
	if in.Title != nil {
		item.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		if item.Slug, err = resolveSlug(ctx, in.Slug, item.Title, id, s.queries.PortfolioItemSlugExists); err != nil {
			return store.PortfolioItem{}, err
		}
	}
	item.Description = valueOr(in.Description, item.Description)
	item.Content = valueOr(in.Content, item.Content)
	item.Client = valueOr(in.Client, item.Client)
	item.Category = valueOr(in.Category, item.Category)
	item.ImageUrl = valueOr(in.ImageURL, item.ImageUrl)
	item.ProjectUrl = valueOr(in.ProjectURL, item.ProjectUrl)
	item.Featured = valueOr(in.Featured, item.Featured)
	item.SortOrder = valueOr(in.Order, item.SortOrder)
	item.Status = valueOr(in.Status, item.Status)
	if item.RenderedHtml, err = render(item.Content, model.FormatMarkdown); err != nil {
		return store.PortfolioItem{}, err
	}

	updated, err := s.queries.UpdatePortfolioItem(ctx, store.UpdatePortfolioItemParams{
		Title:        item.Title,
		Slug:         item.Slug,
		Description:  item.Description,
		Content:      item.Content,
		RenderedHtml: item.RenderedHtml,
		Client:       item.Client,
		Category:     item.Category,
		ImageUrl:     item.ImageUrl,
		ProjectUrl:   item.ProjectUrl,
		Featured:     item.Featured,
		SortOrder:    item.SortOrder,
		Status:       item.Status,
		UpdatedAt:    s.now(),
		ID:           id,
	})
	if err != nil {
		return store.PortfolioItem{}, storeErr(err, "updating portfolio item")
	}
	return updated, nil
}

// Delete removes an item.
func (s *PortfolioService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeletePortfolioItem(ctx, id)
	return affected(n, err, "deleting portfolio item")
}
