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

// BlogInput holds blog post fields. Nil fields are left unchanged on update.
type BlogInput struct {
	Title         *string
	Slug          *string
	Excerpt       *string
	Content       *string
	ContentFormat *string
	FeaturedImage *string
	Status        *string
}

// BlogService manages blog posts.
type BlogService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewBlogService creates a BlogService.
func NewBlogService(db *sql.DB, logger *slog.Logger) *BlogService {
	return &BlogService{queries: store.New(db), logger: logger, now: utcNow}
}

// List returns a page of posts, newest first. With publishedOnly drafts are
// left out and status is ignored.
func (s *BlogService) List(ctx context.Context, status string, publishedOnly bool, p Pagination) ([]store.BlogPost, PageMeta, error) {
	if publishedOnly {
		status = model.StatusPublished
	}
	p = p.normalize()

	total, err := s.queries.CountBlogPosts(ctx, status)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("counting blog posts: %w", err)
	}
	posts, err := s.queries.ListBlogPosts(ctx, store.ListBlogPostsParams{
		Status: status,
		Limit:  p.PerPage,
		Offset: p.offset(),
	})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing blog posts: %w", err)
	}
	return posts, newPageMeta(p, total), nil
}

// Get returns one post. Drafts are not found when publishedOnly is set.
func (s *BlogService) Get(ctx context.Context, id int64, publishedOnly bool) (store.BlogPost, error) {
	post, err := s.queries.GetBlogPostByID(ctx, id)
	return s.visible(post, err, publishedOnly)
}

// GetBySlug returns one post by its slug.
func (s *BlogService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (store.BlogPost, error) {
	post, err := s.queries.GetBlogPostBySlug(ctx, slug)
	return s.visible(post, err, publishedOnly)
}

func (s *BlogService) visible(post store.BlogPost, err error, publishedOnly bool) (store.BlogPost, error) {
	if err != nil {
		return store.BlogPost{}, storeErr(err, "loading blog post")
	}
	if hiddenFromPublic(publishedOnly, post.Status) {
		return store.BlogPost{}, fmt.Errorf("loading blog post: %w", ErrNotFound)
	}
	return post, nil
}

// Create adds a post written by authorID. Status defaults to draft and the
// content format to html.
func (s *BlogService) Create(ctx context.Context, authorID int64, in BlogInput) (store.BlogPost, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, in.ContentFormat, true)
	if err := v.Err(); err != nil {
		return store.BlogPost{}, err
	}

	title := strings.TrimSpace(*in.Title)
	slug, err := resolveSlug(ctx, in.Slug, title, 0, s.queries.BlogPostSlugExists)
	if err != nil {
		return store.BlogPost{}, err
	}

	content := valueOr(in.Content, "")
	format := valueOr(in.ContentFormat, model.FormatHTML)
	html, err := render(content, format)
	if err != nil {
		return store.BlogPost{}, err
	}

	now := s.now()
	status := valueOr(in.Status, model.StatusDraft)
	var publishedAt sql.NullTime
	if status == model.StatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	post, err := s.queries.CreateBlogPost(ctx, store.CreateBlogPostParams{
		Title:         title,
		Slug:          slug,
		Excerpt:       valueOr(in.Excerpt, ""),
		Content:       content,
		ContentFormat: format,
		RenderedHtml:  html,
		FeaturedImage: valueOr(in.FeaturedImage, ""),
		Status:        status,
		AuthorID:      sql.NullInt64{Int64: authorID, Valid: authorID > 0},
		PublishedAt:   publishedAt,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return store.BlogPost{}, storeErr(err, "creating blog post")
	}
	s.logger.Info("blog post created", "id", post.ID, "slug", post.Slug, "status", post.Status)
	return post, nil
}

// Update changes the given fields of a post. The publish date is set the
// first time a post is published and kept afterwards.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) (store.BlogPost, error) {
	v := &ValidationError{}
	validateContent(v, in.Title, in.Status, in.ContentFormat, false)
	if err := v.Err(); err != nil {
		return store.BlogPost{}, err
	}

	post, err := s.queries.GetBlogPostByID(ctx, id)
	if err != nil {
		return store.BlogPost{}, storeErr(err, "loading blog post")
	}

	if in.Title != nil {
		post.Title = strings.TrimSpace(*in.Title)
	}
	if in.Slug != nil {
		if post.Slug, err = resolveSlug(ctx, in.Slug, post.Title, id, s.queries.BlogPostSlugExists); err != nil {
			return store.BlogPost{}, err
		}
	}
	post.Excerpt = valueOr(in.Excerpt, post.Excerpt)
	post.Content = valueOr(in.Content, post.Content)
	post.ContentFormat = valueOr(in.ContentFormat, post.ContentFormat)
	post.FeaturedImage = valueOr(in.FeaturedImage, post.FeaturedImage)
	post.Status = valueOr(in.Status, post.Status)
	if post.RenderedHtml, err = render(post.Content, post.ContentFormat); err != nil {
		return store.BlogPost{}, err
	}

	now := s.now()
	if post.Status == model.StatusPublished && !post.PublishedAt.Valid {
		post.PublishedAt = sql.NullTime{Time: now, Valid: true}
	}

	updated, err := s.queries.UpdateBlogPost(ctx, store.UpdateBlogPostParams{
		Title:         post.Title,
		Slug:          post.Slug,
		Excerpt:       post.Excerpt,
		Content:       post.Content,
		ContentFormat: post.ContentFormat,
		RenderedHtml:  post.RenderedHtml,
		FeaturedImage: post.FeaturedImage,
		Status:        post.Status,
		PublishedAt:   post.PublishedAt,
		UpdatedAt:     now,
		ID:            id,
	})
	if err != nil {
		return store.BlogPost{}, storeErr(err, "updating blog post")
	}
	return updated, nil
}

// Delete removes a post.
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteBlogPost(ctx, id)
	return affected(n, err, "deleting blog post")
}
