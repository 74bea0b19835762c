// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const blogPostColumns = `id, title, slug, excerpt, content, content_format, rendered_html,
    featured_image, status, author_id, published_at, created_at, updated_at`

func scanBlogPost(row interface{ Scan(...any) error }) (BlogPost, error) {
	var i BlogPost
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.ContentFormat,
		&i.RenderedHtml,
		&i.FeaturedImage,
		&i.Status,
		&i.AuthorID,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectBlogPosts(rows *sql.Rows, err error) ([]BlogPost, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BlogPost
	for rows.Next() {
		i, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBlogPost = `-- name: CreateBlogPost :one
INSERT INTO blog_posts (title, slug, excerpt, content, content_format, rendered_html,
    featured_image, status, author_id, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + blogPostColumns

type CreateBlogPostParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	RenderedHtml  string
	FeaturedImage string
	Status        string
	AuthorID      sql.NullInt64
	PublishedAt   sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (q *Queries) CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRowContext(ctx, createBlogPost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.ContentFormat,
		arg.RenderedHtml,
		arg.FeaturedImage,
		arg.Status,
		arg.AuthorID,
		arg.PublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanBlogPost(row)
}

const getBlogPostByID = `-- name: GetBlogPostByID :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE id = ?`

func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostByID, id))
}

const getBlogPostBySlug = `-- name: GetBlogPostBySlug :one
SELECT ` + blogPostColumns + ` FROM blog_posts WHERE slug = ?`

func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error) {
	return scanBlogPost(q.db.QueryRowContext(ctx, getBlogPostBySlug, slug))
}

const listBlogPosts = `-- name: ListBlogPosts :many
SELECT ` + blogPostColumns + ` FROM blog_posts
WHERE (? = '' OR status = ?)
ORDER BY COALESCE(published_at, created_at) DESC, id DESC
LIMIT ? OFFSET ?`

type ListBlogPostsParams struct {
	Status string
	Limit  int64
	Offset int64
}

// ListBlogPosts filters by status unless Status is empty.
func (q *Queries) ListBlogPosts(ctx context.Context, arg ListBlogPostsParams) ([]BlogPost, error) {
	return collectBlogPosts(q.db.QueryContext(ctx, listBlogPosts, arg.Status, arg.Status, arg.Limit, arg.Offset))
}

const countBlogPosts = `-- name: CountBlogPosts :one
SELECT COUNT(*) FROM blog_posts WHERE (? = '' OR status = ?)`

func (q *Queries) CountBlogPosts(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countBlogPosts, status, status).Scan(&count)
	return count, err
}

const updateBlogPost = `-- name: UpdateBlogPost :one
UPDATE blog_posts SET title = ?, slug = ?, excerpt = ?, content = ?, content_format = ?,
    rendered_html = ?, featured_image = ?, status = ?, published_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + blogPostColumns

type UpdateBlogPostParams struct {
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	ContentFormat string
	RenderedHtml  string
	FeaturedImage string
	Status        string
	PublishedAt   sql.NullTime
	UpdatedAt     time.Time
	ID            int64
}

func (q *Queries) UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error) {
	row := q.db.QueryRowContext(ctx, updateBlogPost,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.ContentFormat,
		arg.RenderedHtml,
		arg.FeaturedImage,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanBlogPost(row)
}

const deleteBlogPost = `-- name: DeleteBlogPost :execrows
DELETE FROM blog_posts WHERE id = ?`

func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBlogPost, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const blogPostSlugExists = `-- name: BlogPostSlugExists :one
SELECT COUNT(*) FROM blog_posts WHERE slug = ? AND id != ?`

type SlugExistsParams struct {
	Slug      string
	ExcludeID int64
}

func (q *Queries) BlogPostSlugExists(ctx context.Context, arg SlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, blogPostSlugExists, arg.Slug, arg.ExcludeID).Scan(&count)
	return count, err
}
