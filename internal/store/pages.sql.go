// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const pageColumns = `id, title, slug, content, content_format, rendered_html,
    meta_title, meta_description, status, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (Page, error) {
	var i Page
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Content,
		&i.ContentFormat,
		&i.RenderedHtml,
		&i.MetaTitle,
		&i.MetaDescription,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPage = `-- name: CreatePage :one
INSERT INTO pages (title, slug, content, content_format, rendered_html,
    meta_title, meta_description, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + pageColumns

type CreatePageParams struct {
	Title           string
	Slug            string
	Content         string
	ContentFormat   string
	RenderedHtml    string
	MetaTitle       string
	MetaDescription string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (q *Queries) CreatePage(ctx context.Context, arg CreatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, createPage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.ContentFormat,
		arg.RenderedHtml,
		arg.MetaTitle,
		arg.MetaDescription,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPage(row)
}

const getPageByID = `-- name: GetPageByID :one
SELECT ` + pageColumns + ` FROM pages WHERE id = ?`

func (q *Queries) GetPageByID(ctx context.Context, id int64) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageByID, id))
}

const getPageBySlug = `-- name: GetPageBySlug :one
SELECT ` + pageColumns + ` FROM pages WHERE slug = ?`

func (q *Queries) GetPageBySlug(ctx context.Context, slug string) (Page, error) {
	return scanPage(q.db.QueryRowContext(ctx, getPageBySlug, slug))
}

const listPages = `-- name: ListPages :many
SELECT ` + pageColumns + ` FROM pages
WHERE (? = '' OR status = ?)
ORDER BY title`

func (q *Queries) ListPages(ctx context.Context, status string) ([]Page, error) {
	rows, err := q.db.QueryContext(ctx, listPages, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Page
	for rows.Next() {
		i, err := scanPage(rows)
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

const updatePage = `-- name: UpdatePage :one
UPDATE pages SET title = ?, slug = ?, content = ?, content_format = ?, rendered_html = ?,
    meta_title = ?, meta_description = ?, status = ?, updated_at = ?
WHERE id = ?
RETURNING ` + pageColumns

type UpdatePageParams struct {
	Title           string
	Slug            string
	Content         string
	ContentFormat   string
	RenderedHtml    string
	MetaTitle       string
	MetaDescription string
	Status          string
	UpdatedAt       time.Time
	ID              int64
}

func (q *Queries) UpdatePage(ctx context.Context, arg UpdatePageParams) (Page, error) {
	row := q.db.QueryRowContext(ctx, updatePage,
		arg.Title,
		arg.Slug,
		arg.Content,
		arg.ContentFormat,
		arg.RenderedHtml,
		arg.MetaTitle,
		arg.MetaDescription,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPage(row)
}

const deletePage = `-- name: DeletePage :execrows
DELETE FROM pages WHERE id = ?`

func (q *Queries) DeletePage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const pageSlugExists = `-- name: PageSlugExists :one
SELECT COUNT(*) FROM pages WHERE slug = ? AND id != ?`

func (q *Queries) PageSlugExists(ctx context.Context, arg SlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, pageSlugExists, arg.Slug, arg.ExcludeID).Scan(&count)
	return count, err
}
