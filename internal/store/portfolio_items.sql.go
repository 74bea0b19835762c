// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const portfolioItemColumns = `id, title, slug, description, content, rendered_html, client, category,
    image_url, project_url, featured, sort_order, status, created_at, updated_at`

func scanPortfolioItem(row interface{ Scan(...any) error }) (PortfolioItem, error) {
	var i PortfolioItem
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.Content,
		&i.RenderedHtml,
		&i.Client,
		&i.Category,
		&i.ImageUrl,
		&i.ProjectUrl,
		&i.Featured,
		&i.SortOrder,
		&i.Status,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createPortfolioItem = `-- name: CreatePortfolioItem :one
INSERT INTO portfolio_items (title, slug, description, content, rendered_html, client, category,
    image_url, project_url, featured, sort_order, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + portfolioItemColumns

type CreatePortfolioItemParams struct {
	Title        string
	Slug         string
	Description  string
	Content      string
	RenderedHtml string
	Client       string
	Category     string
	ImageUrl     string
	ProjectUrl   string
	Featured     bool
	SortOrder    int64
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreatePortfolioItem(ctx context.Context, arg CreatePortfolioItemParams) (PortfolioItem, error) {
	row := q.db.QueryRowContext(ctx, createPortfolioItem,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Content,
		arg.RenderedHtml,
		arg.Client,
		arg.Category,
		arg.ImageUrl,
		arg.ProjectUrl,
		arg.Featured,
		arg.SortOrder,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPortfolioItem(row)
}

const getPortfolioItemByID = `-- name: GetPortfolioItemByID :one
SELECT ` + portfolioItemColumns + ` FROM portfolio_items WHERE id = ?`

func (q *Queries) GetPortfolioItemByID(ctx context.Context, id int64) (PortfolioItem, error) {
	return scanPortfolioItem(q.db.QueryRowContext(ctx, getPortfolioItemByID, id))
}

const getPortfolioItemBySlug = `-- name: GetPortfolioItemBySlug :one
SELECT ` + portfolioItemColumns + ` FROM portfolio_items WHERE slug = ?`

func (q *Queries) GetPortfolioItemBySlug(ctx context.Context, slug string) (PortfolioItem, error) {
	return scanPortfolioItem(q.db.QueryRowContext(ctx, getPortfolioItemBySlug, slug))
}

const listPortfolioItems = `-- name: ListPortfolioItems :many
SELECT ` + portfolioItemColumns + ` FROM portfolio_items
WHERE (? = '' OR status = ?)
  AND (? = '' OR category = ?)
ORDER BY featured DESC, sort_order, id`

type ListPortfolioItemsParams struct {
	Status   string
	Category string
}

func (q *Queries) ListPortfolioItems(ctx context.Context, arg ListPortfolioItemsParams) ([]PortfolioItem, error) {
	rows, err := q.db.QueryContext(ctx, listPortfolioItems, arg.Status, arg.Status, arg.Category, arg.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PortfolioItem
	for rows.Next() {
		i, err := scanPortfolioItem(rows)
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

const updatePortfolioItem = `-- name: UpdatePortfolioItem :one
UPDATE portfolio_items SET title = ?, slug = ?, description = ?, content = ?, rendered_html = ?,
    client = ?, category = ?, image_url = ?, project_url = ?, featured = ?, sort_order = ?,
    status = ?, updated_at = ?
WHERE id = ?
RETURNING ` + portfolioItemColumns

type UpdatePortfolioItemParams struct {
	Title        string
	Slug         string
	Description  string
	Content      string
	RenderedHtml string
	Client       string
	Category     string
	ImageUrl     string
	ProjectUrl   string
	Featured     bool
	SortOrder    int64
	Status       string
	UpdatedAt    time.Time
	ID           int64
}

func (q *Queries) UpdatePortfolioItem(ctx context.Context, arg UpdatePortfolioItemParams) (PortfolioItem, error) {
	row := q.db.QueryRowContext(ctx, updatePortfolioItem,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Content,
		arg.RenderedHtml,
		arg.Client,
		arg.Category,
		arg.ImageUrl,
		arg.ProjectUrl,
		arg.Featured,
		arg.SortOrder,
		arg.Status,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPortfolioItem(row)
}

const deletePortfolioItem = `-- name: DeletePortfolioItem :execrows
DELETE FROM portfolio_items WHERE id = ?`

func (q *Queries) DeletePortfolioItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deletePortfolioItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const portfolioItemSlugExists = `-- name: PortfolioItemSlugExists :one
SELECT COUNT(*) FROM portfolio_items WHERE slug = ? AND id != ?`

func (q *Queries) PortfolioItemSlugExists(ctx context.Context, arg SlugExistsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, portfolioItemSlugExists, arg.Slug, arg.ExcludeID).Scan(&count)
	return count, err
}
