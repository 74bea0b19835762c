// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const mediaColumns = `id, filename, original_name, mime_type, size, url, thumbnail_url,
    width, height, alt_text, uploaded_by, created_at`

func scanMedium(row interface{ Scan(...any) error }) (Medium, error) {
	var i Medium
	err := row.Scan(
		&i.ID,
		&i.Filename,
		&i.OriginalName,
		&i.MimeType,
		&i.Size,
		&i.Url,
		&i.ThumbnailUrl,
		&i.Width,
		&i.Height,
		&i.AltText,
		&i.UploadedBy,
		&i.CreatedAt,
	)
	return i, err
}

const createMedium = `-- name: CreateMedium :one
INSERT INTO media (filename, original_name, mime_type, size, url, thumbnail_url,
    width, height, alt_text, uploaded_by, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + mediaColumns

type CreateMediumParams struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Url          string
	ThumbnailUrl string
	Width        int64
	Height       int64
	AltText      string
	UploadedBy   sql.NullInt64
	CreatedAt    time.Time
}

func (q *Queries) CreateMedium(ctx context.Context, arg CreateMediumParams) (Medium, error) {
	row := q.db.QueryRowContext(ctx, createMedium,
		arg.Filename,
		arg.OriginalName,
		arg.MimeType,
		arg.Size,
		arg.Url,
		arg.ThumbnailUrl,
		arg.Width,
		arg.Height,
		arg.AltText,
		arg.UploadedBy,
		arg.CreatedAt,
	)
	return scanMedium(row)
}

const getMediumByID = `-- name: GetMediumByID :one
SELECT ` + mediaColumns + ` FROM media WHERE id = ?`

func (q *Queries) GetMediumByID(ctx context.Context, id int64) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, getMediumByID, id))
}

const listMedia = `-- name: ListMedia :many
SELECT ` + mediaColumns + ` FROM media
ORDER BY created_at DESC, id DESC
LIMIT ? OFFSET ?`

type ListMediaParams struct {
	Limit  int64
	Offset int64
}

func (q *Queries) ListMedia(ctx context.Context, arg ListMediaParams) ([]Medium, error) {
	rows, err := q.db.QueryContext(ctx, listMedia, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Medium
	for rows.Next() {
		i, err := scanMedium(rows)
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

const countMedia = `-- name: CountMedia :one
SELECT COUNT(*) FROM media`

func (q *Queries) CountMedia(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMedia).Scan(&count)
	return count, err
}

const updateMediumAltText = `-- name: UpdateMediumAltText :one
UPDATE media SET alt_text = ? WHERE id = ?
RETURNING ` + mediaColumns

type UpdateMediumAltTextParams struct {
	AltText string
	ID      int64
}

func (q *Queries) UpdateMediumAltText(ctx context.Context, arg UpdateMediumAltTextParams) (Medium, error) {
	return scanMedium(q.db.QueryRowContext(ctx, updateMediumAltText, arg.AltText, arg.ID))
}

const deleteMedium = `-- name: DeleteMedium :execrows
DELETE FROM media WHERE id = ?`

func (q *Queries) DeleteMedium(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMedium, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
