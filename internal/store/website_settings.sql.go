// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const websiteSettingColumns = `setting_key, value, type, description, is_public, updated_at`

func scanWebsiteSetting(row interface{ Scan(...any) error }) (WebsiteSetting, error) {
	var i WebsiteSetting
	err := row.Scan(
		&i.SettingKey,
		&i.Value,
		&i.Type,
		&i.Description,
		&i.IsPublic,
		&i.UpdatedAt,
	)
	return i, err
}

const listWebsiteSettings = `-- name: ListWebsiteSettings :many
SELECT ` + websiteSettingColumns + ` FROM website_settings
WHERE (? = 0 OR is_public = 1)
ORDER BY setting_key`

// ListWebsiteSettings returns only public settings when publicOnly is set.
func (q *Queries) ListWebsiteSettings(ctx context.Context, publicOnly bool) ([]WebsiteSetting, error) {
	rows, err := q.db.QueryContext(ctx, listWebsiteSettings, publicOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WebsiteSetting
	for rows.Next() {
		i, err := scanWebsiteSetting(rows)
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

const getWebsiteSetting = `-- name: GetWebsiteSetting :one
SELECT ` + websiteSettingColumns + ` FROM website_settings WHERE setting_key = ?`

func (q *Queries) GetWebsiteSetting(ctx context.Context, key string) (WebsiteSetting, error) {
	return scanWebsiteSetting(q.db.QueryRowContext(ctx, getWebsiteSetting, key))
}

const upsertWebsiteSetting = `-- name: UpsertWebsiteSetting :one
INSERT INTO website_settings (setting_key, value, type, description, is_public, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(setting_key) DO UPDATE SET
    value = excluded.value,
    type = excluded.type,
    description = excluded.description,
    is_public = excluded.is_public,
    updated_at = excluded.updated_at
RETURNING ` + websiteSettingColumns

type UpsertWebsiteSettingParams struct {
	SettingKey  string
	Value       string
	Type        string
	Description string
	IsPublic    bool
	UpdatedAt   time.Time
}

func (q *Queries) UpsertWebsiteSetting(ctx context.Context, arg UpsertWebsiteSettingParams) (WebsiteSetting, error) {
	row := q.db.QueryRowContext(ctx, upsertWebsiteSetting,
		arg.SettingKey,
		arg.Value,
		arg.Type,
		arg.Description,
		arg.IsPublic,
		arg.UpdatedAt,
	)
	return scanWebsiteSetting(row)
}

const insertWebsiteSettingIfMissing = `-- name: InsertWebsiteSettingIfMissing :execrows
INSERT INTO website_settings (setting_key, value, type, description, is_public, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(setting_key) DO NOTHING`

func (q *Queries) InsertWebsiteSettingIfMissing(ctx context.Context, arg UpsertWebsiteSettingParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertWebsiteSettingIfMissing,
		arg.SettingKey,
		arg.Value,
		arg.Type,
		arg.Description,
		arg.IsPublic,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteWebsiteSetting = `-- name: DeleteWebsiteSetting :execrows
DELETE FROM website_settings WHERE setting_key = ?`

func (q *Queries) DeleteWebsiteSetting(ctx context.Context, key string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteWebsiteSetting, key)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
