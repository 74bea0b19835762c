// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const notificationColumns = `id, type, title, message, data, read, priority, expires_at, created_at`

func scanNotification(row interface{ Scan(...any) error }) (Notification, error) {
	var i Notification
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Title,
		&i.Message,
		&i.Data,
		&i.Read,
		&i.Priority,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const createNotification = `-- name: CreateNotification :one
INSERT INTO notifications (type, title, message, data, read, priority, expires_at, created_at)
VALUES (?, ?, ?, ?, 0, ?, ?, ?)
RETURNING ` + notificationColumns

type CreateNotificationParams struct {
	Type      string
	Title     string
	Message   string
	Data      string
	Priority  string
	ExpiresAt sql.NullTime
	CreatedAt time.Time
}

func (q *Queries) CreateNotification(ctx context.Context, arg CreateNotificationParams) (Notification, error) {
	row := q.db.QueryRowContext(ctx, createNotification,
		arg.Type,
		arg.Title,
		arg.Message,
		arg.Data,
		arg.Priority,
		arg.ExpiresAt,
		arg.CreatedAt,
	)
	return scanNotification(row)
}

const getNotificationByID = `-- name: GetNotificationByID :one
SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`

func (q *Queries) GetNotificationByID(ctx context.Context, id int64) (Notification, error) {
	return scanNotification(q.db.QueryRowContext(ctx, getNotificationByID, id))
}

const listNotifications = `-- name: ListNotifications :many
SELECT ` + notificationColumns + ` FROM notifications
WHERE (? = 0 OR read = 0)
  AND (? = '' OR type = ?)
  AND (? = 1 OR expires_at IS NULL OR expires_at > ?)
ORDER BY created_at DESC, id DESC
LIMIT ?`

type ListNotificationsParams struct {
	UnreadOnly     bool
	Type           string
	IncludeExpired bool
	Now            time.Time
	Limit          int64
}

func (q *Queries) ListNotifications(ctx context.Context, arg ListNotificationsParams) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications,
		arg.UnreadOnly,
		arg.Type,
		arg.Type,
		arg.IncludeExpired,
		arg.Now,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Notification
	for rows.Next() {
		i, err := scanNotification(rows)
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

const countUnreadNotifications = `-- name: CountUnreadNotifications :one
SELECT COUNT(*) FROM notifications
WHERE read = 0 AND (expires_at IS NULL OR expires_at > ?)`

func (q *Queries) CountUnreadNotifications(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUnreadNotifications, now).Scan(&count)
	return count, err
}

const updateNotification = `-- name: UpdateNotification :one
UPDATE notifications SET title = ?, message = ?, data = ?, read = ?, priority = ?, expires_at = ?
WHERE id = ?
RETURNING ` + notificationColumns

type UpdateNotificationParams struct {
	Title     string
	Message   string
	Data      string
	Read      bool
	Priority  string
	ExpiresAt sql.NullTime
	ID        int64
}

func (q *Queries) UpdateNotification(ctx context.Context, arg UpdateNotificationParams) (Notification, error) {
	row := q.db.QueryRowContext(ctx, updateNotification,
		arg.Title,
		arg.Message,
		arg.Data,
		arg.Read,
		arg.Priority,
		arg.ExpiresAt,
		arg.ID,
	)
	return scanNotification(row)
}

const markAllNotificationsRead = `-- name: MarkAllNotificationsRead :execrows
UPDATE notifications SET read = 1 WHERE read = 0`

func (q *Queries) MarkAllNotificationsRead(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, markAllNotificationsRead)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteNotification = `-- name: DeleteNotification :execrows
DELETE FROM notifications WHERE id = ?`

func (q *Queries) DeleteNotification(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteNotification, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteExpiredNotifications = `-- name: DeleteExpiredNotifications :execrows
DELETE FROM notifications WHERE expires_at IS NOT NULL AND expires_at <= ?`

func (q *Queries) DeleteExpiredNotifications(ctx context.Context, now time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredNotifications, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
