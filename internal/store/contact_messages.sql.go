// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactMessageColumns = `id, name, email, subject, message, status, admin_reply, replied_at,
    created_at, updated_at`

func scanContactMessage(row interface{ Scan(...any) error }) (ContactMessage, error) {
	var i ContactMessage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Subject,
		&i.Message,
		&i.Status,
		&i.AdminReply,
		&i.RepliedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createContactMessage = `-- name: CreateContactMessage :one
INSERT INTO contact_messages (name, email, subject, message, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + contactMessageColumns

type CreateContactMessageParams struct {
	Name      string
	Email     string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, createContactMessage,
		arg.Name,
		arg.Email,
		arg.Subject,
		arg.Message,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanContactMessage(row)
}

const getContactMessageByID = `-- name: GetContactMessageByID :one
SELECT ` + contactMessageColumns + ` FROM contact_messages WHERE id = ?`

func (q *Queries) GetContactMessageByID(ctx context.Context, id int64) (ContactMessage, error) {
	return scanContactMessage(q.db.QueryRowContext(ctx, getContactMessageByID, id))
}

const listContactMessages = `-- name: ListContactMessages :many
SELECT ` + contactMessageColumns + ` FROM contact_messages
WHERE (? = '' OR status = ?)
ORDER BY created_at DESC, id DESC`

// ListContactMessages filters by status unless status is empty.
func (q *Queries) ListContactMessages(ctx context.Context, status string) ([]ContactMessage, error) {
	rows, err := q.db.QueryContext(ctx, listContactMessages, status, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ContactMessage
	for rows.Next() {
		i, err := scanContactMessage(rows)
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

const updateContactMessage = `-- name: UpdateContactMessage :one
UPDATE contact_messages SET status = ?, admin_reply = ?, replied_at = ?, updated_at = ?
WHERE id = ?
RETURNING ` + contactMessageColumns

type UpdateContactMessageParams struct {
	Status     string
	AdminReply sql.NullString
	RepliedAt  sql.NullTime
	UpdatedAt  time.Time
	ID         int64
}

func (q *Queries) UpdateContactMessage(ctx context.Context, arg UpdateContactMessageParams) (ContactMessage, error) {
	row := q.db.QueryRowContext(ctx, updateContactMessage,
		arg.Status,
		arg.AdminReply,
		arg.RepliedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanContactMessage(row)
}

const deleteContactMessage = `-- name: DeleteContactMessage :execrows
DELETE FROM contact_messages WHERE id = ?`

func (q *Queries) DeleteContactMessage(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContactMessage, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countContactMessagesByStatus = `-- name: CountContactMessagesByStatus :one
SELECT COUNT(*) FROM contact_messages WHERE status = ?`

func (q *Queries) CountContactMessagesByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countContactMessagesByStatus, status).Scan(&count)
	return count, err
}
