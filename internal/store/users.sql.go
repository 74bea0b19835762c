// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const userColumns = `id, name, email, password_hash, role, active, last_login_at,
    reset_token_hash, reset_token_expiry, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.PasswordHash,
		&i.Role,
		&i.Active,
		&i.LastLoginAt,
		&i.ResetTokenHash,
		&i.ResetTokenExpiry,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (name, email, password_hash, role, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + userColumns

type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Name,
		arg.Email,
		arg.PasswordHash,
		arg.Role,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanUser(row)
}

const getUserByID = `-- name: GetUserByID :one
SELECT ` + userColumns + ` FROM users WHERE id = ?`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByID, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = ? COLLATE NOCASE`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByEmail, email))
}

const getUserByResetToken = `-- name: GetUserByResetToken :one
SELECT ` + userColumns + ` FROM users
WHERE reset_token_hash = ? AND reset_token_expiry > ?`

type GetUserByResetTokenParams struct {
	ResetTokenHash string
	Now            time.Time
}

func (q *Queries) GetUserByResetToken(ctx context.Context, arg GetUserByResetTokenParams) (User, error) {
	return scanUser(q.db.QueryRowContext(ctx, getUserByResetToken, arg.ResetTokenHash, arg.Now))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users ORDER BY name`

func (q *Queries) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []User
	for rows.Next() {
		i, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateUser = `-- name: UpdateUser :one
UPDATE users SET name = ?, email = ?, role = ?, active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + userColumns

type UpdateUserParams struct {
	Name      string
	Email     string
	Role      string
	Active    bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateUser(ctx context.Context, arg UpdateUserParams) (User, error) {
	row := q.db.QueryRowContext(ctx, updateUser,
		arg.Name,
		arg.Email,
		arg.Role,
		arg.Active,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanUser(row)
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = ?, reset_token_hash = NULL, reset_token_expiry = NULL, updated_at = ?
WHERE id = ?`

type UpdateUserPasswordParams struct {
	PasswordHash string
	UpdatedAt    time.Time
	ID           int64
}

// UpdateUserPassword also clears any pending reset token.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.UpdatedAt, arg.ID)
	return err
}

const updateUserLastLogin = `-- name: UpdateUserLastLogin :exec
UPDATE users SET last_login_at = ? WHERE id = ?`

type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          int64
}

func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx, updateUserLastLogin, arg.LastLoginAt, arg.ID)
	return err
}

const setUserResetToken = `-- name: SetUserResetToken :exec
UPDATE users SET reset_token_hash = ?, reset_token_expiry = ? WHERE id = ?`

type SetUserResetTokenParams struct {
	ResetTokenHash   sql.NullString
	ResetTokenExpiry sql.NullTime
	ID               int64
}

func (q *Queries) SetUserResetToken(ctx context.Context, arg SetUserResetTokenParams) error {
	_, err := q.db.ExecContext(ctx, setUserResetToken, arg.ResetTokenHash, arg.ResetTokenExpiry, arg.ID)
	return err
}

const deleteUser = `-- name: DeleteUser :execrows
DELETE FROM users WHERE id = ?`

func (q *Queries) DeleteUser(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteUser, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countUsers = `-- name: CountUsers :one
SELECT COUNT(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}
