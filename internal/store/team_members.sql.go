// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const teamMemberColumns = `id, name, position, bio, image_url, email, linkedin_url,
    sort_order, active, created_at, updated_at`

func scanTeamMember(row interface{ Scan(...any) error }) (TeamMember, error) {
	var i TeamMember
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Position,
		&i.Bio,
		&i.ImageUrl,
		&i.Email,
		&i.LinkedinUrl,
		&i.SortOrder,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createTeamMember = `-- name: CreateTeamMember :one
INSERT INTO team_members (name, position, bio, image_url, email, linkedin_url,
    sort_order, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + teamMemberColumns

type CreateTeamMemberParams struct {
	Name        string
	Position    string
	Bio         string
	ImageUrl    string
	Email       string
	LinkedinUrl string
	SortOrder   int64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateTeamMember(ctx context.Context, arg CreateTeamMemberParams) (TeamMember, error) {
	row := q.db.QueryRowContext(ctx, createTeamMember,
		arg.Name,
		arg.Position,
		arg.Bio,
		arg.ImageUrl,
		arg.Email,
		arg.LinkedinUrl,
		arg.SortOrder,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanTeamMember(row)
}

const getTeamMemberByID = `-- name: GetTeamMemberByID :one
SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = ?`

func (q *Queries) GetTeamMemberByID(ctx context.Context, id int64) (TeamMember, error) {
	return scanTeamMember(q.db.QueryRowContext(ctx, getTeamMemberByID, id))
}

const listTeamMembers = `-- name: ListTeamMembers :many
SELECT ` + teamMemberColumns + ` FROM team_members
WHERE (? = 0 OR active = 1)
ORDER BY sort_order, id`

// ListTeamMembers returns only active members when activeOnly is set.
func (q *Queries) ListTeamMembers(ctx context.Context, activeOnly bool) ([]TeamMember, error) {
	rows, err := q.db.QueryContext(ctx, listTeamMembers, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TeamMember
	for rows.Next() {
		i, err := scanTeamMember(rows)
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

const updateTeamMember = `-- name: UpdateTeamMember :one
UPDATE team_members SET name = ?, position = ?, bio = ?, image_url = ?, email = ?,
    linkedin_url = ?, sort_order = ?, active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + teamMemberColumns

type UpdateTeamMemberParams struct {
	Name        string
	Position    string
	Bio         string
	ImageUrl    string
	Email       string
	LinkedinUrl string
	SortOrder   int64
	Active      bool
	UpdatedAt   time.Time
	ID          int64
}

func (q *Queries) UpdateTeamMember(ctx context.Context, arg UpdateTeamMemberParams) (TeamMember, error) {
	row := q.db.QueryRowContext(ctx, updateTeamMember,
		arg.Name,
		arg.Position,
		arg.Bio,
		arg.ImageUrl,
		arg.Email,
		arg.LinkedinUrl,
		arg.SortOrder,
		arg.Active,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanTeamMember(row)
}

const deleteTeamMember = `-- name: DeleteTeamMember :execrows
DELETE FROM team_members WHERE id = ?`

func (q *Queries) DeleteTeamMember(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTeamMember, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
