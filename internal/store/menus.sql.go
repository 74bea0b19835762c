// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const menuColumns = `id, name, location, active, created_at, updated_at`

func scanMenu(row interface{ Scan(...any) error }) (Menu, error) {
	var i Menu
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Location,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMenu = `-- name: CreateMenu :one
INSERT INTO menus (name, location, active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)
RETURNING ` + menuColumns

type CreateMenuParams struct {
	Name      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateMenu(ctx context.Context, arg CreateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, createMenu,
		arg.Name,
		arg.Location,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMenu(row)
}

const getMenuByID = `-- name: GetMenuByID :one
SELECT ` + menuColumns + ` FROM menus WHERE id = ?`

func (q *Queries) GetMenuByID(ctx context.Context, id int64) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByID, id))
}

const getMenuByLocation = `-- name: GetMenuByLocation :one
SELECT ` + menuColumns + ` FROM menus
WHERE location = ? AND (? = 0 OR active = 1)
ORDER BY active DESC, id
LIMIT 1`

type GetMenuByLocationParams struct {
	Location   string
	ActiveOnly bool
}

// GetMenuByLocation prefers an active menu when several share a location.
func (q *Queries) GetMenuByLocation(ctx context.Context, arg GetMenuByLocationParams) (Menu, error) {
	return scanMenu(q.db.QueryRowContext(ctx, getMenuByLocation, arg.Location, arg.ActiveOnly))
}

const listMenus = `-- name: ListMenus :many
SELECT ` + menuColumns + ` FROM menus ORDER BY location, name`

func (q *Queries) ListMenus(ctx context.Context) ([]Menu, error) {
	rows, err := q.db.QueryContext(ctx, listMenus)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Menu
	for rows.Next() {
		i, err := scanMenu(rows)
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

const updateMenu = `-- name: UpdateMenu :one
UPDATE menus SET name = ?, location = ?, active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + menuColumns

type UpdateMenuParams struct {
	Name      string
	Location  string
	Active    bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateMenu(ctx context.Context, arg UpdateMenuParams) (Menu, error) {
	row := q.db.QueryRowContext(ctx, updateMenu,
		arg.Name,
		arg.Location,
		arg.Active,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanMenu(row)
}

const deleteMenu = `-- name: DeleteMenu :execrows
DELETE FROM menus WHERE id = ?`

func (q *Queries) DeleteMenu(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMenu, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const menuItemColumns = `id, menu_id, parent_id, label, url, target, sort_order, active,
    created_at, updated_at`

func scanMenuItem(row interface{ Scan(...any) error }) (MenuItem, error) {
	var i MenuItem
	err := row.Scan(
		&i.ID,
		&i.MenuID,
		&i.ParentID,
		&i.Label,
		&i.Url,
		&i.Target,
		&i.SortOrder,
		&i.Active,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createMenuItem = `-- name: CreateMenuItem :one
INSERT INTO menu_items (menu_id, parent_id, label, url, target, sort_order, active,
    created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + menuItemColumns

type CreateMenuItemParams struct {
	MenuID    int64
	ParentID  sql.NullInt64
	Label     string
	Url       string
	Target    string
	SortOrder int64
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, createMenuItem,
		arg.MenuID,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.Target,
		arg.SortOrder,
		arg.Active,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanMenuItem(row)
}

const getMenuItemByID = `-- name: GetMenuItemByID :one
SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = ?`

func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRowContext(ctx, getMenuItemByID, id))
}

const listMenuItemsByMenu = `-- name: ListMenuItemsByMenu :many
SELECT ` + menuItemColumns + ` FROM menu_items
WHERE menu_id = ?
ORDER BY sort_order, id`

func (q *Queries) ListMenuItemsByMenu(ctx context.Context, menuID int64) ([]MenuItem, error) {
	rows, err := q.db.QueryContext(ctx, listMenuItemsByMenu, menuID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		i, err := scanMenuItem(rows)
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

const countMenuItemChildren = `-- name: CountMenuItemChildren :one
SELECT COUNT(*) FROM menu_items WHERE parent_id = ?`

func (q *Queries) CountMenuItemChildren(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countMenuItemChildren, parentID).Scan(&count)
	return count, err
}

const updateMenuItem = `-- name: UpdateMenuItem :one
UPDATE menu_items SET parent_id = ?, label = ?, url = ?, target = ?, sort_order = ?,
    active = ?, updated_at = ?
WHERE id = ?
RETURNING ` + menuItemColumns

type UpdateMenuItemParams struct {
	ParentID  sql.NullInt64
	Label     string
	Url       string
	Target    string
	SortOrder int64
	Active    bool
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRowContext(ctx, updateMenuItem,
		arg.ParentID,
		arg.Label,
		arg.Url,
		arg.Target,
		arg.SortOrder,
		arg.Active,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanMenuItem(row)
}

const updateMenuItemPosition = `-- name: UpdateMenuItemPosition :execrows
UPDATE menu_items SET sort_order = ?, parent_id = ?, updated_at = ?
WHERE id = ?`

type UpdateMenuItemPositionParams struct {
	SortOrder int64
	ParentID  sql.NullInt64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdateMenuItemPosition(ctx context.Context, arg UpdateMenuItemPositionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateMenuItemPosition,
		arg.SortOrder,
		arg.ParentID,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteMenuItem = `-- name: DeleteMenuItem :execrows
DELETE FROM menu_items WHERE id = ?`

func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMenuItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteMenuItemsByParent = `-- name: DeleteMenuItemsByParent :execrows
DELETE FROM menu_items WHERE parent_id = ?`

func (q *Queries) DeleteMenuItemsByParent(ctx context.Context, parentID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMenuItemsByParent, parentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteMenuItemsByMenu = `-- name: DeleteMenuItemsByMenu :execrows
DELETE FROM menu_items WHERE menu_id = ?`

func (q *Queries) DeleteMenuItemsByMenu(ctx context.Context, menuID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMenuItemsByMenu, menuID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
