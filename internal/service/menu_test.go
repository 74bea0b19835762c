// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/testutil"
)

func newTestMenuService(t *testing.T) (*MenuService, *sql.DB) {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return NewMenuService(db, c, testutil.TestLoggerSilent()), db
}

func createMenu(t *testing.T, svc *MenuService, name, location string) store.Menu {
	t.Helper()
	m, err := svc.CreateMenu(context.Background(), MenuInput{Name: ptr(name), Location: ptr(location)})
	require.NoError(t, err)
	return m
}

func createItem(t *testing.T, svc *MenuService, menuID int64, label string, order int64, parentID *int64) store.MenuItem {
	t.Helper()
	it, err := svc.CreateItem(context.Background(), menuID, ItemInput{
		Label:    ptr(label),
		URL:      ptr("/" + label),
		Order:    ptr(order),
		ParentID: parentID,
	})
	require.NoError(t, err)
	return it
}

func labels(items []MenuTreeItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestBuildMenuTree(t *testing.T) {
	item := func(id int64, parent int64, order int64, active bool) store.MenuItem {
		it := store.MenuItem{ID: id, MenuID: 1, Label: string(rune('A' + id - 1)), SortOrder: order, Active: active}
		if parent != 0 {
			it.ParentID = sql.NullInt64{Int64: parent, Valid: true}
		}
		return it
	}

	items := []store.MenuItem{
		item(1, 0, 2, true),  // A
		item(2, 0, 1, true),  // B
		item(3, 1, 2, true),  // C under A
		item(4, 1, 1, true),  // D under A
		item(5, 4, 0, true),  // E under D, not traversed
		item(6, 0, 1, false), // F inactive, ties with B
		item(7, 6, 0, true),  // G under inactive F
		item(8, 99, 0, true), // H with missing parent
	}

	t.Run("admin view keeps inactive items", func(t *testing.T) {
		tree := buildMenuTree(items, false)
		assert.Equal(t, []string{"B", "F", "A"}, labels(tree))
		assert.Equal(t, []string{"D", "C"}, labels(tree[2].Children))
		assert.Equal(t, []string{"G"}, labels(tree[1].Children))
		for _, child := range tree[2].Children {
			assert.Empty(t, child.Children, "grandchildren are not attached")
		}
	})

	t.Run("public view drops inactive items with their children", func(t *testing.T) {
		tree := buildMenuTree(items, true)
		assert.Equal(t, []string{"B", "A"}, labels(tree))
		assert.Equal(t, []string{"D", "C"}, labels(tree[1].Children))
	})

	t.Run("empty", func(t *testing.T) {
		tree := buildMenuTree(nil, true)
		assert.NotNil(t, tree)
		assert.Empty(t, tree)
	})
}

func TestMenuService_GetTree(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 2, nil)
	createItem(t, svc, menu.ID, "B", 1, nil)
	createItem(t, svc, menu.ID, "C", 2, &a.ID)
	d := createItem(t, svc, menu.ID, "D", 1, &a.ID)
	_, err := svc.UpdateItem(ctx, d.ID, ItemInput{Active: ptr(false)})
	require.NoError(t, err)

	tree, err := svc.GetTree(ctx, model.LocationNavbar, false)
	require.NoError(t, err)
	assert.Equal(t, menu.ID, tree.ID)
	assert.Equal(t, []string{"B", "A"}, labels(tree.Items))
	assert.Equal(t, []string{"D", "C"}, labels(tree.Items[1].Children))

	public, err := svc.GetTree(ctx, model.LocationNavbar, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, labels(public.Items[1].Children))

	_, err = svc.GetTree(ctx, model.LocationFooter, true)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetTree(ctx, "sidebar", false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMenuService_PublicTreeRequiresActiveMenu(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Footer", model.LocationFooter)
	_, err := svc.UpdateMenu(ctx, menu.ID, MenuInput{Active: ptr(false)})
	require.NoError(t, err)

	_, err = svc.GetTree(ctx, model.LocationFooter, true)
	assert.ErrorIs(t, err, ErrNotFound)

	tree, err := svc.GetTree(ctx, model.LocationFooter, false)
	require.NoError(t, err)
	assert.False(t, tree.Active)
}

func TestMenuService_CacheInvalidation(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	home := createItem(t, svc, menu.ID, "Home", 0, nil)

	tree, err := svc.GetTree(ctx, model.LocationNavbar, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Home"}, labels(tree.Items))

	_, err = svc.UpdateItem(ctx, home.ID, ItemInput{Label: ptr("Start")})
	require.NoError(t, err)

	tree, err = svc.GetTree(ctx, model.LocationNavbar, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Start"}, labels(tree.Items))
}

func TestMenuService_Validation(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	_, err := svc.CreateMenu(ctx, MenuInput{Name: ptr("Side"), Location: ptr("sidebar")})
	requireValidation(t, err, "location")

	_, err = svc.CreateMenu(ctx, MenuInput{})
	requireValidation(t, err, "name")

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	_, err = svc.CreateMenu(ctx, MenuInput{Name: ptr("Hauptmenü"), Location: ptr(model.LocationFooter)})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.CreateItem(ctx, menu.ID, ItemInput{Label: ptr("X"), URL: ptr("/x"), Target: ptr("_top")})
	requireValidation(t, err, "target")

	_, err = svc.CreateItem(ctx, 9999, ItemInput{Label: ptr("X"), URL: ptr("/x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMenuService_ParentRules(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	nav := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	footer := createMenu(t, svc, "Footer", model.LocationFooter)

	a := createItem(t, svc, nav.ID, "A", 0, nil)
	b := createItem(t, svc, nav.ID, "B", 1, nil)
	child := createItem(t, svc, nav.ID, "A1", 0, &a.ID)
	other := createItem(t, svc, footer.ID, "Impressum", 0, nil)

	_, err := svc.CreateItem(ctx, nav.ID, ItemInput{Label: ptr("X"), URL: ptr("/x"), ParentID: &child.ID})
	requireValidation(t, err, "parent_id")

	_, err = svc.CreateItem(ctx, nav.ID, ItemInput{Label: ptr("X"), URL: ptr("/x"), ParentID: &other.ID})
	requireValidation(t, err, "parent_id")

	_, err = svc.CreateItem(ctx, nav.ID, ItemInput{Label: ptr("X"), URL: ptr("/x"), ParentID: ptr(int64(9999))})
	requireValidation(t, err, "parent_id")

	_, err = svc.UpdateItem(ctx, a.ID, ItemInput{ParentSet: true, ParentID: &b.ID})
	requireValidation(t, err, "parent_id")

	_, err = svc.UpdateItem(ctx, b.ID, ItemInput{ParentSet: true, ParentID: &b.ID})
	requireValidation(t, err, "parent_id")

	moved, err := svc.UpdateItem(ctx, b.ID, ItemInput{ParentSet: true, ParentID: &a.ID})
	require.NoError(t, err)
	assert.Equal(t, a.ID, moved.ParentID.Int64)

	top, err := svc.UpdateItem(ctx, b.ID, ItemInput{ParentSet: true})
	require.NoError(t, err)
	assert.False(t, top.ParentID.Valid)
}

func TestMenuService_DeleteItemCascades(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 0, nil)
	createItem(t, svc, menu.ID, "A1", 0, &a.ID)
	createItem(t, svc, menu.ID, "A2", 1, &a.ID)
	b := createItem(t, svc, menu.ID, "B", 1, nil)

	require.NoError(t, svc.DeleteItem(ctx, a.ID))

	items, err := svc.ListItems(ctx, menu.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, b.ID, items[0].ID)

	assert.ErrorIs(t, svc.DeleteItem(ctx, a.ID), ErrNotFound)
}

func TestMenuService_DeleteMenuCascades(t *testing.T) {
	svc, db := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 0, nil)
	createItem(t, svc, menu.ID, "A1", 0, &a.ID)

	require.NoError(t, svc.DeleteMenu(ctx, menu.ID))

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM menu_items").Scan(&n))
	assert.Zero(t, n)

	_, err := svc.GetMenu(ctx, menu.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteMenu(ctx, menu.ID), ErrNotFound)
}

func TestMenuService_Reorder(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 0, nil)
	b := createItem(t, svc, menu.ID, "B", 1, nil)
	c := createItem(t, svc, menu.ID, "C", 2, nil)

	res, err := svc.Reorder(ctx, []ReorderUpdate{
		{ID: c.ID, Order: 0},
		{ID: 4242, Order: 1},
		{ID: a.ID, Order: 2},
		{ID: b.ID, Order: 0, ParentID: &c.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{c.ID, a.ID, b.ID}, res.Updated)
	assert.Equal(t, []int64{4242}, res.Skipped)

	tree, err := svc.GetTree(ctx, model.LocationNavbar, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "A"}, labels(tree.Items))
	assert.Equal(t, []string{"B"}, labels(tree.Items[0].Children))
}

func TestMenuService_ReorderRollsBackOnInvalidParent(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 0, nil)
	b := createItem(t, svc, menu.ID, "B", 1, nil)

	_, err := svc.Reorder(ctx, []ReorderUpdate{
		{ID: a.ID, Order: 5},
		{ID: b.ID, Order: 0, ParentID: &b.ID},
	})
	requireValidation(t, err, "parent_id")

	item, err := svc.queries.GetMenuItemByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.SortOrder, "first update is rolled back")

	_, err = svc.Reorder(ctx, nil)
	requireValidation(t, err, "items")
}

func TestMenuService_ReorderChecksFinalState(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	for _, reversed := range []bool{false, true} {
		menu := createMenu(t, svc, "Footer", model.LocationFooter)
		a := createItem(t, svc, menu.ID, "A", 0, nil)
		b := createItem(t, svc, menu.ID, "B", 1, nil)
		c := createItem(t, svc, menu.ID, "C", 0, &a.ID)

		// C leaves A in the same batch that moves A under B.
		updates := []ReorderUpdate{
			{ID: a.ID, Order: 0, ParentID: &b.ID},
			{ID: c.ID, Order: 2},
		}
		if reversed {
			updates[0], updates[1] = updates[1], updates[0]
		}
		_, err := svc.Reorder(ctx, updates)
		require.NoError(t, err, "reversed=%v", reversed)

		tree, err := svc.GetTree(ctx, model.LocationFooter, false)
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "C"}, labels(tree.Items))
		assert.Equal(t, []string{"A"}, labels(tree.Items[0].Children))

		// B cannot go under C once A is its child, whichever update comes first.
		updates = []ReorderUpdate{
			{ID: b.ID, Order: 0, ParentID: &c.ID},
			{ID: a.ID, Order: 0, ParentID: &b.ID},
		}
		if reversed {
			updates[0], updates[1] = updates[1], updates[0]
		}
		_, err = svc.Reorder(ctx, updates)
		requireValidation(t, err, "parent_id")

		require.NoError(t, svc.DeleteMenu(ctx, menu.ID))
	}
}

func TestMenuService_ReorderMissingParent(t *testing.T) {
	svc, _ := newTestMenuService(t)
	ctx := context.Background()

	menu := createMenu(t, svc, "Hauptmenü", model.LocationNavbar)
	a := createItem(t, svc, menu.ID, "A", 0, nil)

	missing := int64(4242)
	_, err := svc.Reorder(ctx, []ReorderUpdate{{ID: a.ID, Order: 1, ParentID: &missing}})
	requireValidation(t, err, "parent_id")
}
