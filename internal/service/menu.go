// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

const (
	menuCachePrefix = "menu:"
	menuTreeTTL     = 10 * time.Minute
)

// MenuTree is a menu with its items resolved into two levels.
type MenuTree struct {
	ID       int64          `json:"id"`
	Name     string         `json:"name"`
	Location string         `json:"location"`
	Active   bool           `json:"active"`
	Items    []MenuTreeItem `json:"items"`
}

// MenuTreeItem is a top-level item or a child of one.
type MenuTreeItem struct {
	ID       int64          `json:"id"`
	MenuID   int64          `json:"menu_id"`
	ParentID *int64         `json:"parent_id"`
	Label    string         `json:"label"`
	URL      string         `json:"url"`
	Target   string         `json:"target"`
	Order    int64          `json:"order"`
	Active   bool           `json:"active"`
	Children []MenuTreeItem `json:"children,omitempty"`
}

// MenuInput holds menu fields. Nil fields are left unchanged on update.
type MenuInput struct {
	Name     *string
	Location *string
	Active   *bool
}

// ItemInput holds menu item fields. Nil fields are left unchanged on update.
type ItemInput struct {
	Label  *string
	URL    *string
	Target *string
	Order  *int64
	Active *bool
	// ParentSet marks ParentID as given; a nil ParentID then moves the item
	// to the top level.
	ParentSet bool
	ParentID  *int64
}

// ReorderUpdate moves one item.
type ReorderUpdate struct {
	ID       int64
	Order    int64
	ParentID *int64
}

// ReorderResult lists which updates were applied and which ids did not exist.
type ReorderResult struct {
	Updated []int64 `json:"updated"`
	Skipped []int64 `json:"skipped"`
}

// MenuService manages menus and assembles menu trees.
type MenuService struct {
	db      *sql.DB
	queries *store.Queries
	trees   *cache.TypedCache[MenuTree]
	logger  *slog.Logger
	now     func() time.Time
}

// NewMenuService creates a MenuService. Public trees are cached in c when
// it is non-nil.
func NewMenuService(db *sql.DB, c cache.Cache, logger *slog.Logger) *MenuService {
	s := &MenuService{
		db:      db,
		queries: store.New(db),
		logger:  logger,
		now:     utcNow,
	}
	if c != nil {
		s.trees = cache.NewTypedCache[MenuTree](c, menuTreeTTL)
	}
	return s
}

// GetTree returns the menu at location with its items. With publicOnly the
// menu must be active and inactive items are left out; public trees are
// served from the cache.
func (s *MenuService) GetTree(ctx context.Context, location string, publicOnly bool) (*MenuTree, error) {
	if !model.IsValidLocation(location) {
		return nil, fmt.Errorf("menu location %q: %w", location, ErrNotFound)
	}
	if !publicOnly || s.trees == nil {
		return s.loadTree(ctx, location, publicOnly)
	}
	return s.trees.GetOrSet(ctx, menuCachePrefix+"public:"+location, func() (*MenuTree, error) {
		return s.loadTree(ctx, location, true)
	})
}

func (s *MenuService) loadTree(ctx context.Context, location string, publicOnly bool) (*MenuTree, error) {
	menu, err := s.queries.GetMenuByLocation(ctx, store.GetMenuByLocationParams{
		Location:   location,
		ActiveOnly: publicOnly,
	})
	if err != nil {
		return nil, storeErr(err, "loading menu")
	}

	items, err := s.queries.ListMenuItemsByMenu(ctx, menu.ID)
	if err != nil {
		return nil, fmt.Errorf("loading menu items: %w", err)
	}

	return &MenuTree{
		ID:       menu.ID,
		Name:     menu.Name,
		Location: menu.Location,
		Active:   menu.Active,
		Items:    buildMenuTree(items, publicOnly),
	}, nil
}

// buildMenuTree resolves parent ids into a two-level tree. Items are
// ordered by sort order with the id breaking ties. Items below a child
// and items whose parent is missing or hidden are not included.
func buildMenuTree(items []store.MenuItem, publicOnly bool) []MenuTreeItem {
	sorted := slices.Clone(items)
	slices.SortFunc(sorted, func(a, b store.MenuItem) int {
		return cmp.Or(cmp.Compare(a.SortOrder, b.SortOrder), cmp.Compare(a.ID, b.ID))
	})

	children := make(map[int64][]MenuTreeItem)
	var roots []MenuTreeItem
	for _, it := range sorted {
		if publicOnly && !it.Active {
			continue
		}
		node := toTreeItem(it)
		if it.ParentID.Valid {
			children[it.ParentID.Int64] = append(children[it.ParentID.Int64], node)
		} else {
			roots = append(roots, node)
		}
	}

	tree := make([]MenuTreeItem, 0, len(roots))
	for _, root := range roots {
		root.Children = children[root.ID]
		tree = append(tree, root)
	}
	return tree
}

func toTreeItem(it store.MenuItem) MenuTreeItem {
	return MenuTreeItem{
		ID:       it.ID,
		MenuID:   it.MenuID,
		ParentID: util.Int64Ptr(it.ParentID),
		Label:    it.Label,
		URL:      it.Url,
		Target:   it.Target,
		Order:    it.SortOrder,
		Active:   it.Active,
	}
}

// ListMenus returns every menu.
func (s *MenuService) ListMenus(ctx context.Context) ([]store.Menu, error) {
	menus, err := s.queries.ListMenus(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing menus: %w", err)
	}
	return menus, nil
}

// GetMenu returns one menu.
func (s *MenuService) GetMenu(ctx context.Context, id int64) (store.Menu, error) {
	menu, err := s.queries.GetMenuByID(ctx, id)
	return menu, storeErr(err, "loading menu")
}

// CreateMenu creates a menu. Name and location are required.
func (s *MenuService) CreateMenu(ctx context.Context, in MenuInput) (store.Menu, error) {
	v := &ValidationError{}
	if in.Name == nil {
		v.Add("name", "is required")
	}
	if in.Location == nil {
		v.Add("location", "is required")
	}
	validateMenuInput(v, in)
	if err := v.Err(); err != nil {
		return store.Menu{}, err
	}

	now := s.now()
	menu, err := s.queries.CreateMenu(ctx, store.CreateMenuParams{
		Name:      strings.TrimSpace(*in.Name),
		Location:  *in.Location,
		Active:    valueOr(in.Active, true),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Menu{}, storeErr(err, "creating menu")
	}
	s.invalidate(ctx)
	return menu, nil
}

// UpdateMenu changes the given fields of a menu.
func (s *MenuService) UpdateMenu(ctx context.Context, id int64, in MenuInput) (store.Menu, error) {
	v := &ValidationError{}
	validateMenuInput(v, in)
	if err := v.Err(); err != nil {
		return store.Menu{}, err
	}

	menu, err := s.queries.GetMenuByID(ctx, id)
	if err != nil {
		return store.Menu{}, storeErr(err, "loading menu")
	}

	if in.Name != nil {
		menu.Name = strings.TrimSpace(*in.Name)
	}
	menu.Location = valueOr(in.Location, menu.Location)
	menu.Active = valueOr(in.Active, menu.Active)

	updated, err := s.queries.UpdateMenu(ctx, store.UpdateMenuParams{
		Name:      menu.Name,
		Location:  menu.Location,
		Active:    menu.Active,
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return store.Menu{}, storeErr(err, "updating menu")
	}
	s.invalidate(ctx)
	return updated, nil
}

func validateMenuInput(v *ValidationError, in MenuInput) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		switch {
		case name == "":
			v.Add("name", "is required")
		case len(name) > 100:
			v.Add("name", "must be at most 100 characters")
		}
	}
	if in.Location != nil && !model.IsValidLocation(*in.Location) {
		v.Add("location", "must be navbar or footer")
	}
}

// DeleteMenu removes a menu together with all of its items.
func (s *MenuService) DeleteMenu(ctx context.Context, id int64) error {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetMenuByID(ctx, id); err != nil {
			return storeErr(err, "loading menu")
		}
		if _, err := q.DeleteMenuItemsByMenu(ctx, id); err != nil {
			return fmt.Errorf("deleting menu items: %w", err)
		}
		n, err := q.DeleteMenu(ctx, id)
		return affected(n, err, "deleting menu")
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ListItems returns the flat item list of a menu.
func (s *MenuService) ListItems(ctx context.Context, menuID int64) ([]store.MenuItem, error) {
	if _, err := s.queries.GetMenuByID(ctx, menuID); err != nil {
		return nil, storeErr(err, "loading menu")
	}
	items, err := s.queries.ListMenuItemsByMenu(ctx, menuID)
	if err != nil {
		return nil, fmt.Errorf("listing menu items: %w", err)
	}
	return items, nil
}

// CreateItem adds an item to a menu. Label and URL are required.
func (s *MenuService) CreateItem(ctx context.Context, menuID int64, in ItemInput) (store.MenuItem, error) {
	v := &ValidationError{}
	if in.Label == nil {
		v.Add("label", "is required")
	}
	if in.URL == nil {
		v.Add("url", "is required")
	}
	validateItemInput(v, in)
	if err := v.Err(); err != nil {
		return store.MenuItem{}, err
	}

	if _, err := s.queries.GetMenuByID(ctx, menuID); err != nil {
		return store.MenuItem{}, storeErr(err, "loading menu")
	}
	if in.ParentID != nil {
		if err := checkParent(ctx, s.queries, menuID, 0, *in.ParentID); err != nil {
			return store.MenuItem{}, err
		}
	}

	now := s.now()
	item, err := s.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		MenuID:    menuID,
		ParentID:  util.NullInt64FromPtr(in.ParentID),
		Label:     strings.TrimSpace(*in.Label),
		Url:       strings.TrimSpace(*in.URL),
		Target:    valueOr(in.Target, model.TargetSelf),
		SortOrder: valueOr(in.Order, 0),
		Active:    valueOr(in.Active, true),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.MenuItem{}, storeErr(err, "creating menu item")
	}
	s.invalidate(ctx)
	return item, nil
}

// UpdateItem changes the given fields of a menu item.
func (s *MenuService) UpdateItem(ctx context.Context, id int64, in ItemInput) (store.MenuItem, error) {
	v := &ValidationError{}
	validateItemInput(v, in)
	if err := v.Err(); err != nil {
		return store.MenuItem{}, err
	}

	item, err := s.queries.GetMenuItemByID(ctx, id)
	if err != nil {
		return store.MenuItem{}, storeErr(err, "loading menu item")
	}

	if in.ParentSet {
		if in.ParentID != nil {
			if err := checkParent(ctx, s.queries, item.MenuID, id, *in.ParentID); err != nil {
				return store.MenuItem{}, err
			}
		}
		item.ParentID = util.NullInt64FromPtr(in.ParentID)
	}
	if in.Label != nil {
		item.Label = strings.TrimSpace(*in.Label)
	}
	if in.URL != nil {
		item.Url = strings.TrimSpace(*in.URL)
	}
	item.Target = valueOr(in.Target, item.Target)
	item.SortOrder = valueOr(in.Order, item.SortOrder)
	item.Active = valueOr(in.Active, item.Active)

	updated, err := s.queries.UpdateMenuItem(ctx, store.UpdateMenuItemParams{
		ParentID:  item.ParentID,
		Label:     item.Label,
		Url:       item.Url,
		Target:    item.Target,
		SortOrder: item.SortOrder,
		Active:    item.Active,
		UpdatedAt: s.now(),
		ID:        id,
	})
	if err != nil {
		return store.MenuItem{}, storeErr(err, "updating menu item")
	}
	s.invalidate(ctx)
	return updated, nil
}

func validateItemInput(v *ValidationError, in ItemInput) {
	if in.Label != nil && strings.TrimSpace(*in.Label) == "" {
		v.Add("label", "is required")
	}
	if in.URL != nil && strings.TrimSpace(*in.URL) == "" {
		v.Add("url", "is required")
	}
	if in.Target != nil && !model.IsValidTarget(*in.Target) {
		v.Add("target", "must be _self or _blank")
	}
}

// checkParent enforces the two-level shape: the parent must be a top-level
// item of the same menu, and an item that has children cannot become a
// child itself. itemID is zero for new items.
func checkParent(ctx context.Context, q *store.Queries, menuID, itemID, parentID int64) error {
	if parentID == itemID {
		return invalid("parent_id", "an item cannot be its own parent")
	}
	parent, err := q.GetMenuItemByID(ctx, parentID)
	if err != nil {
		if store.IsNotFound(err) {
			return invalid("parent_id", "parent item does not exist")
		}
		return fmt.Errorf("loading parent item: %w", err)
	}
	if parent.MenuID != menuID {
		return invalid("parent_id", "parent item belongs to another menu")
	}
	if parent.ParentID.Valid {
		return invalid("parent_id", "parent item must be a top-level item")
	}
	if itemID != 0 {
		n, err := q.CountMenuItemChildren(ctx, itemID)
		if err != nil {
			return fmt.Errorf("counting children: %w", err)
		}
		if n > 0 {
			return invalid("parent_id", "an item with children cannot become a child")
		}
	}
	return nil
}

// DeleteItem removes an item and its direct children.
func (s *MenuService) DeleteItem(ctx context.Context, id int64) error {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.DeleteMenuItemsByParent(ctx, id); err != nil {
			return fmt.Errorf("deleting child items: %w", err)
		}
		n, err := q.DeleteMenuItem(ctx, id)
		return affected(n, err, "deleting menu item")
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Reorder applies position updates in one transaction. Updates naming an
// item that does not exist are skipped and reported. Parent rules are
// checked against the state after every update is applied, so the order of
// updates within a batch does not matter; an invalid parent or a storage
// error rolls back the whole batch.
func (s *MenuService) Reorder(ctx context.Context, updates []ReorderUpdate) (ReorderResult, error) {
	res := ReorderResult{Updated: []int64{}, Skipped: []int64{}}
	if len(updates) == 0 {
		return res, invalid("items", "must not be empty")
	}

	now := s.now()
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		type move struct{ menuID, parentID int64 }
		moved := make(map[int64]move)
		for _, u := range updates {
			item, err := q.GetMenuItemByID(ctx, u.ID)
			if store.IsNotFound(err) {
				res.Skipped = append(res.Skipped, u.ID)
				continue
			}
			if err != nil {
				return fmt.Errorf("loading menu item %d: %w", u.ID, err)
			}
			if u.ParentID != nil {
				// The foreign key would reject a missing parent outright.
				if _, err := q.GetMenuItemByID(ctx, *u.ParentID); store.IsNotFound(err) {
					return fmt.Errorf("menu item %d: %w", u.ID, invalid("parent_id", "parent item does not exist"))
				} else if err != nil {
					return fmt.Errorf("loading parent item: %w", err)
				}
				moved[item.ID] = move{menuID: item.MenuID, parentID: *u.ParentID}
			} else {
				delete(moved, item.ID)
			}
			if _, err := q.UpdateMenuItemPosition(ctx, store.UpdateMenuItemPositionParams{
				SortOrder: u.Order,
				ParentID:  util.NullInt64FromPtr(u.ParentID),
				UpdatedAt: now,
				ID:        u.ID,
			}); err != nil {
				return fmt.Errorf("moving menu item %d: %w", u.ID, err)
			}
			res.Updated = append(res.Updated, u.ID)
		}
		for _, id := range res.Updated {
			m, ok := moved[id]
			if !ok {
				continue
			}
			if err := checkParent(ctx, q, m.menuID, id, m.parentID); err != nil {
				return fmt.Errorf("menu item %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return ReorderResult{}, err
	}

	if len(res.Skipped) > 0 {
		s.logger.Info("menu reorder skipped missing items", "ids", res.Skipped)
	}
	s.invalidate(ctx)
	return res, nil
}

// invalidate drops every cached menu tree.
func (s *MenuService) invalidate(ctx context.Context) {
	if s.trees == nil {
		return
	}
	if err := s.trees.DeleteByPrefix(ctx, menuCachePrefix); err != nil && !errors.Is(err, cache.ErrCacheClosed) {
		s.logger.Warn("failed to invalidate menu cache", "error", err)
	}
}
