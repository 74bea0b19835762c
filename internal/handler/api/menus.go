// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-api/internal/service"
)

// optional tells an absent JSON field apart from an explicit null.
type optional[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements json.Unmarshaler. It only runs for present fields.
func (o *optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	return json.Unmarshal(b, &o.Value)
}

// MenuRequest is the body of menu create and update requests.
type MenuRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Active   *bool   `json:"active"`
}

func (req MenuRequest) input() service.MenuInput {
	return service.MenuInput{Name: req.Name, Location: req.Location, Active: req.Active}
}

// MenuItemRequest is the body of menu item create and update requests. A
// null parent_id moves the item to the top level.
type MenuItemRequest struct {
	Label    *string         `json:"label"`
	URL      *string         `json:"url"`
	Target   *string         `json:"target"`
	Order    *int64          `json:"order"`
	Active   *bool           `json:"active"`
	ParentID optional[int64] `json:"parent_id"`
}

func (req MenuItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Label:     req.Label,
		URL:       req.URL,
		Target:    req.Target,
		Order:     req.Order,
		Active:    req.Active,
		ParentSet: req.ParentID.Set,
		ParentID:  req.ParentID.Value,
	}
}

// ReorderRequest is the body of POST /menus/items/reorder.
type ReorderRequest struct {
	Items []struct {
		ID       int64  `json:"id"`
		Order    int64  `json:"order"`
		ParentID *int64 `json:"parent_id"`
	} `json:"items"`
}

// ListMenus handles GET /menus.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	menus, err := h.svc.Menus.ListMenus(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteSuccess(w, mapSlice(menus, storeMenuToResponse), nil)
}

// GetMenu handles GET /menus/{id}.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	menu, err := h.svc.Menus.GetMenu(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteSuccess(w, storeMenuToResponse(menu), nil)
}

// CreateMenu handles POST /menus.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	var req MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	menu, err := h.svc.Menus.CreateMenu(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteCreated(w, storeMenuToResponse(menu))
}

// UpdateMenu handles PUT /menus/{id}.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req MenuRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	menu, err := h.svc.Menus.UpdateMenu(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteSuccess(w, storeMenuToResponse(menu), nil)
}

// DeleteMenu handles DELETE /menus/{id}. Its items are deleted with it.
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Menus.DeleteMenu(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteNoContent(w)
}

// MenuByLocation handles GET /menus/location/{location}: the full tree
// including inactive entries, for editing.
func (h *Handler) MenuByLocation(w http.ResponseWriter, r *http.Request) {
	h.writeTree(w, r, false)
}

// PublicMenu handles GET /menus/public/{location}: the active tree only.
func (h *Handler) PublicMenu(w http.ResponseWriter, r *http.Request) {
	h.writeTree(w, r, true)
}

func (h *Handler) writeTree(w http.ResponseWriter, r *http.Request, publicOnly bool) {
	tree, err := h.svc.Menus.GetTree(r.Context(), chi.URLParam(r, "location"), publicOnly)
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteSuccess(w, tree, nil)
}

// ListMenuItems handles GET /menus/{id}/items.
func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	items, err := h.svc.Menus.ListItems(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteSuccess(w, mapSlice(items, storeMenuItemToResponse), nil)
}

// CreateMenuItem handles POST /menus/{id}/items.
func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req MenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Menus.CreateItem(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Menu")
		return
	}
	WriteCreated(w, storeMenuItemToResponse(item))
}

// UpdateMenuItem handles PUT /menus/items/{id}.
func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req MenuItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Menus.UpdateItem(r.Context(), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Menu item")
		return
	}
	WriteSuccess(w, storeMenuItemToResponse(item), nil)
}

// DeleteMenuItem handles DELETE /menus/items/{id}. Direct children are
// deleted with the item.
func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Menus.DeleteItem(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Menu item")
		return
	}
	WriteNoContent(w)
}

// ReorderMenuItems handles POST /menus/items/reorder.
func (h *Handler) ReorderMenuItems(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updates := make([]service.ReorderUpdate, 0, len(req.Items))
	for _, it := range req.Items {
		updates = append(updates, service.ReorderUpdate{ID: it.ID, Order: it.Order, ParentID: it.ParentID})
	}
	res, err := h.svc.Menus.Reorder(r.Context(), updates)
	if err != nil {
		h.writeServiceError(w, r, err, "Menu item")
		return
	}
	WriteSuccess(w, res, nil)
}
