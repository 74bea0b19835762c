// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/olegiv/ocms-api/internal/service"
)

// NotificationRequest is the body of POST /notifications.
type NotificationRequest struct {
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Priority  string          `json:"priority"`
	ExpiresAt *time.Time      `json:"expires_at"`
}

// NotificationUpdateRequest is the body of PATCH /notifications/{id}. An
// explicit null expires_at removes the expiry.
type NotificationUpdateRequest struct {
	Title     *string             `json:"title"`
	Message   *string             `json:"message"`
	Data      json.RawMessage     `json:"data"`
	Read      *bool               `json:"read"`
	Priority  *string             `json:"priority"`
	ExpiresAt optional[time.Time] `json:"expires_at"`
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// ListNotifications handles GET /notifications. Query parameters: unread,
// type, include_expired and limit. The meta carries the unread count.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt64(r, "limit")
	if err != nil {
		WriteBadRequest(w, "Invalid query", map[string]string{"limit": err.Error()})
		return
	}
	items, err := h.svc.Notifications.List(r.Context(), service.NotificationFilter{
		UnreadOnly:     queryBool(r, "unread"),
		Type:           r.URL.Query().Get("type"),
		IncludeExpired: queryBool(r, "include_expired"),
		Limit:          limit,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	unread, err := h.svc.Notifications.UnreadCount(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, mapSlice(items, storeNotificationToResponse), map[string]int64{"unread": unread})
}

// UnreadNotificationCount handles GET /notifications/unread/count.
func (h *Handler) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.UnreadCount(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, map[string]int64{"count": n}, nil)
}

// GetNotification handles GET /notifications/{id}.
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Notifications.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, storeNotificationToResponse(n), nil)
}

// CreateNotification handles POST /notifications.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.svc.Notifications.Create(r.Context(), service.NotificationInput{
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		Priority:  req.Priority,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteCreated(w, storeNotificationToResponse(n))
}

// UpdateNotification handles PATCH /notifications/{id}.
func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req NotificationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.svc.Notifications.Update(r.Context(), id, service.NotificationUpdate{
		Title:       req.Title,
		Message:     req.Message,
		Data:        req.Data,
		Read:        req.Read,
		Priority:    req.Priority,
		ExpiresAt:   req.ExpiresAt.Value,
		ClearExpiry: req.ExpiresAt.Set && req.ExpiresAt.Value == nil,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, storeNotificationToResponse(n), nil)
}

// MarkNotificationRead handles PATCH /notifications/{id}/read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	n, err := h.svc.Notifications.MarkRead(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, storeNotificationToResponse(n), nil)
}

// MarkAllNotificationsRead handles PATCH /notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.MarkAllRead(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, map[string]int64{"updated": n}, nil)
}

// DeleteExpiredNotifications handles DELETE /notifications/expired.
func (h *Handler) DeleteExpiredNotifications(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Notifications.Sweep(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteSuccess(w, map[string]int64{"deleted": n}, nil)
}

// DeleteNotification handles DELETE /notifications/{id}.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Notifications.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Notification")
		return
	}
	WriteNoContent(w)
}
