// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

// Listing limits for notifications.
const (
	DefaultNotificationLimit = 50
	MaxNotificationLimit     = 200
)

// NotificationInput describes a new notification.
type NotificationInput struct {
	Type     string
	Title    string
	Message  string
	Data     json.RawMessage
	Priority string
	// ExpiresAt is optional; expired notifications drop out of listings
	// and are removed by SweepExpired.
	ExpiresAt *time.Time
}

// NotificationUpdate holds changed fields. Nil fields are left unchanged.
type NotificationUpdate struct {
	Title       *string
	Message     *string
	Data        json.RawMessage
	Read        *bool
	Priority    *string
	ExpiresAt   *time.Time
	ClearExpiry bool
}

// NotificationFilter narrows List.
type NotificationFilter struct {
	UnreadOnly     bool
	Type           string
	IncludeExpired bool
	Limit          int64
}

// NotificationService manages internal notifications.
type NotificationService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewNotificationService creates a NotificationService.
func NewNotificationService(db *sql.DB, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		queries: store.New(db),
		logger:  logger,
		now:     utcNow,
	}
}

// Create stores a notification. Priority defaults to normal and data to {}.
func (s *NotificationService) Create(ctx context.Context, in NotificationInput) (store.Notification, error) {
	if in.Priority == "" {
		in.Priority = model.PriorityNormal
	}

	v := &ValidationError{}
	if !model.IsValidNotificationType(in.Type) {
		v.Add("type", "must be one of "+strings.Join(model.ValidNotificationTypes, ", "))
	}
	if strings.TrimSpace(in.Title) == "" {
		v.Add("title", "is required")
	}
	if strings.TrimSpace(in.Message) == "" {
		v.Add("message", "is required")
	}
	if !model.IsValidPriority(in.Priority) {
		v.Add("priority", "must be one of "+strings.Join(model.ValidPriorities, ", "))
	}
	data, ok := normalizeData(in.Data)
	if !ok {
		v.Add("data", "must be valid JSON")
	}
	if err := v.Err(); err != nil {
		return store.Notification{}, err
	}

	n, err := s.queries.CreateNotification(ctx, store.CreateNotificationParams{
		Type:      in.Type,
		Title:     strings.TrimSpace(in.Title),
		Message:   strings.TrimSpace(in.Message),
		Data:      data,
		Priority:  in.Priority,
		ExpiresAt: util.NullTimeFromPtr(in.ExpiresAt),
		CreatedAt: s.now(),
	})
	if err != nil {
		return store.Notification{}, fmt.Errorf("creating notification: %w", err)
	}
	return n, nil
}

func normalizeData(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "{}", true
	}
	if !json.Valid(raw) {
		return "", false
	}
	return string(raw), true
}

// List returns notifications newest first. Expired ones are left out unless
// the filter asks for them.
func (s *NotificationService) List(ctx context.Context, f NotificationFilter) ([]store.Notification, error) {
	if f.Type != "" && !model.IsValidNotificationType(f.Type) {
		return nil, invalid("type", "unknown notification type")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	limit = min(limit, MaxNotificationLimit)

	items, err := s.queries.ListNotifications(ctx, store.ListNotificationsParams{
		UnreadOnly:     f.UnreadOnly,
		Type:           f.Type,
		IncludeExpired: f.IncludeExpired,
		Now:            s.now(),
		Limit:          limit,
	})
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return items, nil
}

// UnreadCount counts unread, unexpired notifications.
func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	n, err := s.queries.CountUnreadNotifications(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("counting notifications: %w", err)
	}
	return n, nil
}

// Get returns one notification.
func (s *NotificationService) Get(ctx context.Context, id int64) (store.Notification, error) {
	n, err := s.queries.GetNotificationByID(ctx, id)
	return n, storeErr(err, "loading notification")
}

// Update changes the given fields.
func (s *NotificationService) Update(ctx context.Context, id int64, in NotificationUpdate) (store.Notification, error) {
	n, err := s.queries.GetNotificationByID(ctx, id)
	if err != nil {
		return store.Notification{}, storeErr(err, "loading notification")
	}

	v := &ValidationError{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			v.Add("title", "must not be empty")
		}
		n.Title = strings.TrimSpace(*in.Title)
	}
	if in.Message != nil {
		if strings.TrimSpace(*in.Message) == "" {
			v.Add("message", "must not be empty")
		}
		n.Message = strings.TrimSpace(*in.Message)
	}
	if in.Priority != nil {
		if !model.IsValidPriority(*in.Priority) {
			v.Add("priority", "must be one of "+strings.Join(model.ValidPriorities, ", "))
		}
		n.Priority = *in.Priority
	}
	if in.Data != nil {
		data, ok := normalizeData(in.Data)
		if !ok {
			v.Add("data", "must be valid JSON")
		}
		n.Data = data
	}
	if err := v.Err(); err != nil {
		return store.Notification{}, err
	}

	n.Read = valueOr(in.Read, n.Read)
	switch {
	case in.ClearExpiry:
		n.ExpiresAt = sql.NullTime{}
	case in.ExpiresAt != nil:
		n.ExpiresAt = util.NullTimeFromPtr(in.ExpiresAt)
	}

	updated, err := s.queries.UpdateNotification(ctx, store.UpdateNotificationParams{
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		Read:      n.Read,
		Priority:  n.Priority,
		ExpiresAt: n.ExpiresAt,
		ID:        id,
	})
	return updated, storeErr(err, "updating notification")
}

// MarkRead flags one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (store.Notification, error) {
	read := true
	return s.Update(ctx, id, NotificationUpdate{Read: &read})
}

// MarkAllRead flags every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	n, err := s.queries.MarkAllNotificationsRead(ctx)
	if err != nil {
		return 0, fmt.Errorf("marking notifications read: %w", err)
	}
	return n, nil
}

// Delete removes a notification.
func (s *NotificationService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteNotification(ctx, id)
	return affected(n, err, "deleting notification")
}

// SweepExpired deletes notifications whose expiry is at or before now.
// It is a single statement and may run alongside other writers.
func (s *NotificationService) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.queries.DeleteExpiredNotifications(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("deleting expired notifications: %w", err)
	}
	if n > 0 {
		s.logger.Info("deleted expired notifications", "count", n)
	}
	return n, nil
}

// Sweep runs SweepExpired with the service clock.
func (s *NotificationService) Sweep(ctx context.Context) (int64, error) {
	return s.SweepExpired(ctx, s.now())
}
