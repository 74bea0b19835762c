// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that surfaces server errors in the
// admin panel. Records at ERROR and above are also stored as system
// notifications.
package logging

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
)

const (
	// NotificationTTL is how long a logged error stays listed.
	NotificationTTL = 30 * 24 * time.Hour

	// SkipNotificationKey marks records that must not become notifications,
	// e.g. logger.Error("...", logging.SkipNotificationKey, true).
	SkipNotificationKey = "skip_notification"

	maxTitleLen = 120
)

// NotificationHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the notifications table.
type NotificationHandler struct {
	inner   slog.Handler
	queries *store.Queries
	level   slog.Level
	attrs   []slog.Attr
	groups  []string
	now     func() time.Time
}

// NewNotificationHandler creates a NotificationHandler forwarding ERROR
// records to the database.
func NewNotificationHandler(inner slog.Handler, db *sql.DB) *NotificationHandler {
	return NewNotificationHandlerWithLevel(inner, db, slog.LevelError)
}

// NewNotificationHandlerWithLevel creates a NotificationHandler with a custom
// minimum level.
func NewNotificationHandlerWithLevel(inner slog.Handler, db *sql.DB, level slog.Level) *NotificationHandler {
	return &NotificationHandler{
		inner:   inner,
		queries: store.New(db),
		level:   level,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Enabled implements slog.Handler.
func (h *NotificationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level) || level >= h.level
}

// Handle implements slog.Handler.
func (h *NotificationHandler) Handle(ctx context.Context, r slog.Record) error {
	var innerErr error
	if h.inner.Enabled(ctx, r.Level) {
		innerErr = h.inner.Handle(ctx, r)
	}

	if r.Level >= h.level && !skipped(r) {
		h.writeNotification(r)
	}

	return innerErr
}

// WithAttrs implements slog.Handler.
func (h *NotificationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), h.qualify(attrs)...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *NotificationHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// qualify prefixes attribute keys with the open groups.
func (h *NotificationHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if len(h.groups) == 0 {
		return attrs
	}
	prefix := ""
	for _, g := range h.groups {
		prefix += g + "."
	}
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: prefix + a.Key, Value: a.Value}
	}
	return out
}

func skipped(r slog.Record) bool {
	skip := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == SkipNotificationKey {
			skip = a.Value.Resolve().Kind() == slog.KindBool && a.Value.Bool()
			return false
		}
		return true
	})
	return skip
}

// writeNotification stores r. A background context keeps the write alive
// when the request context is already cancelled. Failures go to stderr, the
// logger itself would recurse.
func (h *NotificationHandler) writeNotification(r slog.Record) {
	now := h.now()
	_, err := h.queries.CreateNotification(context.Background(), store.CreateNotificationParams{
		Type:      model.NotificationSystem,
		Title:     title(r),
		Message:   r.Message,
		Data:      h.metadata(r),
		Priority:  priority(r.Level),
		ExpiresAt: sql.NullTime{Time: now.Add(NotificationTTL), Valid: true},
		CreatedAt: now,
	})
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logging: storing error notification: %v\n", err)
	}
}

func title(r slog.Record) string {
	t := "Server error: " + r.Message
	if utf8.RuneCountInString(t) <= maxTitleLen {
		return t
	}
	runes := []rune(t)
	return string(runes[:maxTitleLen-1]) + "…"
}

func priority(level slog.Level) string {
	if level > slog.LevelError {
		return model.PriorityUrgent
	}
	return model.PriorityHigh
}

// metadata collects handler and record attributes into a JSON object.
func (h *NotificationHandler) metadata(r slog.Record) string {
	data := make(map[string]any, len(h.attrs)+r.NumAttrs()+1)
	data["level"] = r.Level.String()
	for _, a := range h.attrs {
		data[a.Key] = attrValue(a.Value)
	}
	record := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		if a.Key != SkipNotificationKey {
			record = append(record, a)
		}
		return true
	})
	for _, a := range h.qualify(record) {
		data[a.Key] = attrValue(a.Value)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func attrValue(v slog.Value) any {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindGroup:
		m := make(map[string]any)
		for _, a := range v.Group() {
			m[a.Key] = attrValue(a.Value)
		}
		return m
	default:
		// Durations, times and errors read best as text.
		return v.String()
	}
}
