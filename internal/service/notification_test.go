// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/testutil"
)

func newTestNotificationService(t *testing.T) *NotificationService {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return NewNotificationService(db, testutil.TestLoggerSilent())
}

func TestNotificationService_Create(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	n, err := svc.Create(ctx, NotificationInput{
		Type:    model.NotificationBlog,
		Title:   " Neuer Beitrag ",
		Message: "Ein Beitrag wurde veröffentlicht.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Neuer Beitrag", n.Title)
	assert.Equal(t, model.PriorityNormal, n.Priority)
	assert.Equal(t, "{}", n.Data)
	assert.False(t, n.Read)
	assert.False(t, n.ExpiresAt.Valid)

	withData, err := svc.Create(ctx, NotificationInput{
		Type:    model.NotificationUser,
		Title:   "Login",
		Message: "Neuer Login",
		Data:    json.RawMessage(`{"user_id":7}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":7}`, withData.Data)

	_, err = svc.Create(ctx, NotificationInput{Type: "chat", Title: "x", Message: "y"})
	requireValidation(t, err, "type")
	_, err = svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Message: "y"})
	requireValidation(t, err, "title")
	_, err = svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "x", Message: "y", Priority: "critical"})
	requireValidation(t, err, "priority")
	_, err = svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "x", Message: "y", Data: json.RawMessage(`{broken`)})
	requireValidation(t, err, "data")
}

func TestNotificationService_ExpiredAreHidden(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	for _, in := range []NotificationInput{
		{Type: model.NotificationSystem, Title: "abgelaufen", Message: "m", ExpiresAt: &past},
		{Type: model.NotificationSystem, Title: "gültig", Message: "m", ExpiresAt: &future},
		{Type: model.NotificationContact, Title: "ohne Ablauf", Message: "m"},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, NotificationFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	for _, n := range list {
		assert.NotEqual(t, "abgelaufen", n.Title)
	}

	all, err := svc.List(ctx, NotificationFilter{IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	contacts, err := svc.List(ctx, NotificationFilter{Type: model.NotificationContact})
	require.NoError(t, err)
	assert.Len(t, contacts, 1)

	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.List(ctx, NotificationFilter{Type: "chat"})
	requireValidation(t, err, "type")
}

func TestNotificationService_ReadState(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "a", Message: "m"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "b", Message: "m"})
	require.NoError(t, err)

	read, err := svc.MarkRead(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := svc.List(ctx, NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "b", unread[0].Title)

	n, err := svc.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err := svc.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.MarkRead(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotificationService_Update(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	expires := time.Now().UTC().Add(time.Hour)
	n, err := svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "a", Message: "m", ExpiresAt: &expires})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, n.ID, NotificationUpdate{
		Title:       ptr("neu"),
		Priority:    ptr(model.PriorityUrgent),
		ClearExpiry: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "neu", updated.Title)
	assert.Equal(t, model.PriorityUrgent, updated.Priority)
	assert.False(t, updated.ExpiresAt.Valid)

	_, err = svc.Update(ctx, n.ID, NotificationUpdate{Title: ptr(" ")})
	requireValidation(t, err, "title")

	require.NoError(t, svc.Delete(ctx, n.ID))
	assert.ErrorIs(t, svc.Delete(ctx, n.ID), ErrNotFound)
}

func TestNotificationService_SweepExpired(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	for _, exp := range []*time.Time{&past, &past, &future, nil} {
		_, err := svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "t", Message: "m", ExpiresAt: exp})
		require.NoError(t, err)
	}

	deleted, err := svc.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	again, err := svc.SweepExpired(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, again)

	svc.now = func() time.Time { return now }
	left, err := svc.List(ctx, NotificationFilter{IncludeExpired: true})
	require.NoError(t, err)
	assert.Len(t, left, 2)
}

func TestNotificationService_SweepWithConcurrentWrites(t *testing.T) {
	svc := newTestNotificationService(t)
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	for range 20 {
		_, err := svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "alt", Message: "m", ExpiresAt: &past})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 11)
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := svc.Sweep(ctx)
		errs <- err
	}()
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, NotificationInput{Type: model.NotificationSystem, Title: "neu", Message: "m"})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, NotificationFilter{IncludeExpired: true, Limit: MaxNotificationLimit})
	require.NoError(t, err)
	assert.Len(t, list, 10)
}
