// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/testutil"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)
	return db
}

func TestBlogService_CreateAndPublish(t *testing.T) {
	db := newTestDB(t)
	admin := testutil.CreateAdmin(t, db)
	svc := NewBlogService(db, testutil.TestLoggerSilent())
	ctx := context.Background()

	post, err := svc.Create(ctx, admin.ID, BlogInput{
		Title:         ptr("Über München"),
		Content:       ptr("Hallo **Welt**<script>alert(1)</script>"),
		ContentFormat: ptr(model.FormatMarkdown),
	})
	require.NoError(t, err)
	assert.Equal(t, "ueber-muenchen", post.Slug)
	assert.Equal(t, model.StatusDraft, post.Status)
	assert.False(t, post.PublishedAt.Valid)
	assert.Contains(t, post.RenderedHtml, "<strong>Welt</strong>")
	assert.NotContains(t, post.RenderedHtml, "<script")
	assert.Equal(t, admin.ID, post.AuthorID.Int64)

	_, err = svc.Get(ctx, post.ID, true)
	assert.ErrorIs(t, err, ErrNotFound, "drafts are hidden from the public")
	_, err = svc.GetBySlug(ctx, post.Slug, false)
	require.NoError(t, err)

	published, err := svc.Update(ctx, post.ID, BlogInput{Status: ptr(model.StatusPublished)})
	require.NoError(t, err)
	require.True(t, published.PublishedAt.Valid)
	firstPublished := published.PublishedAt.Time

	svc.now = func() time.Time { return firstPublished.Add(time.Hour) }
	_, err = svc.Update(ctx, post.ID, BlogInput{Status: ptr(model.StatusDraft)})
	require.NoError(t, err)
	again, err := svc.Update(ctx, post.ID, BlogInput{Status: ptr(model.StatusPublished)})
	require.NoError(t, err)
	assert.True(t, again.PublishedAt.Time.Equal(firstPublished), "publish date is kept")

	public, err := svc.GetBySlug(ctx, "ueber-muenchen", true)
	require.NoError(t, err)
	assert.Equal(t, post.ID, public.ID)
}

func TestBlogService_Slugs(t *testing.T) {
	db := newTestDB(t)
	svc := NewBlogService(db, testutil.TestLoggerSilent())
	ctx := context.Background()

	first, err := svc.Create(ctx, 0, BlogInput{Title: ptr("Hallo Welt")})
	require.NoError(t, err)
	assert.False(t, first.AuthorID.Valid)

	_, err = svc.Create(ctx, 0, BlogInput{Title: ptr("Hallo, Welt!")})
	assert.ErrorIs(t, err, ErrConflict)

	second, err := svc.Create(ctx, 0, BlogInput{Title: ptr("Hallo Welt"), Slug: ptr("hallo-welt-2")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, BlogInput{Slug: ptr("hallo-welt")})
	assert.ErrorIs(t, err, ErrConflict)

	same, err := svc.Update(ctx, first.ID, BlogInput{Slug: ptr("hallo-welt"), Excerpt: ptr("kurz")})
	require.NoError(t, err, "a record may keep its own slug")
	assert.Equal(t, "kurz", same.Excerpt)

	_, err = svc.Create(ctx, 0, BlogInput{Title: ptr("x"), Slug: ptr("Not A Slug")})
	requireValidation(t, err, "slug")

	_, err = svc.Create(ctx, 0, BlogInput{Title: ptr("!!!")})
	requireValidation(t, err, "slug")
}

func TestBlogService_Validation(t *testing.T) {
	svc := NewBlogService(newTestDB(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	_, err := svc.Create(ctx, 0, BlogInput{})
	requireValidation(t, err, "title")
	_, err = svc.Create(ctx, 0, BlogInput{Title: ptr("x"), Status: ptr("archived")})
	requireValidation(t, err, "status")
	_, err = svc.Create(ctx, 0, BlogInput{Title: ptr("x"), ContentFormat: ptr("rst")})
	requireValidation(t, err, "content_format")

	_, err = svc.Update(ctx, 9999, BlogInput{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, 9999), ErrNotFound)
}

func TestBlogService_ListPagination(t *testing.T) {
	svc := NewBlogService(newTestDB(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	for i := range 5 {
		status := model.StatusPublished
		if i%2 == 1 {
			status = model.StatusDraft
		}
		_, err := svc.Create(ctx, 0, BlogInput{Title: ptr(fmt.Sprintf("Beitrag %d", i)), Status: &status})
		require.NoError(t, err)
	}

	posts, meta, err := svc.List(ctx, "", true, Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 2)
	assert.Equal(t, PageMeta{Page: 1, PerPage: 2, Total: 3, TotalPages: 2}, meta)
	for _, p := range posts {
		assert.Equal(t, model.StatusPublished, p.Status)
	}

	posts, meta, err = svc.List(ctx, "", true, Pagination{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
	assert.Equal(t, int64(2), meta.Page)

	all, meta, err := svc.List(ctx, "", false, Pagination{})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, int64(5), meta.Total)

	drafts, _, err := svc.List(ctx, model.StatusDraft, false, Pagination{})
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	// The public flag overrides a requested status.
	hidden, _, err := svc.List(ctx, model.StatusDraft, true, Pagination{})
	require.NoError(t, err)
	assert.Len(t, hidden, 3)
}

func TestPageService(t *testing.T) {
	svc := NewPageService(newTestDB(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	impressum, err := svc.Create(ctx, PageInput{
		Title:     ptr("Impressum"),
		Content:   ptr("<p>Angaben gemäß § 5 TMG</p>"),
		MetaTitle: ptr("Impressum | Example"),
		Status:    ptr(model.StatusPublished),
	})
	require.NoError(t, err)
	assert.Equal(t, "impressum", impressum.Slug)
	assert.Equal(t, "<p>Angaben gemäß § 5 TMG</p>", impressum.RenderedHtml)

	draft, err := svc.Create(ctx, PageInput{Title: ptr("Datenschutz")})
	require.NoError(t, err)

	_, err = svc.Create(ctx, PageInput{Title: ptr("Impressum")})
	assert.ErrorIs(t, err, ErrConflict)

	public, err := svc.List(ctx, "", true)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, impressum.ID, public[0].ID)

	_, err = svc.GetBySlug(ctx, "datenschutz", true)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.Update(ctx, draft.ID, PageInput{
		Content:       ptr("## Datenschutz"),
		ContentFormat: ptr(model.FormatMarkdown),
		Status:        ptr(model.StatusPublished),
	})
	require.NoError(t, err)
	assert.Contains(t, updated.RenderedHtml, "<h2")

	got, err := svc.GetBySlug(ctx, "datenschutz", true)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, draft.ID))
	_, err = svc.Get(ctx, draft.ID, false)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPortfolioService(t *testing.T) {
	svc := NewPortfolioService(newTestDB(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	web, err := svc.Create(ctx, PortfolioInput{
		Title:    ptr("Relaunch Bäckerei"),
		Content:  ptr("Neue **Website**"),
		Category: ptr("web"),
		Order:    ptr(int64(2)),
		Status:   ptr(model.StatusPublished),
	})
	require.NoError(t, err)
	assert.Equal(t, "relaunch-baeckerei", web.Slug)
	assert.Contains(t, web.RenderedHtml, "<strong>Website</strong>")

	featured, err := svc.Create(ctx, PortfolioInput{
		Title:    ptr("App"),
		Category: ptr("mobile"),
		Featured: ptr(true),
		Order:    ptr(int64(9)),
		Status:   ptr(model.StatusPublished),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, PortfolioInput{Title: ptr("Entwurf"), Category: ptr("web")})
	require.NoError(t, err)

	public, err := svc.List(ctx, "", "", true)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, featured.ID, public[0].ID, "featured items come first")

	webOnly, err := svc.List(ctx, "", "web", false)
	require.NoError(t, err)
	assert.Len(t, webOnly, 2)

	updated, err := svc.Update(ctx, web.ID, PortfolioInput{Client: ptr("Bäckerei Huber"), Featured: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Bäckerei Huber", updated.Client)
	assert.True(t, updated.Featured)
	assert.Equal(t, web.Slug, updated.Slug)

	got, err := svc.GetBySlug(ctx, web.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, web.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, web.ID))
	assert.ErrorIs(t, svc.Delete(ctx, web.ID), ErrNotFound)
}

func TestTeamService(t *testing.T) {
	svc := NewTeamService(newTestDB(t), testutil.TestLoggerSilent())
	ctx := context.Background()

	second, err := svc.Create(ctx, TeamInput{Name: ptr("Bernd"), Position: ptr("Entwickler"), Order: ptr(int64(2))})
	require.NoError(t, err)
	first, err := svc.Create(ctx, TeamInput{Name: ptr("Anna"), Position: ptr("Geschäftsführerin"), Order: ptr(int64(1))})
	require.NoError(t, err)
	hidden, err := svc.Create(ctx, TeamInput{Name: ptr("Carla"), Position: ptr("Praktikantin"), Active: ptr(false)})
	require.NoError(t, err)

	public, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, []int64{first.ID, second.ID}, []int64{public[0].ID, public[1].ID})

	all, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.Get(ctx, hidden.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Create(ctx, TeamInput{Name: ptr("Dora")})
	requireValidation(t, err, "position")
	_, err = svc.Create(ctx, TeamInput{Name: ptr("Dora"), Position: ptr("x"), Email: ptr("kein-email")})
	requireValidation(t, err, "email")

	updated, err := svc.Update(ctx, hidden.ID, TeamInput{Active: ptr(true), Bio: ptr("Neu im Team")})
	require.NoError(t, err)
	assert.True(t, updated.Active)
	assert.Equal(t, "Carla", updated.Name)
	assert.Equal(t, "Neu im Team", updated.Bio)

	require.NoError(t, svc.Delete(ctx, hidden.ID))
	assert.ErrorIs(t, svc.Delete(ctx, hidden.ID), ErrNotFound)
}
