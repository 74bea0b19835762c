// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/ocms-api/internal/imaging"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/testutil"
)

func newTestMediaService(t *testing.T, maxBytes int64) (*MediaService, string) {
	t.Helper()
	dir := t.TempDir()
	return NewMediaService(newTestDB(t), dir, maxBytes, testutil.TestLoggerSilent()), dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService_UploadImage(t *testing.T) {
	svc, dir := newTestMediaService(t, 10<<20)
	ctx := context.Background()

	m, err := svc.Upload(ctx, bytes.NewReader(pngBytes(t, 800, 600)), `C:\Users\anna\Bild 1.png`, 0)
	require.NoError(t, err)

	assert.Equal(t, model.MimeTypePNG, m.MimeType)
	assert.Equal(t, "Bild 1.png", m.OriginalName)
	assert.True(t, strings.HasSuffix(m.Filename, ".png"))
	assert.Equal(t, "/uploads/"+m.Filename, m.Url)
	assert.Equal(t, "/uploads/thumbnails/"+m.Filename, m.ThumbnailUrl)
	assert.Equal(t, int64(800), m.Width)
	assert.Equal(t, int64(600), m.Height)
	assert.False(t, m.UploadedBy.Valid)

	assert.FileExists(t, filepath.Join(dir, m.Filename))
	thumbPath := filepath.Join(dir, imaging.ThumbnailDir, m.Filename)
	require.FileExists(t, thumbPath)

	f, err := os.Open(thumbPath)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, model.ThumbnailWidth, cfg.Width)
	assert.Equal(t, 300, cfg.Height)

	require.NoError(t, svc.Delete(ctx, m.ID))
	assert.NoFileExists(t, filepath.Join(dir, m.Filename))
	assert.NoFileExists(t, thumbPath)
	assert.ErrorIs(t, svc.Delete(ctx, m.ID), ErrNotFound)
}

func TestMediaService_UploadDocument(t *testing.T) {
	svc, dir := newTestMediaService(t, 10<<20)
	ctx := context.Background()

	pdf := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n")
	m, err := svc.Upload(ctx, bytes.NewReader(pdf), "preisliste.exe", 0)
	require.NoError(t, err)

	assert.Equal(t, model.MimeTypePDF, m.MimeType)
	assert.True(t, strings.HasSuffix(m.Filename, ".pdf"), "extension follows the sniffed type")
	assert.Empty(t, m.ThumbnailUrl)
	assert.Equal(t, int64(len(pdf)), m.Size)
	assert.FileExists(t, filepath.Join(dir, m.Filename))
}

func TestMediaService_UploadRejects(t *testing.T) {
	oversized := pngBytes(t, 200, 200)
	svc, dir := newTestMediaService(t, int64(len(oversized)-1))
	ctx := context.Background()

	_, err := svc.Upload(ctx, strings.NewReader("just some text"), "notes.png", 0)
	requireValidation(t, err, "file")

	_, err = svc.Upload(ctx, bytes.NewReader(nil), "empty.png", 0)
	requireValidation(t, err, "file")

	_, err = svc.Upload(ctx, bytes.NewReader(oversized), "big.png", 0)
	requireValidation(t, err, "file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave no files")
}

func TestMediaService_ListAndAltText(t *testing.T) {
	svc, _ := newTestMediaService(t, 10<<20)
	ctx := context.Background()

	var ids []int64
	for range 3 {
		m, err := svc.Upload(ctx, bytes.NewReader(pngBytes(t, 10, 10)), "x.png", 0)
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	list, meta, err := svc.List(ctx, Pagination{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, int64(3), meta.Total)
	assert.Equal(t, int64(2), meta.TotalPages)

	m, err := svc.UpdateAltText(ctx, ids[0], "  Logo  ")
	require.NoError(t, err)
	assert.Equal(t, "Logo", m.AltText)

	_, err = svc.UpdateAltText(ctx, ids[0], strings.Repeat("a", 501))
	requireValidation(t, err, "alt_text")

	_, err = svc.UpdateAltText(ctx, 9999, "x")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], got.ID)
}

func TestCleanOriginalName(t *testing.T) {
	assert.Equal(t, "a.png", cleanOriginalName("../../a.png"))
	assert.Equal(t, "b.jpg", cleanOriginalName(`C:\tmp\b.jpg`))
	assert.Equal(t, "", cleanOriginalName(""))
	assert.Len(t, cleanOriginalName(strings.Repeat("x", 300)), 255)
}
