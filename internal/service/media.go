// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/ocms-api/internal/imaging"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/util"
)

// UploadURLPrefix is the public path uploads are served under.
const UploadURLPrefix = "/uploads/"

// MediaService stores uploaded files on disk and their metadata in the
// database.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	maxBytes  int64
	logger    *slog.Logger
	now       func() time.Time
}

// NewMediaService creates a MediaService writing below uploadDir. Uploads
// larger than maxBytes are rejected.
func NewMediaService(db *sql.DB, uploadDir string, maxBytes int64, logger *slog.Logger) *MediaService {
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		maxBytes:  maxBytes,
		logger:    logger,
		now:       utcNow,
	}
}

// MaxBytes returns the upload size limit.
func (s *MediaService) MaxBytes() int64 {
	return s.maxBytes
}

// Upload stores the file read from r. The MIME type is sniffed from the
// content, never taken from the client. Images are re-encoded with their
// EXIF orientation applied and get a thumbnail.
func (s *MediaService) Upload(ctx context.Context, r io.Reader, originalName string, uploadedBy int64) (store.Medium, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return store.Medium{}, fmt.Errorf("reading upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return store.Medium{}, invalid("file", "is empty")
	case int64(len(data)) > s.maxBytes:
		return store.Medium{}, invalid("file", fmt.Sprintf("exceeds the maximum size of %d bytes", s.maxBytes))
	}

	mimeType := s.processor.DetectMimeType(data)
	ext, ok := model.AllowedUploadTypes[mimeType]
	if !ok {
		return store.Medium{}, invalid("file", fmt.Sprintf("file type %s is not allowed", mimeType))
	}
	filename := uuid.NewString() + ext

	params := store.CreateMediumParams{
		Filename:     filename,
		OriginalName: cleanOriginalName(originalName),
		MimeType:     mimeType,
		Url:          UploadURLPrefix + filename,
		UploadedBy:   sql.NullInt64{Int64: uploadedBy, Valid: uploadedBy > 0},
		CreatedAt:    s.now(),
	}

	if model.IsImageMime(mimeType) {
		res, err := s.processor.ProcessImage(data, filename)
		if err != nil {
			return store.Medium{}, invalid("file", "could not be decoded as an image")
		}
		params.MimeType = res.MimeType
		params.Size = res.Size
		params.Width = int64(res.Width)
		params.Height = int64(res.Height)

		if _, err := s.processor.CreateThumbnail(filename, model.ThumbnailWidth); err != nil {
			s.logger.Warn("failed to create thumbnail", "filename", filename, "error", err)
		} else {
			params.ThumbnailUrl = UploadURLPrefix + path.Join(imaging.ThumbnailDir, filename)
		}
	} else {
		_, size, err := s.processor.SaveFile(bytes.NewReader(data), filename)
		if err != nil {
			return store.Medium{}, fmt.Errorf("saving upload: %w", err)
		}
		params.Size = size
	}

	m, err := s.queries.CreateMedium(ctx, params)
	if err != nil {
		if rmErr := s.processor.DeleteFiles(filename); rmErr != nil {
			s.logger.Warn("failed to clean up upload", "filename", filename, "error", rmErr)
		}
		return store.Medium{}, fmt.Errorf("creating media record: %w", err)
	}

	s.logger.Info("media uploaded", "id", m.ID, "filename", m.Filename, "mime_type", m.MimeType, "size", m.Size)
	return m, nil
}

// cleanOriginalName keeps the base name of a client supplied filename.
func cleanOriginalName(name string) string {
	name, err := util.SanitizeFilename(name)
	if err != nil {
		return ""
	}
	if len(name) > 255 {
		name = name[:255]
	}
	return name
}

// List returns a page of media, newest first.
func (s *MediaService) List(ctx context.Context, p Pagination) ([]store.Medium, PageMeta, error) {
	p = p.normalize()
	total, err := s.queries.CountMedia(ctx)
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("counting media: %w", err)
	}
	media, err := s.queries.ListMedia(ctx, store.ListMediaParams{Limit: p.PerPage, Offset: p.offset()})
	if err != nil {
		return nil, PageMeta{}, fmt.Errorf("listing media: %w", err)
	}
	return media, newPageMeta(p, total), nil
}

// Get returns one media record.
func (s *MediaService) Get(ctx context.Context, id int64) (store.Medium, error) {
	m, err := s.queries.GetMediumByID(ctx, id)
	return m, storeErr(err, "loading media")
}

// UpdateAltText changes the alternative text of an image.
func (s *MediaService) UpdateAltText(ctx context.Context, id int64, altText string) (store.Medium, error) {
	altText = strings.TrimSpace(altText)
	if len(altText) > 500 {
		return store.Medium{}, invalid("alt_text", "must be at most 500 characters")
	}
	m, err := s.queries.UpdateMediumAltText(ctx, store.UpdateMediumAltTextParams{AltText: altText, ID: id})
	return m, storeErr(err, "updating media")
}

// Delete removes the record and then its files. A failure to remove the
// files is logged since the record is already gone.
func (s *MediaService) Delete(ctx context.Context, id int64) error {
	m, err := s.queries.GetMediumByID(ctx, id)
	if err != nil {
		return storeErr(err, "loading media")
	}
	n, err := s.queries.DeleteMedium(ctx, id)
	if err := affected(n, err, "deleting media"); err != nil {
		return err
	}
	if err := s.processor.DeleteFiles(m.Filename); err != nil {
		s.logger.Warn("failed to delete media files", "id", id, "filename", m.Filename, "error", err)
	}
	return nil
}
