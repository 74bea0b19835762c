// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/ocms-api/internal/middleware"
)

// multipartOverhead is the room left for multipart headers and boundaries
// on top of the file size limit.
const multipartOverhead = 1 << 20

// ListMedia handles GET /media.
func (h *Handler) ListMedia(w http.ResponseWriter, r *http.Request) {
	p, ok := parsePagination(w, r)
	if !ok {
		return
	}
	items, meta, err := h.svc.Media.List(r.Context(), p)
	if err != nil {
		h.writeServiceError(w, r, err, "Media")
		return
	}
	WriteSuccess(w, mapSlice(items, storeMediaToResponse), meta)
}

// GetMedia handles GET /media/{id}.
func (h *Handler) GetMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.Media.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "Media")
		return
	}
	WriteSuccess(w, storeMediaToResponse(item), nil)
}

// UploadMedia handles POST /media with a single file in the "file" field.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	limit := h.svc.Media.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteBadRequest(w, "Validation failed", map[string]string{"file": "exceeds the upload size limit"})
			return
		}
		WriteBadRequest(w, "Failed to parse multipart form", nil)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteBadRequest(w, "Validation failed", map[string]string{"file": "is required"})
		return
	}
	defer func() { _ = file.Close() }()

	item, err := h.svc.Media.Upload(r.Context(), file, header.Filename, middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err, "Media")
		return
	}
	WriteCreated(w, storeMediaToResponse(item))
}

// MediaRequest is the body of PUT /media/{id}.
type MediaRequest struct {
	AltText string `json:"alt_text"`
}

// UpdateMedia handles PUT /media/{id}. Only the alt text is editable.
func (h *Handler) UpdateMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req MediaRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.Media.UpdateAltText(r.Context(), id, req.AltText)
	if err != nil {
		h.writeServiceError(w, r, err, "Media")
		return
	}
	WriteSuccess(w, storeMediaToResponse(item), nil)
}

// DeleteMedia handles DELETE /media/{id}. The files go with the record.
func (h *Handler) DeleteMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Media.Delete(r.Context(), id); err != nil {
		h.writeServiceError(w, r, err, "Media")
		return
	}
	WriteNoContent(w)
}
