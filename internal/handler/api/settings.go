// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-api/internal/service"
)

// SettingRequest is the body of setting create and update requests. Key is
// only read on create; updates take it from the URL.
type SettingRequest struct {
	Key         string  `json:"key"`
	Value       *string `json:"value"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (req SettingRequest) input() service.SettingInput {
	return service.SettingInput{
		Value:       req.Value,
		Type:        req.Type,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
}

// ListSettings handles GET /website-settings.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteSuccess(w, mapSlice(settings, storeSettingToResponse), nil)
}

// PublicSettings handles GET /website-settings/public.
func (h *Handler) PublicSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Settings.Public(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteSuccess(w, mapSlice(settings, storeSettingToPublicResponse), nil)
}

// GetSetting handles GET /website-settings/{key}.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	setting, err := h.svc.Settings.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteSuccess(w, storeSettingToResponse(setting), nil)
}

// UpsertSetting handles POST /website-settings. An existing key is overwritten.
func (h *Handler) UpsertSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	setting, err := h.svc.Settings.Upsert(r.Context(), req.Key, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteSuccess(w, storeSettingToResponse(setting), nil)
}

// UpdateSetting handles PUT /website-settings/{key}.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req SettingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	setting, err := h.svc.Settings.Update(r.Context(), chi.URLParam(r, "key"), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteSuccess(w, storeSettingToResponse(setting), nil)
}

// DeleteSetting handles DELETE /website-settings/{key}.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Settings.Delete(r.Context(), chi.URLParam(r, "key")); err != nil {
		h.writeServiceError(w, r, err, "Setting")
		return
	}
	WriteNoContent(w)
}
