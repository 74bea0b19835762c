// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the REST API handlers of the CMS.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/service"
)

// maxJSONBody bounds request bodies other than uploads.
const maxJSONBody = 1 << 20

// Services bundles the business logic the handlers call.
type Services struct {
	Users         *service.UserService
	Blog          *service.BlogService
	Pages         *service.PageService
	Portfolio     *service.PortfolioService
	Team          *service.TeamService
	Media         *service.MediaService
	Menus         *service.MenuService
	Contact       *service.ContactService
	Notifications *service.NotificationService
	Settings      *service.SettingsService
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	svc    Services
	gate   *auth.Gate
	login  *middleware.LoginProtection
	logger *slog.Logger
}

// NewHandler creates a new API handler. login may be nil to disable
// account lockout.
func NewHandler(svc Services, gate *auth.Gate, login *middleware.LoginProtection, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		gate:   gate,
		login:  login,
		logger: logger,
	}
}

// Response is the standard API response wrapper.
type Response struct {
	Data any `json:"data"`
	Meta any `json:"meta,omitempty"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	CodeValidation        = "validation_error"
	CodeUnauthorized      = "unauthorized"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeConflict          = "conflict"
	CodeDependencyFailure = "dependency_failure"
	CodeInternal          = "internal_error"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteSuccess writes a successful JSON response.
func WriteSuccess(w http.ResponseWriter, data any, meta any) {
	WriteJSON(w, http.StatusOK, Response{Data: data, Meta: meta})
}

// WriteCreated writes a 201 Created JSON response.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteNoContent writes a 204 response.
func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// WriteError writes an error JSON response.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// WriteBadRequest writes a 400 response for malformed input.
func WriteBadRequest(w http.ResponseWriter, message string, details map[string]string) {
	WriteError(w, http.StatusBadRequest, CodeValidation, message, details)
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message, nil)
}

// WriteInternalError writes a 500 response with a generic message.
func WriteInternalError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
}

// writeServiceError maps a service error onto the error envelope. what names
// the addressed record in not found messages, e.g. "Blog post".
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, what string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteBadRequest(w, "Validation failed", verr.Fields)
	case errors.Is(err, service.ErrNotFound):
		WriteNotFound(w, what+" not found")
	case errors.Is(err, service.ErrConflict):
		WriteError(w, http.StatusConflict, CodeConflict, what+" already exists", nil)
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid email or password", nil)
	case errors.Is(err, service.ErrInactiveUser):
		WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "Account is deactivated", nil)
	case errors.Is(err, service.ErrDelivery):
		h.logger.Warn("email delivery failed", "path", r.URL.Path, "error", err)
		WriteError(w, http.StatusBadGateway, CodeDependencyFailure, "Email could not be sent", map[string]string{
			"provider": strings.TrimPrefix(err.Error(), service.ErrDelivery.Error()+": "),
		})
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		WriteInternalError(w)
	}
}

// decodeJSON reads the request body into dst. Unknown fields are rejected
// so typos surface as errors. A failure has been written to w when false is
// returned.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		WriteBadRequest(w, msg, map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// parseID reads the {id} URL parameter. A failure has been written to w
// when false is returned.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		WriteBadRequest(w, "Invalid ID", map[string]string{"id": "must be a positive integer"})
		return 0, false
	}
	return id, true
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	return v, nil
}

// parsePagination reads page and per_page. Out of range values are clamped
// by the services.
func parsePagination(w http.ResponseWriter, r *http.Request) (service.Pagination, bool) {
	page, err := queryInt64(r, "page")
	if err != nil {
		WriteBadRequest(w, "Invalid pagination", map[string]string{"page": err.Error()})
		return service.Pagination{}, false
	}
	perPage, err := queryInt64(r, "per_page")
	if err != nil {
		WriteBadRequest(w, "Invalid pagination", map[string]string{"per_page": err.Error()})
		return service.Pagination{}, false
	}
	return service.Pagination{Page: page, PerPage: perPage}, true
}

// canRead reports whether the session may see unpublished records of r.
func (h *Handler) canRead(r *http.Request, res auth.Resource) bool {
	claims := middleware.ClaimsFromContext(r.Context())
	return claims != nil && h.gate.Allowed(claims.Role, res, auth.OpRead)
}
