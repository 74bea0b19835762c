// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/service"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the logged in user.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Login handles POST /auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account := strings.ToLower(strings.TrimSpace(req.Email))

	if h.login != nil {
		if locked, remaining := h.login.IsAccountLocked(account); locked {
			WriteError(w, http.StatusTooManyRequests, middleware.CodeRateLimited, middleware.LockedMessage(remaining), nil)
			return
		}
	}

	res, err := h.svc.Users.Login(r.Context(), req.Email, req.Password, service.LoginMeta{
		IP:        middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if h.login != nil && errors.Is(err, service.ErrInvalidCredentials) && account != "" {
			if locked, d := h.login.RecordFailedAttempt(account); locked {
				h.logger.Warn("account locked after failed logins", "email", account, "duration", d)
			}
		}
		h.writeServiceError(w, r, err, "User")
		return
	}

	if h.login != nil {
		h.login.RecordSuccessfulLogin(account)
	}
	WriteSuccess(w, LoginResponse{Token: res.Token, User: storeUserToResponse(res.User)}, nil)
}

// Profile handles GET /auth/profile.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.svc.Users.Profile(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, storeUserToResponse(user), nil)
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /auth/forgot-password. The answer is the same
// whether or not the address belongs to an account.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Users.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, map[string]string{
		"message": "If the address belongs to an account, a reset link has been sent.",
	}, nil)
}

// ResetPasswordRequest is the body of POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword handles POST /auth/reset-password.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.svc.Users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, map[string]string{"message": "Password has been reset."}, nil)
}

// UserRequest is the body of user create and update requests.
type UserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

func (req UserRequest) input() service.UserInput {
	return service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Active:   req.Active,
	}
}

// ListUsers handles GET /auth/users.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.Users.List(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, mapSlice(users, storeUserToResponse), nil)
}

// GetUser handles GET /auth/users/{id}.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	user, err := h.svc.Users.Get(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, storeUserToResponse(user), nil)
}

// CreateUser handles POST /auth/users.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.Users.Create(r.Context(), req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteCreated(w, storeUserToResponse(user))
}

// UpdateUser handles PUT /auth/users/{id}.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	var req UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.svc.Users.Update(r.Context(), middleware.UserID(r.Context()), id, req.input())
	if err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteSuccess(w, storeUserToResponse(user), nil)
}

// DeleteUser handles DELETE /auth/users/{id}.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Users.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		h.writeServiceError(w, r, err, "User")
		return
	}
	WriteNoContent(w)
}
