// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/ocms-api/internal/auth"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// ContextKeyClaims is the context key for the session claims.
const ContextKeyClaims ContextKey = "claims"

// RefreshTokenHeader carries the rolled session token on every
// authenticated response.
const RefreshTokenHeader = "X-Refresh-Token"

// bearerToken extracts the token from an "Authorization: Bearer" header.
// A header with another scheme yields an empty token.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireSession validates the bearer token, stores its claims in the
// request context and relays the refreshed token in RefreshTokenHeader.
// Requests without a valid token get 401.
func RequireSession(issuer *auth.SessionIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, refreshed, err := issuer.Validate(bearerToken(r))
			if err != nil {
				writeSessionError(w, err)
				return
			}
			w.Header().Set(RefreshTokenHeader, refreshed)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// OptionalSession is RequireSession for routes that serve anonymous
// clients too. A missing or invalid token leaves the request anonymous.
func OptionalSession(issuer *auth.SessionIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, refreshed, err := issuer.Validate(token)
			if err != nil {
				slog.Debug("ignoring invalid session on public route", "path", r.URL.Path, "error", err)
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set(RefreshTokenHeader, refreshed)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Authorize checks the session in the context against the gate row for
// resource and op.
func Authorize(gate *auth.Gate, resource auth.Resource, op auth.Operation) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := gate.Authorize(ClaimsFromContext(r.Context()), resource, op); err != nil {
				writeSessionError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrUnauthenticated):
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		WriteAPIError(w, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token", nil)
	case errors.Is(err, auth.ErrForbidden):
		WriteAPIError(w, http.StatusForbidden, CodeForbidden, "Insufficient permissions", nil)
	default:
		slog.Error("session check failed", "error", err)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, ContextKeyClaims, claims)
}

// ClaimsFromContext returns the session claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(ContextKeyClaims).(*auth.Claims)
	return claims
}

// UserID returns the session user ID, or 0 for anonymous requests.
func UserID(ctx context.Context) int64 {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

// Role returns the session role, or "" for anonymous requests.
func Role(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Role
	}
	return ""
}
