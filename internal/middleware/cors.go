// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"

	"github.com/olegiv/ocms-api/internal/util"
)

// CORSConfig lists the browser origins allowed to call the API.
type CORSConfig struct {
	// Origins are exact origins such as https://example.com.
	Origins []string
	// AllowPrivate admits any origin on localhost or a private network.
	AllowPrivate bool
}

// allowOrigin reports whether origin may call the API.
func (c CORSConfig) allowOrigin(origin string) bool {
	origin = strings.TrimRight(origin, "/")
	if slices.Contains(c.Origins, origin) {
		return true
	}
	return c.AllowPrivate && util.IsPrivateNetworkOrigin(origin)
}

// CORS returns the cross-origin middleware. Credentials are allowed and the
// rolled session token header is exposed to scripts.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return cfg.allowOrigin(origin)
		},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", RefreshTokenHeader},
		ExposedHeaders:   []string{RefreshTokenHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
