// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStaticCache(t *testing.T) {
	tests := []struct {
		name   string
		maxAge int
		want   string
	}{
		{
			name:   "one day",
			maxAge: 86400,
			want:   "public, max-age=86400, immutable",
		},
		{
			name:   "one year",
			maxAge: 31536000,
			want:   "public, max-age=31536000, immutable",
		},
		{
			name:   "zero",
			maxAge: 0,
			want:   "public, max-age=0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := StaticCache(tt.maxAge)(okHandler)

			req := httptest.NewRequest(http.MethodGet, "/uploads/file.png", nil)
			rr := httptest.NewRecorder()
			wrapped.ServeHTTP(rr, req)

			if got := rr.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNoStore(t *testing.T) {
	rr := httptest.NewRecorder()
	NoStore(okHandler).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/users", nil))

	if got := rr.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
}
