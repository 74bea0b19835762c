// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func serveWithSecurityHeaders(cfg SecurityHeadersConfig, path string) *httptest.ResponseRecorder {
	handler := SecurityHeaders(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestSecurityHeaders(t *testing.T) {
	tests := []struct {
		name     string
		isDev    bool
		wantHSTS string
	}{
		{"production", false, "max-age=31536000; includeSubDomains"},
		{"development", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveWithSecurityHeaders(DefaultSecurityHeadersConfig(tt.isDev), "/api/blog")

			if got := rr.Header().Get("Strict-Transport-Security"); got != tt.wantHSTS {
				t.Errorf("HSTS = %q, want %q", got, tt.wantHSTS)
			}
			want := "default-src 'none'; base-uri 'none'; form-action 'none'; frame-ancestors 'none'"
			if got := rr.Header().Get("Content-Security-Policy"); got != want {
				t.Errorf("CSP = %q, want %q", got, want)
			}
			if got := rr.Header().Get("X-Frame-Options"); got != "DENY" {
				t.Errorf("X-Frame-Options = %q, want DENY", got)
			}
			if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
			}
			if got := rr.Header().Get("Referrer-Policy"); got != "no-referrer" {
				t.Errorf("Referrer-Policy = %q, want no-referrer", got)
			}
			if got := rr.Header().Get("Permissions-Policy"); got == "" {
				t.Error("Permissions-Policy should be set")
			}
		})
	}
}

func TestSecurityHeadersExcludePaths(t *testing.T) {
	rr := serveWithSecurityHeaders(DefaultSecurityHeadersConfig(false), "/uploads/photo.png")

	if got := rr.Header().Get("Content-Security-Policy"); got != "" {
		t.Errorf("CSP on excluded path = %q, want empty", got)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
}

func TestSecurityHeadersHSTSDisabled(t *testing.T) {
	cfg := DefaultSecurityHeadersConfig(false)
	cfg.HSTSMaxAge = 0

	rr := serveWithSecurityHeaders(cfg, "/")
	if got := rr.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("HSTS = %q, want empty", got)
	}
}

func TestBuildCSP(t *testing.T) {
	got := buildCSP(map[string]string{
		"zz-custom":   "x",
		"img-src":     "'self'",
		"default-src": "'none'",
		"aa-custom":   "y",
	})
	want := "default-src 'none'; img-src 'self'; aa-custom y; zz-custom x"
	if got != want {
		t.Errorf("buildCSP() = %q, want %q", got, want)
	}
}

func TestBuildPermissionsPolicy(t *testing.T) {
	got := buildPermissionsPolicy(map[string]string{"usb": "()", "camera": "()"})
	if want := "camera=(), usb=()"; got != want {
		t.Errorf("buildPermissionsPolicy() = %q, want %q", got, want)
	}
}
