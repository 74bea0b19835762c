// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/testutil"
	"github.com/olegiv/ocms-api/internal/version"
)

func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

func newTestHealthHandler(t *testing.T) *HealthHandler {
	t.Helper()
	db, cleanup := testutil.TestDB(t)
	t.Cleanup(cleanup)

	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	return NewHealthHandler(db, c, t.TempDir(), version.Info{Version: "v1.2.3"})
}

// withRole attaches session claims of the given role to r.
func withRole(r *http.Request, role string) *http.Request {
	claims := &auth.Claims{UserID: 1, ID: 1, Email: "user@example.com", Role: role}
	return r.WithContext(middleware.WithClaims(r.Context(), claims))
}

// failingCache is a cache whose backend is unreachable.
type failingCache struct{ cache.Cache }

func (failingCache) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func TestHealthHandler_Health_Public(t *testing.T) {
	handler := newTestHealthHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q; want application/json", ct)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != statusHealthy {
		t.Errorf("status = %v; want healthy", resp["status"])
	}
	for _, key := range []string{"uptime", "version", "checks", "timestamp", "system"} {
		if _, ok := resp[key]; ok {
			t.Errorf("public response should not contain %s", key)
		}
	}
}

func TestHealthHandler_Health_Editor(t *testing.T) {
	handler := newTestHealthHandler(t)

	req := withRole(httptest.NewRequest(http.MethodGet, "/health", nil), model.RoleRedakteur)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Version != "v1.2.3" {
		t.Errorf("version = %q; want v1.2.3", resp.Version)
	}
	if resp.Uptime == "" {
		t.Error("uptime should not be empty")
	}
	if resp.Checks != nil {
		t.Error("non-admin response should not contain checks")
	}
}

func TestHealthHandler_Health_Admin(t *testing.T) {
	handler := newTestHealthHandler(t)

	tests := []struct {
		name           string
		queryVerbose   bool
		wantSystemInfo bool
	}{
		{name: "full details without verbose"},
		{name: "full details with verbose", queryVerbose: true, wantSystemInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/health"
			if tt.queryVerbose {
				path += "?verbose=true"
			}
			req := withRole(httptest.NewRequest(http.MethodGet, path, nil), model.RoleAdmin)
			w := httptest.NewRecorder()

			handler.Health(w, req)

			assertStatus(t, w.Code, http.StatusOK)

			var resp HealthStatus
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if resp.Status != statusHealthy {
				t.Errorf("status = %q; want healthy", resp.Status)
			}
			if resp.Timestamp.IsZero() {
				t.Error("timestamp should not be zero")
			}
			for _, name := range []string{"database", "disk", "cache"} {
				c, ok := resp.Checks[name]
				if !ok {
					t.Errorf("expected %s check in response", name)
					continue
				}
				if c.Status != statusHealthy {
					t.Errorf("%s check status = %q; want healthy", name, c.Status)
				}
			}
			if tt.wantSystemInfo && resp.System == nil {
				t.Error("expected system info in response")
			}
			if !tt.wantSystemInfo && resp.System != nil {
				t.Error("unexpected system info in response")
			}
		})
	}
}

func TestHealthHandler_Health_UnhealthyDatabase(t *testing.T) {
	handler := newTestHealthHandler(t)
	_ = handler.db.Close()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != statusDegraded {
		t.Errorf("status = %v; want degraded", resp["status"])
	}
	if _, ok := resp["checks"]; ok {
		t.Error("public degraded response should not contain checks")
	}
}

func TestHealthHandler_Health_CacheDown(t *testing.T) {
	handler := newTestHealthHandler(t)
	handler.cache = failingCache{}

	req := withRole(httptest.NewRequest(http.MethodGet, "/health", nil), model.RoleAdmin)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if got := resp.Checks["cache"].Status; got != statusUnhealthy {
		t.Errorf("cache check status = %q; want unhealthy", got)
	}
}

func TestHealthHandler_CacheDisabled(t *testing.T) {
	handler := newTestHealthHandler(t)
	handler.cache = nil

	if c := handler.checkCache(context.Background()); c.Status != statusHealthy || c.Message != "Disabled" {
		t.Errorf("checkCache() = %+v; want healthy/Disabled", c)
	}
}

// testHealthProbe tests a health probe endpoint for expected status response.
func testHealthProbe(t *testing.T, path string, handlerFn func(http.ResponseWriter, *http.Request), expectedStatus string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	handlerFn(w, req)

	assertStatus(t, w.Code, http.StatusOK)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != expectedStatus {
		t.Errorf("status = %q; want %s", resp["status"], expectedStatus)
	}
}

// testNotReadyProbe tests the readiness probe with a closed database and returns the response.
func testNotReadyProbe(t *testing.T, handler *HealthHandler, role string) map[string]string {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	if role != "" {
		req = withRole(req, role)
	}
	w := httptest.NewRecorder()

	handler.Readiness(w, req)

	assertStatus(t, w.Code, http.StatusServiceUnavailable)

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp["status"] != "not_ready" {
		t.Errorf("status = %q; want not_ready", resp["status"])
	}
	return resp
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := newTestHealthHandler(t)
	testHealthProbe(t, "/health/live", handler.Liveness, "alive")
}

func TestHealthHandler_Readiness(t *testing.T) {
	handler := newTestHealthHandler(t)
	testHealthProbe(t, "/health/ready", handler.Readiness, "ready")
}

func TestHealthHandler_Readiness_NotReady_Public(t *testing.T) {
	handler := newTestHealthHandler(t)
	_ = handler.db.Close()

	resp := testNotReadyProbe(t, handler, "")
	if _, ok := resp["message"]; ok {
		t.Error("public not_ready response should not contain error message")
	}
}

func TestHealthHandler_Readiness_NotReady_Authenticated(t *testing.T) {
	handler := newTestHealthHandler(t)
	_ = handler.db.Close()

	resp := testNotReadyProbe(t, handler, model.RoleRedakteur)
	if resp["message"] == "" {
		t.Error("authenticated not_ready response should contain the error message")
	}
}

func TestHealthHandler_DiskCheck(t *testing.T) {
	handler := newTestHealthHandler(t)

	tests := []struct {
		name     string
		setupDir func(t *testing.T) string
	}{
		{
			name:     "existing directory",
			setupDir: func(t *testing.T) string { return t.TempDir() },
		},
		{
			name:     "non-existent directory",
			setupDir: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nonexistent") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler.uploadsDir = tt.setupDir(t)
			if c := handler.checkDiskSpace(); c.Status == statusUnhealthy {
				t.Errorf("disk check status = %q (%s)", c.Status, c.Message)
			}
		})
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{500, "500 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048576, "1.00 MB"},
		{1572864, "1.50 MB"},
		{1073741824, "1.00 GB"},
		{1610612736, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := formatBytes(tt.bytes); got != tt.want {
				t.Errorf("formatBytes(%d) = %q; want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestHealthHandler_CacheStatsInMessage(t *testing.T) {
	handler := newTestHealthHandler(t)

	c := handler.checkCache(context.Background())
	if c.Status != statusHealthy {
		t.Fatalf("checkCache() status = %q (%s)", c.Status, c.Message)
	}
	if !strings.Contains(c.Message, "hit rate") {
		t.Errorf("checkCache() message = %q; want cache statistics", c.Message)
	}
}
