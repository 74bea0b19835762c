// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides the HTTP endpoints that live outside the JSON API.
package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"syscall"
	"time"

	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/model"
	"github.com/olegiv/ocms-api/internal/version"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"

	checkTimeout = 2 * time.Second
	cacheProbe   = "health:probe"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db         *sql.DB
	cache      cache.Cache
	uploadsDir string
	version    version.Info
	startTime  time.Time
}

// NewHealthHandler creates a new health handler. c may be nil when caching
// is disabled.
func NewHealthHandler(db *sql.DB, c cache.Cache, uploadsDir string, ver version.Info) *HealthHandler {
	return &HealthHandler{
		db:         db,
		cache:      c,
		uploadsDir: uploadsDir,
		version:    ver,
		startTime:  time.Now(),
	}
}

// StartTime returns when the handler (and application) was started.
func (h *HealthHandler) StartTime() time.Time {
	return h.startTime
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus represents the overall health status (authenticated callers only).
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks,omitempty"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains system-level information.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutines"`
	NumCPU       int    `json:"num_cpus"`
	MemAlloc     string `json:"mem_alloc"`
	MemSys       string `json:"mem_sys"`
}

// Health handles GET /health. Anonymous callers get the overall status,
// signed in users add uptime and version, admins see every check and, with
// ?verbose=true, runtime figures. The route is expected behind
// middleware.OptionalSession.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	checks := map[string]Check{
		"database": h.checkDatabase(ctx),
		"disk":     h.checkDiskSpace(),
		"cache":    h.checkCache(ctx),
	}

	overallStatus := statusHealthy
	for _, c := range checks {
		if c.Status != statusHealthy {
			overallStatus = statusDegraded
			break
		}
	}

	code := http.StatusOK
	if overallStatus != statusHealthy {
		code = http.StatusServiceUnavailable
	}

	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, code, HealthStatusPublic{Status: overallStatus})
		return
	}

	status := HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.version.Short(),
	}
	if claims.Role == model.RoleAdmin {
		status.Checks = checks
		if r.URL.Query().Get("verbose") == "true" {
			status.System = h.getSystemInfo()
		}
	}
	writeJSON(w, code, status)
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - checks if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	dbCheck := h.checkDatabase(ctx)
	if dbCheck.Status == statusHealthy {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	// Only include error details for authenticated callers
	if middleware.ClaimsFromContext(r.Context()) != nil {
		resp["message"] = dbCheck.Message
	}
	writeJSON(w, http.StatusServiceUnavailable, resp)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  statusHealthy,
		Message: "Connected",
		Latency: latency.String(),
	}
}

// checkCache writes and reads back a probe key.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cache == nil {
		return Check{Status: statusHealthy, Message: "Disabled"}
	}

	start := time.Now()
	err := h.cache.Set(ctx, cacheProbe, []byte("ok"), time.Minute)
	if err == nil {
		_, err = h.cache.Get(ctx, cacheProbe)
	}
	latency := time.Since(start)

	if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		return Check{
			Status:  statusUnhealthy,
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	msg := "Reachable"
	if sp, ok := h.cache.(cache.StatsProvider); ok {
		msg = fmt.Sprintf("Reachable, %.0f%% hit rate", sp.Stats().HitRate)
	}
	return Check{Status: statusHealthy, Message: msg, Latency: latency.String()}
}

// checkDiskSpace checks available disk space in the uploads directory.
func (h *HealthHandler) checkDiskSpace() Check {
	if _, err := os.Stat(h.uploadsDir); os.IsNotExist(err) {
		// Created on the first upload.
		return Check{
			Status:  statusHealthy,
			Message: "Uploads directory does not exist yet",
		}
	}

	var stat syscall.Statfs_t
	if err := syscall.Statfs(h.uploadsDir, &stat); err != nil {
		return Check{
			Status:  statusUnhealthy,
			Message: "Failed to check disk space: " + err.Error(),
		}
	}

	availableBytes := stat.Bavail * uint64(stat.Bsize)
	available := formatBytes(availableBytes)

	const minSpace = 100 * 1024 * 1024 // 100MB
	if availableBytes < minSpace {
		return Check{
			Status:  statusDegraded,
			Message: "Low disk space: " + available + " available",
		}
	}

	return Check{
		Status:  statusHealthy,
		Message: available + " available",
	}
}

// getSystemInfo returns system-level metrics.
func (h *HealthHandler) getSystemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
