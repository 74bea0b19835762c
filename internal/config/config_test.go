// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"OCMS_JWT_SECRET": testSecret})
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.DBPath != "./data/ocms-api.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ServerAddr() != "localhost:5000" {
		t.Errorf("ServerAddr() = %q, want %q", cfg.ServerAddr(), "localhost:5000")
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
	if cfg.MaxUploadBytes() != 10<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
	if cfg.CacheDefaultTTL() != 5*time.Minute {
		t.Errorf("CacheDefaultTTL() = %v", cfg.CacheDefaultTTL())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if cfg.SMTPEnabled() || cfg.UseRedisCache() {
		t.Error("SMTP and Redis should be off by default")
	}
	if !slices.Equal(cfg.ExplicitOrigins(), []string{"http://localhost:3000"}) {
		t.Errorf("ExplicitOrigins() = %v", cfg.ExplicitOrigins())
	}
}

func TestLoad_CustomValues(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"OCMS_JWT_SECRET":    testSecret,
		"OCMS_DB_PATH":       "/custom/path.db",
		"OCMS_SERVER_HOST":   "0.0.0.0",
		"OCMS_SERVER_PORT":   "3000",
		"OCMS_ENV":           "production",
		"OCMS_LOG_LEVEL":     "debug",
		"OCMS_SMTP_HOST":     "smtp.example.com",
		"OCMS_SMTP_SECURE":   "true",
		"OCMS_CORS_ORIGINS":  "https://example.com/, private ,https://admin.example.com",
		"OCMS_REDIS_URL":     "redis://localhost:6379/0",
		"OCMS_MAX_UPLOAD_MB": "25",
	})
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3000" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel() = %v, want debug", cfg.SlogLevel())
	}
	if !cfg.SMTPEnabled() || !cfg.SMTPSecure {
		t.Error("SMTP settings not applied")
	}
	if !cfg.UseRedisCache() {
		t.Error("UseRedisCache() = false")
	}
	if cfg.MaxUploadBytes() != 25<<20 {
		t.Errorf("MaxUploadBytes() = %d", cfg.MaxUploadBytes())
	}
	if !cfg.AllowPrivateOrigins() {
		t.Error("AllowPrivateOrigins() = false")
	}
	want := []string{"https://example.com", "https://admin.example.com"}
	if !slices.Equal(cfg.ExplicitOrigins(), want) {
		t.Errorf("ExplicitOrigins() = %v, want %v", cfg.ExplicitOrigins(), want)
	}
}

func TestLoad_PrivateOrigins(t *testing.T) {
	tests := []struct {
		origins string
		want    bool
	}{
		{"http://localhost:3000", false},
		{"private", true},
		{"https://example.com,private", true},
		{"https://private.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.origins, func(t *testing.T) {
			cfg, err := LoadFrom(map[string]string{"OCMS_JWT_SECRET": testSecret, "OCMS_CORS_ORIGINS": tt.origins})
			if err != nil {
				t.Fatalf("LoadFrom() error: %v", err)
			}
			if got := cfg.AllowPrivateOrigins(); got != tt.want {
				t.Errorf("AllowPrivateOrigins() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		errPart string
	}{
		{"missing secret", map[string]string{}, "OCMS_JWT_SECRET"},
		{"short secret", map[string]string{"OCMS_JWT_SECRET": "short"}, "at least 32 bytes"},
		{"weak secret", map[string]string{"OCMS_JWT_SECRET": "change-me-to-32-byte-secret-key!"}, "known default"},
		{"bad port", map[string]string{"OCMS_JWT_SECRET": testSecret, "OCMS_SERVER_PORT": "70000"}, "out of range"},
		{"bad upload size", map[string]string{"OCMS_JWT_SECRET": testSecret, "OCMS_MAX_UPLOAD_MB": "0"}, "OCMS_MAX_UPLOAD_MB"},
		{"bad timeout", map[string]string{"OCMS_JWT_SECRET": testSecret, "OCMS_REQUEST_TIMEOUT": "0s"}, "OCMS_REQUEST_TIMEOUT"},
		{"seed without admin", map[string]string{"OCMS_JWT_SECRET": testSecret, "OCMS_DO_SEED": "true"}, "OCMS_ADMIN_EMAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(tt.environ)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLoad_FromProcessEnvironment(t *testing.T) {
	t.Setenv("OCMS_JWT_SECRET", testSecret)
	t.Setenv("OCMS_SERVER_PORT", "8181")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 8181 {
		t.Errorf("ServerPort = %d, want 8181", cfg.ServerPort)
	}
}

func TestSlogLevel_Unknown(t *testing.T) {
	cfg := Config{LogLevel: "verbose"}
	if cfg.SlogLevel() != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want info", cfg.SlogLevel())
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"abcdefghijklmnopqrstuvwxyzabcdef", false},
		{"abcdefghijklmnopQRSTUVWXYZ012345", true},
		{"abc-def-ghi-jkl-mno-pqr-stu-vwx1", true},
	}
	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
