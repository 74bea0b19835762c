// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"net/url"
	"time"
)

// Config holds configuration for cache creation.
type Config struct {
	// RedisURL selects the Redis backend when set, e.g. redis://localhost:6379/0.
	RedisURL string

	// Prefix is prepended to every Redis key.
	Prefix string

	DefaultTTL time.Duration

	// MaxSize bounds the memory backend (0 = unlimited).
	MaxSize int

	CleanupInterval time.Duration
}

// DefaultConfig returns an in-memory configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "ocms-api:",
		DefaultTTL:      5 * time.Minute,
		MaxSize:         10000,
		CleanupInterval: time.Minute,
	}
}

// New creates the configured backend. When Redis is configured but
// unreachable the memory backend is used and a warning is logged.
func New(cfg Config, logger *slog.Logger) Cache {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCacheFromURL(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			logger.Info("using redis cache", "url", SanitizeRedisURL(cfg.RedisURL))
			return rc
		}
		logger.Warn("redis unavailable, falling back to memory cache",
			"url", SanitizeRedisURL(cfg.RedisURL), "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}

// SanitizeRedisURL masks the password of a Redis URL for logging.
func SanitizeRedisURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "[invalid URL]"
	}
	if u.User != nil {
		if _, hasPassword := u.User.Password(); hasPassword {
			u.User = url.UserPassword(u.User.Username(), "***")
		}
	}
	return u.String()
}
