// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, rate limiting and request instrumentation.
package middleware

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// APIError is the JSON error body shared with the API handlers.
type APIError struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// Error codes written by the middleware.
const (
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeRateLimited  = "rate_limit_exceeded"
	CodeTimeout      = "timeout"
	CodeInternal     = "internal_error"
)

// WriteAPIError writes a JSON error response.
func WriteAPIError(w http.ResponseWriter, statusCode int, code, message string, details map[string]string) {
	var body APIError
	body.Error.Code = code
	body.Error.Message = message
	body.Error.Details = details

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// ClientIP returns the address of the caller. chi's RealIP middleware
// normally rewrites RemoteAddr already; the proxy headers are read directly
// for routers mounted without it.
func ClientIP(r *http.Request) string {
	for _, name := range []string{"X-Forwarded-For", "X-Real-IP"} {
		first, _, _ := strings.Cut(r.Header.Get(name), ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// clientLimiters holds one token bucket per client key.
type clientLimiters struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// allow takes one token from key's bucket.
func (c *clientLimiters) allow(key string) bool {
	c.mu.Lock()
	bucket, ok := c.buckets[key]
	if !ok {
		bucket = rate.NewLimiter(c.limit, c.burst)
		c.buckets[key] = bucket
	}
	c.mu.Unlock()
	return bucket.AllowN(c.now(), 1)
}

// prune forgets clients whose bucket has refilled once more than maxSize
// are tracked. A full bucket carries no state, so dropping it changes no
// decision. It returns the number of clients removed.
func (c *clientLimiters) prune(maxSize int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.buckets) <= maxSize {
		return 0
	}
	now := c.now()
	full := float64(c.burst)
	removed := 0
	for key, bucket := range c.buckets {
		if bucket.TokensAt(now) >= full {
			delete(c.buckets, key)
			removed++
		}
	}
	return removed
}

func (c *clientLimiters) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buckets)
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	clients *clientLimiters
}

// NewRateLimiter creates a per-IP limiter allowing rps requests per second
// with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{clients: newClientLimiters(rps, burst)}
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !rl.clients.allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				WriteAPIError(w, http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded. Please slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Prune drops idle clients once more than maxSize are tracked.
func (rl *RateLimiter) Prune(maxSize int) {
	if n := rl.clients.prune(maxSize); n > 0 {
		slog.Debug("pruned idle rate limiters", "removed", n)
	}
}
