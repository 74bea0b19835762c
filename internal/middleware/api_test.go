// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeAPIError(t *testing.T, rr *httptest.ResponseRecorder) APIError {
	t.Helper()
	var body APIError
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	return body
}

func TestWriteAPIError(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusBadRequest, "validation_error", "Invalid input", map[string]string{
		"title": "Title is required",
	})

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	body := decodeAPIError(t, rr)
	if body.Error.Code != "validation_error" {
		t.Errorf("code = %q, want validation_error", body.Error.Code)
	}
	if body.Error.Message != "Invalid input" {
		t.Errorf("message = %q, want Invalid input", body.Error.Message)
	}
	if body.Error.Details["title"] != "Title is required" {
		t.Errorf("details = %v", body.Error.Details)
	}
}

func TestWriteAPIErrorOmitsEmptyDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteAPIError(rr, http.StatusNotFound, "not_found", "Not found", nil)

	var raw map[string]map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if _, ok := raw["error"]["details"]; ok {
		t.Error("details should be omitted when empty")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 3)
	handler := rl.Middleware()(okHandler)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/blog", nil)
		req.RemoteAddr = ip + ":1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	for i := 0; i < 3; i++ {
		if code := send("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, code)
		}
	}
	if code := send("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("over burst status = %d, want 429", code)
	}
	if code := send("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other IP status = %d, want 200", code)
	}
}

func TestRateLimiterUsesForwardedFor(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	handler := rl.Middleware()(okHandler)

	send := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", forwarded)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("203.0.113.1"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if code := send("203.0.113.2"); code != http.StatusOK {
		t.Errorf("different forwarded client status = %d, want 200", code)
	}
	if code := send("203.0.113.1"); code != http.StatusTooManyRequests {
		t.Errorf("repeat client status = %d, want 429", code)
	}
}

func TestRateLimiterPruneKeepsActiveClients(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.clients.now = func() time.Time { return now }

	rl.clients.allow("busy")
	rl.clients.allow("busy")
	rl.clients.allow("idle-a")
	rl.clients.allow("idle-b")
	now = now.Add(time.Second)

	rl.Prune(5)
	if n := rl.clients.size(); n != 3 {
		t.Fatalf("size after Prune(5) = %d, want 3 (under the limit)", n)
	}

	// One second refills the idle buckets but not the drained one.
	rl.Prune(1)
	if n := rl.clients.size(); n != 1 {
		t.Fatalf("size after Prune(1) = %d, want 1", n)
	}
	if _, ok := rl.clients.buckets["busy"]; !ok {
		t.Error("drained client should be kept")
	}
}

func TestClientLimitersReuseBucket(t *testing.T) {
	c := newClientLimiters(0.001, 1)
	if !c.allow("a") {
		t.Fatal("first request should be allowed")
	}
	if c.allow("a") {
		t.Error("second request should hit the same exhausted bucket")
	}
	if !c.allow("b") {
		t.Error("another key has its own bucket")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xForwarded string
		xRealIP    string
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "forwarded single", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1", want: "10.0.0.1"},
		{name: "forwarded chain", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1, 10.0.0.2", want: "10.0.0.1"},
		{name: "real ip", remoteAddr: "127.0.0.1:8080", xRealIP: "10.0.0.5", want: "10.0.0.5"},
		{name: "forwarded wins", remoteAddr: "127.0.0.1:8080", xForwarded: "10.0.0.1", xRealIP: "10.0.0.5", want: "10.0.0.1"},
		{name: "padded", remoteAddr: "127.0.0.1:8080", xForwarded: "  10.0.0.1  ", want: "10.0.0.1"},
		{name: "empty forwarded entry", remoteAddr: "127.0.0.1:8080", xForwarded: " , 10.0.0.2", xRealIP: "10.0.0.5", want: "10.0.0.5"},
		{name: "no port", remoteAddr: "10.1.1.1", want: "10.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwarded != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwarded)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
