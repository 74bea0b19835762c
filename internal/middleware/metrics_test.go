// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsInstrumentUsesRoutePattern(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/api/blog/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/api/pages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, path := range []string{"/api/blog/1", "/api/blog/2", "/api/pages", "/nowhere"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := promtest.ToFloat64(m.requests.WithLabelValues("GET", "/api/blog/{id}", "404")); got != 2 {
		t.Errorf("blog requests = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.requests.WithLabelValues("GET", "/api/pages", "200")); got != 1 {
		t.Errorf("pages requests = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.requests.WithLabelValues("GET", unmatchedRoute, "404")); got != 1 {
		t.Errorf("unmatched requests = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.inFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.requests.WithLabelValues("GET", "/api/health", "200").Inc()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	for _, want := range []string{"http_requests_total", "http_in_flight_requests", "go_goroutines"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}

func TestStatusWriterKeepsFirstCode(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, code: http.StatusOK}

	_, _ = sw.Write([]byte("body"))
	sw.WriteHeader(http.StatusTeapot)

	if sw.code != http.StatusOK {
		t.Errorf("code = %d, want 200", sw.code)
	}
}
