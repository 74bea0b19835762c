// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func serveWithTimeout(timeout time.Duration, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	Timeout(timeout)(h).ServeHTTP(rr, req)
	return rr
}

func TestTimeoutPassesResponseThrough(t *testing.T) {
	rr := serveWithTimeout(5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Refresh-Token", "fresh")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":1}`))
	}, httptest.NewRequest(http.MethodPost, "/", nil))

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if got := rr.Header().Get("X-Refresh-Token"); got != "fresh" {
		t.Errorf("X-Refresh-Token = %q, want fresh", got)
	}
	if body := rr.Body.String(); body != `{"data":1}` {
		t.Errorf("body = %q", body)
	}
}

func TestTimeoutImplicitOK(t *testing.T) {
	rr := serveWithTimeout(5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "hello" {
		t.Errorf("got %d %q, want 200 hello", rr.Code, rr.Body.String())
	}
}

func TestTimeoutSlowHandler(t *testing.T) {
	rr := serveWithTimeout(50*time.Millisecond, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Partial", "yes")
		_, _ = w.Write([]byte("partial"))
		<-r.Context().Done()
	}, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if rr.Header().Get("X-Partial") != "" {
		t.Error("headers of the timed out handler must not leak")
	}
	if body := decodeAPIError(t, rr); body.Error.Code != CodeTimeout {
		t.Errorf("error code = %q, want %q", body.Error.Code, CodeTimeout)
	}
}

func TestTimeoutCancelledRequestWritesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	started := make(chan struct{})

	go func() {
		<-started
		cancel()
	}()
	rr := serveWithTimeout(5*time.Second, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}, req)

	if rr.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rr.Body.String())
	}
}

func TestTimeoutReraisesPanic(t *testing.T) {
	defer func() {
		if p := recover(); p != "boom" {
			t.Errorf("recovered %v, want boom", p)
		}
	}()
	serveWithTimeout(5*time.Second, func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, httptest.NewRequest(http.MethodGet, "/", nil))
	t.Error("panic should propagate")
}

func TestTimeoutWriter(t *testing.T) {
	tw := &timeoutWriter{header: make(http.Header)}

	tw.WriteHeader(http.StatusAccepted)
	tw.WriteHeader(http.StatusNotFound)
	if tw.code != http.StatusAccepted {
		t.Errorf("code = %d, want first WriteHeader to win", tw.code)
	}

	tw.timedOut = true
	if _, err := tw.Write([]byte("late")); !errors.Is(err, http.ErrHandlerTimeout) {
		t.Errorf("Write() after timeout error = %v, want ErrHandlerTimeout", err)
	}
	if tw.body.Len() != 0 {
		t.Error("late write should not be buffered")
	}
}
