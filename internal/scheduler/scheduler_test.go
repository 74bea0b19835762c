// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeSweeper struct {
	calls   int
	deleted int64
	err     error
}

func (f *fakeSweeper) Sweep(context.Context) (int64, error) {
	f.calls++
	return f.deleted, f.err
}

type fakePruner struct{ sizes []int }

func (f *fakePruner) Prune(maxSize int) { f.sizes = append(f.sizes, maxSize) }

func TestNew(t *testing.T) {
	logger := testLogger()

	s := New(logger)
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
	if len(s.List()) != 0 {
		t.Error("New() scheduler should have no jobs")
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(testLogger())
	if err := s.Add("noop", "does nothing", "@hourly", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	s.Stop()
}

func TestScheduler_Add(t *testing.T) {
	s := New(testLogger())
	noop := func(context.Context) error { return nil }

	if err := s.Add("sweep", "first", "@hourly", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("sweep", "again", "@hourly", noop); err == nil {
		t.Error("Add() with duplicate name should fail")
	}
	if err := s.Add("broken", "bad schedule", "not a cron line", noop); err == nil {
		t.Error("Add() with invalid schedule should fail")
	}
	if err := s.Add("prune", "second", "*/10 * * * *", noop); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	jobs := s.List()
	if len(jobs) != 2 {
		t.Fatalf("List() returned %d jobs, want 2", len(jobs))
	}
	if jobs[0].Name != "prune" || jobs[1].Name != "sweep" {
		t.Errorf("List() not sorted by name: %q, %q", jobs[0].Name, jobs[1].Name)
	}
	if jobs[1].Schedule != "@hourly" || jobs[1].Description != "first" {
		t.Errorf("List()[1] = %+v", jobs[1])
	}
}

func TestScheduler_NextRunAfterStart(t *testing.T) {
	s := New(testLogger())
	if err := s.Add("sweep", "", NotificationSweepSchedule, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	s.Start()
	defer s.Stop()

	if next := s.List()[0].NextRun; next.IsZero() {
		t.Error("NextRun should be set once the scheduler runs")
	}
}

func TestScheduler_TriggerNow(t *testing.T) {
	s := New(testLogger())
	sweeper := &fakeSweeper{deleted: 4}
	if err := s.Add("sweep", "", NotificationSweepSchedule, SweepNotifications(sweeper, testLogger())); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.TriggerNow(context.Background(), "sweep"); err != nil {
		t.Fatalf("TriggerNow() error = %v", err)
	}
	if sweeper.calls != 1 {
		t.Errorf("sweeper called %d times, want 1", sweeper.calls)
	}

	if err := s.TriggerNow(context.Background(), "missing"); err == nil {
		t.Error("TriggerNow() for unknown job should fail")
	}
}

func TestSweepNotifications_Error(t *testing.T) {
	want := errors.New("database is locked")
	job := SweepNotifications(&fakeSweeper{err: want}, testLogger())

	if err := job(context.Background()); !errors.Is(err, want) {
		t.Errorf("job() error = %v, want %v", err, want)
	}
}

func TestScheduler_RunLogsFailure(t *testing.T) {
	s := New(testLogger())
	job := &registeredJob{name: "failing", fn: func(context.Context) error { return errors.New("boom") }}

	// Must not panic; the error only goes to the log.
	s.run(job)
}

func TestPruneLimiters(t *testing.T) {
	a, b := &fakePruner{}, &fakePruner{}
	job := PruneLimiters(500, a, b)

	if err := job(context.Background()); err != nil {
		t.Fatalf("job() error = %v", err)
	}
	if len(a.sizes) != 1 || a.sizes[0] != 500 {
		t.Errorf("first pruner sizes = %v", a.sizes)
	}
	if len(b.sizes) != 1 || b.sizes[0] != 500 {
		t.Errorf("second pruner sizes = %v", b.sizes)
	}
}
