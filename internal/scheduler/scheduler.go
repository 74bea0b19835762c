// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Default schedules for the built-in jobs.
const (
	NotificationSweepSchedule = "@hourly"
	LimiterPruneSchedule      = "*/10 * * * *"
)

// jobTimeout bounds a single job run.
const jobTimeout = time.Minute

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

type registeredJob struct {
	name        string
	description string
	schedule    string
	entryID     cron.EntryID
	fn          JobFunc
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string
	Description string
	Schedule    string
	LastRun     time.Time
	NextRun     time.Time
}

// Scheduler wraps a cron instance and keeps track of the jobs added to it.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*registeredJob),
	}
}

// Add registers a job under a unique name. Jobs can be added before or
// after Start.
func (s *Scheduler) Add(name, description, schedule string, fn JobFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[name]; ok {
		return fmt.Errorf("job already registered: %s", name)
	}

	job := &registeredJob{
		name:        name,
		description: description,
		schedule:    schedule,
		fn:          fn,
	}
	id, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", schedule, err)
	}
	job.entryID = id
	s.jobs[name] = job

	s.logger.Debug("registered scheduled job", "name", name, "schedule", schedule)
	return nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		entry := s.cron.Entry(job.entryID)
		result = append(result, JobInfo{
			Name:        job.name,
			Description: job.description,
			Schedule:    job.schedule,
			LastRun:     entry.Prev,
			NextRun:     entry.Next,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// TriggerNow runs a job immediately in the caller's goroutine.
func (s *Scheduler) TriggerNow(ctx context.Context, name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	s.logger.Info("manually triggering job", "name", name)
	return job.fn(ctx)
}

func (s *Scheduler) run(job *registeredJob) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := job.fn(ctx); err != nil {
		s.logger.Error("scheduled job failed", "name", job.name, "error", err)
	}
}
