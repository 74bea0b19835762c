// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
)

// Sweeper deletes expired records and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Pruner drops in-memory state once it grows past a size.
type Pruner interface {
	Prune(maxSize int)
}

// SweepNotifications returns a job removing expired notifications.
func SweepNotifications(sweeper Sweeper, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := sweeper.Sweep(ctx)
		if err != nil {
			return err
		}
		logger.Debug("notification sweep finished", "deleted", n)
		return nil
	}
}

// PruneLimiters returns a job bounding the number of tracked rate limiters.
func PruneLimiters(maxSize int, pruners ...Pruner) JobFunc {
	return func(context.Context) error {
		for _, p := range pruners {
			p.Prune(maxSize)
		}
		return nil
	}
}
