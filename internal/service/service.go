// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "time"

// utcNow is the default clock. Times are stored in UTC so that SQL
// comparisons on the text columns stay correct.
func utcNow() time.Time {
	return time.Now().UTC()
}

// valueOr returns *p, or def when p is nil.
func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
