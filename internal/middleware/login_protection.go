// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// maxLockout caps the doubling account lockout.
const maxLockout = 24 * time.Hour

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is login requests per second per IP.
	IPRateLimit float64
	// IPBurst is the burst allowed per IP.
	IPBurst int
	// MaxFailedAttempts within AttemptWindow locks the account.
	MaxFailedAttempts int
	// LockoutDuration is the first lockout; each further one doubles it.
	LockoutDuration time.Duration
	// AttemptWindow is how long failures keep counting.
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig allows a login every two seconds per IP and
// locks an account for 15 minutes after 5 failures in 15 minutes.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

func (c LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	d := DefaultLoginProtectionConfig()
	if c.IPRateLimit <= 0 {
		c.IPRateLimit = d.IPRateLimit
	}
	if c.IPBurst <= 0 {
		c.IPBurst = d.IPBurst
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = d.AttemptWindow
	}
	return c
}

// LoginProtection throttles login requests per IP and locks accounts after
// repeated wrong passwords. Accounts are keyed by normalized email.
type LoginProtection struct {
	cfg LoginProtectionConfig
	ips *clientLimiters

	mu       sync.Mutex
	accounts map[string]*accountState

	now func() time.Time
}

type accountState struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// NewLoginProtection creates login protection. Zero config fields take the
// defaults. Stale state is dropped by Prune.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	return &LoginProtection{
		cfg:      cfg,
		ips:      newClientLimiters(cfg.IPRateLimit, cfg.IPBurst),
		accounts: make(map[string]*accountState),
		now:      time.Now,
	}
}

// IsAccountLocked reports whether account is locked and for how long.
func (lp *LoginProtection) IsAccountLocked(account string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	st, ok := lp.accounts[account]
	if !ok {
		return false, 0
	}
	if remaining := st.lockedUntil.Sub(lp.now()); remaining > 0 {
		return true, remaining
	}
	return false, 0
}

// RecordFailedAttempt counts a wrong password. When the count reaches the
// limit the account is locked and the lock duration returned.
func (lp *LoginProtection) RecordFailedAttempt(account string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := lp.now()
	st, ok := lp.accounts[account]
	if !ok {
		st = &accountState{windowStart: now}
		lp.accounts[account] = st
	}
	if now.Sub(st.windowStart) > lp.cfg.AttemptWindow {
		st.failures = 0
		st.windowStart = now
	}

	st.failures++
	if st.failures < lp.cfg.MaxFailedAttempts {
		return false, 0
	}

	d := lockoutFor(lp.cfg.LockoutDuration, st.lockouts)
	st.lockedUntil = now.Add(d)
	st.lockouts++
	st.failures = 0
	slog.Warn("account locked due to failed attempts", "email", account, "lockouts", st.lockouts, "duration", d)
	return true, d
}

// lockoutFor doubles base once per earlier lockout, up to maxLockout.
func lockoutFor(base time.Duration, earlier int) time.Duration {
	d := base
	for range earlier {
		if d >= maxLockout {
			break
		}
		d *= 2
	}
	return min(d, maxLockout)
}

// RecordSuccessfulLogin forgets the account's failures and lockout history.
func (lp *LoginProtection) RecordSuccessfulLogin(account string) {
	lp.mu.Lock()
	delete(lp.accounts, account)
	lp.mu.Unlock()
}

// RemainingAttempts returns how many failures the account has left before
// it is locked.
func (lp *LoginProtection) RemainingAttempts(account string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	st, ok := lp.accounts[account]
	if !ok || lp.now().Sub(st.windowStart) > lp.cfg.AttemptWindow {
		return lp.cfg.MaxFailedAttempts
	}
	return max(lp.cfg.MaxFailedAttempts-st.failures, 0)
}

// Prune drops idle IP limiters once more than maxSize are tracked, and
// forgets accounts whose lock and failure window have both passed.
func (lp *LoginProtection) Prune(maxSize int) {
	if n := lp.ips.prune(maxSize); n > 0 {
		slog.Debug("pruned idle login limiters", "removed", n)
	}

	lp.mu.Lock()
	defer lp.mu.Unlock()
	now := lp.now()
	for account, st := range lp.accounts {
		if now.After(st.lockedUntil) && now.Sub(st.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.accounts, account)
		}
	}
}

// Middleware limits login POSTs per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			ip := ClientIP(r)
			if !lp.ips.allow(ip) {
				slog.Warn("login rate limit exceeded", "ip", ip)
				WriteAPIError(w, http.StatusTooManyRequests, CodeRateLimited,
					"Too many login attempts. Please wait a moment and try again.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LockedMessage is the client message for a locked account.
func LockedMessage(remaining time.Duration) string {
	minutes := max(int(remaining.Round(time.Minute)/time.Minute), 1)
	return fmt.Sprintf("Account temporarily locked. Try again in %d minute(s).", minutes)
}
