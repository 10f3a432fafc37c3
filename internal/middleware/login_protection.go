// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// maxLockout caps the doubling lockout.
const maxLockout = 24 * time.Hour

// LoginProtection combines per-IP throttling of login posts with per-account
// lockout after repeated failures.
type LoginProtection struct {
	ips *RateLimiter

	mu       sync.Mutex
	accounts map[string]*loginAttempt

	maxFailed int
	lockout   time.Duration
	window    time.Duration
	now       func() time.Time
}

type loginAttempt struct {
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	IPRateLimit       float64       // login posts per second per IP
	IPBurst           int           // burst of login posts per IP
	MaxFailedAttempts int           // failures within AttemptWindow before lockout
	LockoutDuration   time.Duration // first lockout; doubles on each repeat
	AttemptWindow     time.Duration
}

// DefaultLoginProtectionConfig returns the production settings.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection fills zero config values from the defaults.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	def := DefaultLoginProtectionConfig()
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = def.IPRateLimit
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = def.IPBurst
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = def.MaxFailedAttempts
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = def.LockoutDuration
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = def.AttemptWindow
	}

	return &LoginProtection{
		ips:       NewRateLimiter(cfg.IPRateLimit, cfg.IPBurst),
		accounts:  make(map[string]*loginAttempt),
		maxFailed: cfg.MaxFailedAttempts,
		lockout:   cfg.LockoutDuration,
		window:    cfg.AttemptWindow,
		now:       time.Now,
	}
}

func accountKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsAccountLocked returns whether email is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.accounts[accountKey(email)]
	if !ok {
		return false, 0
	}
	if now := lp.now(); now.Before(a.lockedUntil) {
		return true, a.lockedUntil.Sub(now)
	}
	return false, 0
}

// RecordFailedAttempt counts a failure and locks the account once the limit
// is reached within the window. It returns the new lockout, if any.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	key := accountKey(email)
	now := lp.now()
	a, ok := lp.accounts[key]
	if !ok {
		a = &loginAttempt{firstFailed: now}
		lp.accounts[key] = a
	}
	if now.Sub(a.firstFailed) > lp.window {
		a.count = 0
		a.firstFailed = now
	}
	a.count++

	if a.count < lp.maxFailed {
		return false, 0
	}

	d := maxLockout
	if a.lockouts < 16 {
		d = min(lp.lockout<<a.lockouts, maxLockout)
	}
	a.lockedUntil = now.Add(d)
	a.lockouts++
	a.count = 0

	slog.Warn("account locked after failed logins", "email", key, "lockouts", a.lockouts, "duration", d)
	return true, d
}

// RecordSuccessfulLogin forgets the failures of email.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	delete(lp.accounts, accountKey(email))
}

// RemainingAttempts returns how many failures email has left before lockout.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	a, ok := lp.accounts[accountKey(email)]
	if !ok || lp.now().Sub(a.firstFailed) > lp.window {
		return lp.maxFailed
	}
	return max(lp.maxFailed-a.count, 0)
}

// Prune drops expired entries.
func (lp *LoginProtection) Prune() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := lp.now()
	for k, a := range lp.accounts {
		if now.After(a.lockedUntil) && now.Sub(a.firstFailed) > lp.window {
			delete(lp.accounts, k)
		}
	}
}

// Middleware throttles login posts per IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}
			if ip := ClientIP(r); !lp.ips.Allow(ip) {
				slog.WarnContext(r.Context(), "login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts. Please wait and try again.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
