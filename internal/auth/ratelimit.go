package auth

import (
	"context"
	"strings"
	"sync"
	"time"
)

// loginKey identifies one client trying one account. Emails are compared
// case-insensitively so "Ann@x.io" and "ann@x.io" share a budget.
type loginKey struct {
	ip    string
	email string
}

func newLoginKey(ip, email string) loginKey {
	return loginKey{ip: ip, email: strings.ToLower(strings.TrimSpace(email))}
}

// failureWindow counts failed logins since start. A non-zero lockedUntil
// blocks the key until that instant.
type failureWindow struct {
	failures    int
	start       time.Time
	lockedUntil time.Time
}

func (w *failureWindow) lockRemaining(now time.Time) time.Duration {
	if w.lockedUntil.IsZero() || !now.Before(w.lockedUntil) {
		return 0
	}
	return w.lockedUntil.Sub(now)
}

func (w *failureWindow) stale(now time.Time, window time.Duration) bool {
	return now.Sub(w.start) > window
}

// RateLimiter throttles failed logins per client IP and email. After
// MaxAttempts failures inside WindowDuration the pair is locked for
// LockoutDuration.
type RateLimiter struct {
	mu       sync.RWMutex
	attempts map[loginKey]*failureWindow
	config   RateLimitConfig
	stop     context.CancelFunc
	now      func() time.Time
}

type RateLimitConfig struct {
	MaxAttempts     int           // default 5
	WindowDuration  time.Duration // default 15m
	LockoutDuration time.Duration // default 30m
	CleanupInterval time.Duration // default 5m
}

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.WindowDuration <= 0 {
		c.WindowDuration = 15 * time.Minute
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = 30 * time.Minute
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 5 * time.Minute
	}
	return c
}

// NewRateLimiter creates a limiter and starts the janitor that drops
// expired windows. Call Stop to end it.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	ctx, cancel := context.WithCancel(context.Background())
	rl := &RateLimiter{
		attempts: make(map[loginKey]*failureWindow),
		config:   cfg.withDefaults(),
		stop:     cancel,
		now:      time.Now,
	}
	go rl.janitor(ctx)
	return rl
}

// Stop ends the janitor goroutine. It may be called more than once.
func (rl *RateLimiter) Stop() {
	rl.stop()
}

// Allow reports whether a login attempt may proceed and, if not, how long
// the caller should wait.
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.RLock()
	defer rl.mu.RUnlock()

	w, ok := rl.attempts[newLoginKey(ip, email)]
	if !ok {
		return true, 0
	}
	if wait := w.lockRemaining(now); wait > 0 {
		return false, wait
	}
	if w.stale(now, rl.config.WindowDuration) || w.failures < rl.config.MaxAttempts {
		return true, 0
	}
	return false, rl.config.LockoutDuration
}

// RecordFailure counts a failed login and reports whether it started a
// lockout.
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := newLoginKey(ip, email)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.attempts[key]
	if !ok || w.stale(now, rl.config.WindowDuration) {
		w = &failureWindow{start: now}
		rl.attempts[key] = w
	}

	w.failures++
	if w.failures < rl.config.MaxAttempts {
		return false, 0
	}
	w.lockedUntil = now.Add(rl.config.LockoutDuration)
	return true, rl.config.LockoutDuration
}

// RecordSuccess forgets earlier failures for the pair.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	rl.mu.Lock()
	delete(rl.attempts, newLoginKey(ip, email))
	rl.mu.Unlock()
}

func (rl *RateLimiter) janitor(ctx context.Context) {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

func (rl *RateLimiter) cleanup() {
	now := rl.now()
	horizon := rl.config.WindowDuration + rl.config.LockoutDuration

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, w := range rl.attempts {
		if w.stale(now, horizon) && w.lockRemaining(now) == 0 {
			delete(rl.attempts, key)
		}
	}
}
