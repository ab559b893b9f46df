package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_LocksAfterMaxAttempts(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 3, WindowDuration: time.Minute, LockoutDuration: 10 * time.Minute})
	defer rl.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := rl.Allow("1.2.3.4", "a@example.com")
		assert.True(t, allowed)
		locked, _ := rl.RecordFailure("1.2.3.4", "a@example.com")
		assert.False(t, locked)
	}

	locked, retryAfter := rl.RecordFailure("1.2.3.4", "a@example.com")
	assert.True(t, locked)
	assert.Equal(t, 10*time.Minute, retryAfter)

	allowed, wait := rl.Allow("1.2.3.4", "a@example.com")
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))

	// Other keys are unaffected.
	allowed, _ = rl.Allow("1.2.3.4", "b@example.com")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("5.6.7.8", "a@example.com")
	assert.True(t, allowed)
}

func TestRateLimiter_LockoutExpires(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 1, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.RecordFailure("ip", "a@example.com")

	allowed, _ := rl.Allow("ip", "a@example.com")
	assert.False(t, allowed)

	rl.now = func() time.Time { return now.Add(2 * time.Minute) }
	allowed, _ = rl.Allow("ip", "a@example.com")
	assert.True(t, allowed)
}

func TestRateLimiter_SuccessClears(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 2})
	defer rl.Stop()

	rl.RecordFailure("ip", "a@example.com")
	rl.RecordSuccess("ip", "a@example.com")
	locked, _ := rl.RecordFailure("ip", "a@example.com")
	assert.False(t, locked)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 5, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.RecordFailure("ip", "a@example.com")

	rl.now = func() time.Time { return now.Add(5 * time.Minute) }
	rl.cleanup()

	rl.mu.RLock()
	defer rl.mu.RUnlock()
	assert.Empty(t, rl.attempts)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRateLimiter_EmailIsCaseInsensitive(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{MaxAttempts: 2, WindowDuration: time.Minute, LockoutDuration: time.Minute})
	defer rl.Stop()

	rl.RecordFailure("ip", "Ann@Example.com")
	locked, _ := rl.RecordFailure("ip", " ann@example.com")
	assert.True(t, locked)

	allowed, _ := rl.Allow("ip", "ANN@EXAMPLE.COM")
	assert.False(t, allowed)
}
