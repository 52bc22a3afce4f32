package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a tokens-per-minute budget for completion usage.
// Consumed tokens are reported after each response; Wait blocks until the
// current minute window has room again.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int64
	windowStart time.Time
}

// NewTokenLimiter creates a limiter with the given per-minute budget.
func NewTokenLimiter(maxPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxPerMinute,
		windowStart: time.Now(),
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.roll(time.Now())
	return l.maxPerMin - int(l.used)
}

// Wait records the consumed tokens and blocks until the budget allows
// further requests, or until ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int64) error {
	l.mu.Lock()
	now := time.Now()
	l.roll(now)
	l.used += tokens
	over := l.used > int64(l.maxPerMin)
	wait := time.Minute - now.Sub(l.windowStart)
	l.mu.Unlock()

	if !over || wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		l.mu.Lock()
		l.roll(time.Now())
		l.mu.Unlock()
		return nil
	}
}

// roll resets the window once a minute has elapsed. Caller holds the lock.
func (l *TokenLimiter) roll(now time.Time) {
	if now.Sub(l.windowStart) >= time.Minute {
		l.windowStart = now
		l.used = 0
	}
}
