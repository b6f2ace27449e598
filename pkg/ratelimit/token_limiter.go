package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// TokenLimiter enforces a per-minute token budget for AI requests.
type TokenLimiter struct {
	mu          sync.Mutex
	maxPerMin   int
	used        int
	windowStart time.Time
}

// NewTokenLimiter creates a TokenLimiter with the given per-minute budget.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxPerMin:   maxTokensPerMinute,
		windowStart: time.Now(),
	}
}

// Wait blocks until n tokens fit in the current window or ctx is done.
func (l *TokenLimiter) Wait(ctx context.Context, n int) error {
	if n > l.maxPerMin {
		return fmt.Errorf("requested %d tokens exceeds the per-minute budget of %d", n, l.maxPerMin)
	}

	for {
		l.mu.Lock()
		l.rotate()
		if l.used+n <= l.maxPerMin {
			l.used += n
			l.mu.Unlock()
			return nil
		}
		wait := time.Until(l.windowStart.Add(time.Minute))
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// GetRemaining returns the tokens left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rotate()
	return l.maxPerMin - l.used
}

func (l *TokenLimiter) rotate() {
	if time.Since(l.windowStart) >= time.Minute {
		l.windowStart = time.Now()
		l.used = 0
	}
}
