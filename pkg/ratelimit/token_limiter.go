package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenLimiter enforces a token budget per rolling minute, for APIs that
// meter prompt tokens rather than requests.
type TokenLimiter struct {
	mu        sync.Mutex
	maxTokens int
	used      int
	windowEnd time.Time
}

// NewTokenLimiter creates a limiter allowing maxTokensPerMinute tokens.
func NewTokenLimiter(maxTokensPerMinute int) *TokenLimiter {
	return &TokenLimiter{
		maxTokens: maxTokensPerMinute,
		windowEnd: time.Now().Add(time.Minute),
	}
}

// GetRemaining reports how many tokens are left in the current window.
func (l *TokenLimiter) GetRemaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rollWindow()
	return l.maxTokens - l.used
}

// Wait blocks until the requested number of tokens fits in the window, or the
// context is cancelled. Requests larger than the full budget are admitted on
// a fresh window rather than blocking forever.
func (l *TokenLimiter) Wait(ctx context.Context, tokens int) error {
	for {
		l.mu.Lock()
		l.rollWindow()
		if l.used+tokens <= l.maxTokens || l.used == 0 {
			l.used += tokens
			l.mu.Unlock()
			return nil
		}
		wait := time.Until(l.windowEnd)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// rollWindow resets usage once the current window has elapsed. Callers must
// hold the mutex.
func (l *TokenLimiter) rollWindow() {
	now := time.Now()
	if now.After(l.windowEnd) {
		l.used = 0
		l.windowEnd = now.Add(time.Minute)
	}
}
