package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// rateLimiter enforces a minimum spacing between outbound calls. A single
// instance is shared by every worker, so the spacing holds globally.
type rateLimiter struct {
	next     time.Time
	interval time.Duration
	mu       sync.Mutex
}

// newRateLimiter creates a limiter that admits one call per interval.
// A zero interval disables pacing.
func newRateLimiter(interval time.Duration) *rateLimiter {
	if interval < 0 {
		interval = 0
	}
	return &rateLimiter{interval: interval}
}

// reserve claims the next free slot and returns when it starts.
func (rl *rateLimiter) reserve() time.Time {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	at := rl.next
	if at.Before(now) {
		at = now
	}
	rl.next = at.Add(rl.interval)
	return at
}

// wait blocks until the caller's slot arrives or the context is canceled.
func (rl *rateLimiter) wait(ctx context.Context) error {
	if rl.interval == 0 {
		return ctx.Err()
	}

	delay := time.Until(rl.reserve())
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter canceled: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

// reset forgets the last reservation.
func (rl *rateLimiter) reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.next = time.Time{}
}
