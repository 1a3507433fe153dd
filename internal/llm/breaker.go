package llm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Breaker wraps a Generator and stops calling the provider after a run of
// consecutive failures, returning ErrUnavailable immediately until a
// cooldown elapses. This keeps a flapping provider from tying up request
// handlers on calls that are going to fail anyway.
//
// State is process-local and guarded by a mutex; the breaker is safe for
// concurrent use.
type Breaker struct {
	next      Generator
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	failures int
	openedAt time.Time
}

// NewBreaker wraps next. threshold <= 0 is coerced to 3; cooldown <= 0 is
// coerced to 30s.
func NewBreaker(next Generator, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{next: next, threshold: threshold, cooldown: cooldown}
}

// Generate forwards to the wrapped Generator unless the breaker is open.
// Only ErrUnavailable counts toward opening: an empty response is a provider
// answer, not an outage, and a caller-side cancel says nothing about the
// provider's health. A successful call resets the failure run.
func (b *Breaker) Generate(ctx context.Context, req Request) (string, error) {
	now := time.Now()

	b.mu.Lock()
	if b.failures >= b.threshold {
		if now.Sub(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return "", fmt.Errorf("%w: circuit open", ErrUnavailable)
		}
		// Cooldown elapsed: allow one probe call through.
		b.failures = b.threshold - 1
	}
	b.mu.Unlock()

	text, err := b.next.Generate(ctx, req)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case err == nil:
		b.failures = 0
	case errors.Is(err, ErrUnavailable) && !errors.Is(err, context.Canceled):
		b.failures++
		if b.failures >= b.threshold {
			b.openedAt = time.Now()
		}
	}
	return text, err
}
