package ratelimit

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Limiter paces outbound requests to one target.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Simple enforces a jittered minimum delay between consecutive actions.
// Safe for use from concurrent adapter runs sharing one fetch client.
type Simple struct {
	minDelay   time.Duration
	maxDelay   time.Duration
	lastAction time.Time
	mu         sync.Mutex
}

func NewSimple(minDelay, maxDelay time.Duration) *Simple {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simple{
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (r *Simple) Wait(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.lastAction)
	delay := r.calculateDelay()

	if elapsed < delay {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay - elapsed):
		}
	}

	r.lastAction = time.Now()
	return nil
}

func (r *Simple) calculateDelay() time.Duration {
	if r.minDelay >= r.maxDelay {
		return r.minDelay
	}
	jitter := time.Duration(rand.Int63n(int64(r.maxDelay - r.minDelay)))
	return r.minDelay + jitter
}
