package services

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// RateLimiter answers whether one more action is allowed for key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

const maxTrackedKeys = 10000

// SlidingWindowLimiter admits at most max actions per key in any trailing window.
// Per-key hit logs live in a bounded LRU so idle keys are eventually dropped.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	hits   *lru.Cache[string, []time.Time]
	now    func() time.Time
}

func NewSlidingWindowLimiter(max int, window time.Duration) (*SlidingWindowLimiter, error) {
	hits, err := lru.New[string, []time.Time](maxTrackedKeys)
	if err != nil {
		return nil, err
	}
	return &SlidingWindowLimiter{
		max:    max,
		window: window,
		hits:   hits,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source, for tests.
func (l *SlidingWindowLimiter) WithClock(now func() time.Time) *SlidingWindowLimiter {
	l.now = now
	return l
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	history, _ := l.hits.Get(key)
	kept := history[:0]
	for _, t := range history {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	// Rejected attempts are not recorded
	if len(kept) >= l.max {
		l.hits.Add(key, kept)
		return false, nil
	}

	l.hits.Add(key, append(kept, now))
	return true, nil
}
