package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, clock *fakeClock) *SlidingWindowLimiter {
	t.Helper()
	l, err := NewSlidingWindowLimiter(3, time.Minute)
	if err != nil {
		t.Fatalf("NewSlidingWindowLimiter failed: %v", err)
	}
	return l.WithClock(clock.Now)
}

func TestSlidingWindowLimiter(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newTestLimiter(t, clock)

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(context.Background(), "u1")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v (%v)", i+1, ok, err)
		}
		clock.Advance(10 * time.Second)
	}

	if ok, _ := l.Allow(context.Background(), "u1"); ok {
		t.Fatal("Expected 4th attempt within the window to be rejected")
	}
	if ok, _ := l.Allow(context.Background(), "u2"); !ok {
		t.Fatal("Expected another key to be unaffected")
	}

	// First hit was at t=0; at t=60s+ it has slid out of the window
	clock.Advance(31 * time.Second)
	if ok, _ := l.Allow(context.Background(), "u1"); !ok {
		t.Fatal("Expected a slot once the oldest hit left the window")
	}
	if ok, _ := l.Allow(context.Background(), "u1"); ok {
		t.Fatal("Expected the window to be full again")
	}
}

func TestSlidingWindowLimiterConcurrent(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := newTestLimiter(t, clock)

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(context.Background(), "u1"); ok {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	if allowed.Load() != 3 {
		t.Errorf("Expected exactly 3 admitted, got %d", allowed.Load())
	}
}
