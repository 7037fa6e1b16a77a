package rate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestLimiter(clock *fakeClock) *Limiter {
	return New(NewMemoryStore(clock.Now), Config{
		MaxAttempts:   5,
		LockoutWindow: 30 * time.Minute,
	})
}

func TestLimiterClearUntilThreshold(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 4; i++ {
		tripped, err := l.RecordFailure(ctx, "alice@school.test", "")
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		if tripped {
			t.Fatalf("tripped before threshold on attempt %d", i+1)
		}
		if _, err := l.Check(ctx, "alice@school.test", ""); err != nil {
			t.Fatalf("check failed before threshold: %v", err)
		}
	}
}

func TestLimiterLockoutAtThreshold(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		tripped, err := l.RecordFailure(ctx, "alice@school.test", "")
		if err != nil {
			t.Fatalf("record failure: %v", err)
		}
		if want := i == 4; tripped != want {
			t.Fatalf("attempt %d: tripped = %v, want %v", i+1, tripped, want)
		}
	}

	retry, err := l.Check(ctx, "alice@school.test", "")
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if retry <= 0 || retry > 30*time.Minute {
		t.Fatalf("unexpected retry-after %v", retry)
	}

	// Other identifiers never contend.
	if _, err := l.Check(ctx, "bob@school.test", ""); err != nil {
		t.Fatalf("unrelated identifier locked: %v", err)
	}
}

func TestLimiterWindowRunsFromLastFailure(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 4; i++ {
		if _, err := l.RecordFailure(ctx, "alice@school.test", ""); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	clock.Advance(29 * time.Minute)
	if _, err := l.RecordFailure(ctx, "alice@school.test", ""); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	// 29 minutes after the fifth failure the lock still holds.
	clock.Advance(29 * time.Minute)
	if _, err := l.Check(ctx, "alice@school.test", ""); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	clock.Advance(2 * time.Minute)
	if _, err := l.Check(ctx, "alice@school.test", ""); err != nil {
		t.Fatalf("expected clear after window, got %v", err)
	}
}

func TestLimiterResetClears(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := newTestLimiter(clock)

	for i := 0; i < 5; i++ {
		if _, err := l.RecordFailure(ctx, "alice@school.test", ""); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
	if err := l.Reset(ctx, "alice@school.test", ""); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := l.Check(ctx, "alice@school.test", ""); err != nil {
		t.Fatalf("expected clear after reset, got %v", err)
	}
}

func TestLimiterIPThrottle(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := New(NewMemoryStore(clock.Now), Config{
		MaxAttempts:      3,
		LockoutWindow:    time.Minute,
		EnableIPThrottle: true,
	})

	// Three failures from the same IP with rotating identifiers.
	for i, id := range []string{"a@x.test", "b@x.test", "c@x.test"} {
		if _, err := l.RecordFailure(ctx, id, "10.0.0.1"); err != nil {
			t.Fatalf("record failure %d: %v", i, err)
		}
	}

	if _, err := l.Check(ctx, "d@x.test", "10.0.0.1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected IP lockout, got %v", err)
	}
	if _, err := l.Check(ctx, "d@x.test", "10.0.0.2"); err != nil {
		t.Fatalf("unrelated IP locked: %v", err)
	}
}

func TestMemoryStoreLazyEviction(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	s := NewMemoryStore(clock.Now)

	if _, err := s.Incr(ctx, "k", time.Minute); err != nil {
		t.Fatalf("incr: %v", err)
	}
	clock.Advance(2 * time.Minute)

	count, err := s.Count(ctx, "k")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired entry to read 0, got %d", count)
	}

	// A fresh increment after expiry starts a new window at 1.
	count, err = s.Incr(ctx, "k", time.Minute)
	if err != nil {
		t.Fatalf("incr: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected restarted counter 1, got %d", count)
	}
}
