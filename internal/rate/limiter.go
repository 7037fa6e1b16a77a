package rate

import (
	"context"
	"time"
)

// Config holds limiter tuning parameters.
type Config struct {
	MaxAttempts      int
	LockoutWindow    time.Duration
	EnableIPThrottle bool
}

// Limiter enforces the per-identifier lockout state machine:
// clear -> warming (failures accumulating) -> locked until the window
// elapses from the last failure. A successful sign-in resets to clear.
type Limiter struct {
	store  Store
	config Config
}

// New creates a [Limiter] over the given store.
func New(store Store, cfg Config) *Limiter {
	return &Limiter{store: store, config: cfg}
}

// Check rejects identifiers that are currently locked out. It returns the
// remaining lockout duration together with [ErrLocked], and never touches
// the account store or password hasher on the caller's behalf. Locked
// identifiers must be rejected before any expensive work.
func (l *Limiter) Check(ctx context.Context, identifier, ip string) (time.Duration, error) {
	retry, err := l.checkKey(ctx, identifierKey(identifier))
	if err != nil {
		return retry, err
	}

	if l.config.EnableIPThrottle && ip != "" {
		return l.checkKey(ctx, ipKey(ip))
	}
	return 0, nil
}

// RecordFailure counts one failed attempt and restarts the lockout window.
// It reports whether this failure tripped the threshold.
func (l *Limiter) RecordFailure(ctx context.Context, identifier, ip string) (bool, error) {
	count, err := l.store.Incr(ctx, identifierKey(identifier), l.config.LockoutWindow)
	if err != nil {
		return false, err
	}
	tripped := count == int64(l.config.MaxAttempts)

	if l.config.EnableIPThrottle && ip != "" {
		if _, err := l.store.Incr(ctx, ipKey(ip), l.config.LockoutWindow); err != nil {
			return tripped, err
		}
	}
	return tripped, nil
}

// Reset clears all state for the identifier after a successful sign-in.
func (l *Limiter) Reset(ctx context.Context, identifier, ip string) error {
	keys := []string{identifierKey(identifier)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, ipKey(ip))
	}
	return l.store.Del(ctx, keys...)
}

func (l *Limiter) checkKey(ctx context.Context, key string) (time.Duration, error) {
	count, err := l.store.Count(ctx, key)
	if err != nil {
		return 0, err
	}
	if count < int64(l.config.MaxAttempts) {
		return 0, nil
	}

	retry, err := l.store.TTL(ctx, key)
	if err != nil {
		return 0, err
	}
	return retry, ErrLocked
}

func identifierKey(identifier string) string {
	return "rl:id:" + identifier
}

func ipKey(ip string) string {
	return "rl:ip:" + ip
}
