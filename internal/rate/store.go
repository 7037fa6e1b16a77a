package rate

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrLocked is an exported constant or variable used by the authentication engine.
	ErrLocked = errors.New("identifier locked out")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("rate limit backend unavailable")
)

// Store is the increment-with-expiry contract backing the limiter.
// Incr must reset the key's TTL on every call so the lockout window runs
// from the most recent failure, not the first.
type Store interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Count(ctx context.Context, key string) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, keys ...string) error
}

type memoryEntry struct {
	count     int64
	expiresAt time.Time
}

// MemoryStore is the process-local [Store]. A single mutex guards the map;
// contention is negligible because every operation is a map probe.
// Expired entries are evicted lazily on access.
type MemoryStore struct {
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryStore creates a [MemoryStore]. The now function drives expiry;
// pass nil for time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{
		now:     now,
		entries: make(map[string]memoryEntry),
	}
}

// Incr increments the counter for key and restarts its TTL.
func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := s.entries[key]
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
		entry = memoryEntry{}
	}
	entry.count++
	entry.expiresAt = now.Add(ttl)
	s.entries[key] = entry

	return entry.count, nil
}

// Count returns the live counter for key, zero when absent or expired.
func (s *MemoryStore) Count(_ context.Context, key string) (int64, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return 0, nil
	}
	if !entry.expiresAt.After(now) {
		delete(s.entries, key)
		return 0, nil
	}
	return entry.count, nil
}

// TTL returns the remaining lifetime of key, zero when absent or expired.
func (s *MemoryStore) TTL(_ context.Context, key string) (time.Duration, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok || !entry.expiresAt.After(now) {
		return 0, nil
	}
	return entry.expiresAt.Sub(now), nil
}

// Del removes the given keys.
func (s *MemoryStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
