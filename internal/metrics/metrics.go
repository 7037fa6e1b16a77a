// Package metrics provides lock-free counters and a verify-latency
// histogram for authcore observability.
//
// All operations are safe for concurrent use; when disabled they are
// no-ops so instrumented call sites need no guards.
package metrics

import (
	"sync/atomic"
	"time"
)

// ID identifies one counter or histogram.
type ID uint16

const (
	// SignInSuccess is an exported constant or variable used by the authentication engine.
	SignInSuccess ID = iota
	// SignInFailure is an exported constant or variable used by the authentication engine.
	SignInFailure
	// SignInRateLimited is an exported constant or variable used by the authentication engine.
	SignInRateLimited
	// LockoutTripped is an exported constant or variable used by the authentication engine.
	LockoutTripped
	// RegisterSuccess is an exported constant or variable used by the authentication engine.
	RegisterSuccess
	// RegisterDuplicate is an exported constant or variable used by the authentication engine.
	RegisterDuplicate
	// RefreshSuccess is an exported constant or variable used by the authentication engine.
	RefreshSuccess
	// RefreshFailure is an exported constant or variable used by the authentication engine.
	RefreshFailure
	// RefreshSuperseded is an exported constant or variable used by the authentication engine.
	RefreshSuperseded
	// VerifySuccess is an exported constant or variable used by the authentication engine.
	VerifySuccess
	// VerifyFailure is an exported constant or variable used by the authentication engine.
	VerifyFailure
	// VerifySuperseded is an exported constant or variable used by the authentication engine.
	VerifySuperseded
	// SignOut is an exported constant or variable used by the authentication engine.
	SignOut
	// SignOutEverywhere is an exported constant or variable used by the authentication engine.
	SignOutEverywhere
	// PasswordChangeSuccess is an exported constant or variable used by the authentication engine.
	PasswordChangeSuccess
	// PasswordChangeInvalidOld is an exported constant or variable used by the authentication engine.
	PasswordChangeInvalidOld
	// PasswordChangeReuseRejected is an exported constant or variable used by the authentication engine.
	PasswordChangeReuseRejected
	// VerifyLatency is an exported constant or variable used by the authentication engine.
	VerifyLatency

	// IDCount is an exported constant or variable used by the authentication engine.
	IDCount
)

// latencyBucketCount buckets cover 1µs..~32ms in powers of two, plus an
// overflow bucket.
const latencyBucketCount = 16

// Config defines a public type used by authcore APIs.
type Config struct {
	Enabled       bool
	EnableLatency bool
}

// counters are padded to a cache line to avoid false sharing between
// frequently incremented neighbors.
type counter struct {
	value uint64
	_     [7]uint64
}

// Metrics holds atomic counters and the optional latency histogram.
type Metrics struct {
	enabled bool
	latency bool

	counters [IDCount]counter
	buckets  [latencyBucketCount]uint64
}

// Snapshot is a point-in-time deep copy of all metrics.
type Snapshot struct {
	Counters       map[ID]uint64
	LatencyBuckets []uint64
}

// New creates a [Metrics] instance. When cfg.Enabled is false all
// operations are no-ops.
func New(cfg Config) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
		latency: cfg.Enabled && cfg.EnableLatency,
	}
}

// Inc increments the counter for id.
func (m *Metrics) Inc(id ID) {
	if m == nil || !m.enabled || id >= IDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value returns the current counter for id.
func (m *Metrics) Value(id ID) uint64 {
	if m == nil || !m.enabled || id >= IDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// LatencyEnabled reports whether Observe records anything.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.latency
}

// Observe records one verify-latency sample.
func (m *Metrics) Observe(d time.Duration) {
	if m == nil || !m.latency {
		return
	}
	atomic.AddUint64(&m.buckets[bucketFor(d)], 1)
}

// SnapshotNow returns a deep copy of all counters and buckets.
func (m *Metrics) SnapshotNow() Snapshot {
	if m == nil || !m.enabled {
		return Snapshot{Counters: map[ID]uint64{}}
	}

	s := Snapshot{Counters: make(map[ID]uint64, int(IDCount))}
	for id := ID(0); id < IDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}
	if m.latency {
		s.LatencyBuckets = make([]uint64, latencyBucketCount)
		for i := range m.buckets {
			s.LatencyBuckets[i] = atomic.LoadUint64(&m.buckets[i])
		}
	}
	return s
}

func bucketFor(d time.Duration) int {
	us := d.Microseconds()
	for i := 0; i < latencyBucketCount-1; i++ {
		if us < 1<<i {
			return i
		}
	}
	return latencyBucketCount - 1
}
