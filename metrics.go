package authcore

import "github.com/campuskit/authcore/internal/metrics"

// MetricID identifies one engine counter.
type MetricID = metrics.ID

// Re-exported counter ids so embedders can read snapshots without
// importing the internal package.
const (
	// MetricSignInSuccess is an exported constant or variable used by the authentication engine.
	MetricSignInSuccess = metrics.SignInSuccess
	// MetricSignInFailure is an exported constant or variable used by the authentication engine.
	MetricSignInFailure = metrics.SignInFailure
	// MetricSignInRateLimited is an exported constant or variable used by the authentication engine.
	MetricSignInRateLimited = metrics.SignInRateLimited
	// MetricLockoutTripped is an exported constant or variable used by the authentication engine.
	MetricLockoutTripped = metrics.LockoutTripped
	// MetricRegisterSuccess is an exported constant or variable used by the authentication engine.
	MetricRegisterSuccess = metrics.RegisterSuccess
	// MetricRegisterDuplicate is an exported constant or variable used by the authentication engine.
	MetricRegisterDuplicate = metrics.RegisterDuplicate
	// MetricRefreshSuccess is an exported constant or variable used by the authentication engine.
	MetricRefreshSuccess = metrics.RefreshSuccess
	// MetricRefreshFailure is an exported constant or variable used by the authentication engine.
	MetricRefreshFailure = metrics.RefreshFailure
	// MetricRefreshSuperseded is an exported constant or variable used by the authentication engine.
	MetricRefreshSuperseded = metrics.RefreshSuperseded
	// MetricVerifySuccess is an exported constant or variable used by the authentication engine.
	MetricVerifySuccess = metrics.VerifySuccess
	// MetricVerifyFailure is an exported constant or variable used by the authentication engine.
	MetricVerifyFailure = metrics.VerifyFailure
	// MetricVerifySuperseded is an exported constant or variable used by the authentication engine.
	MetricVerifySuperseded = metrics.VerifySuperseded
	// MetricSignOut is an exported constant or variable used by the authentication engine.
	MetricSignOut = metrics.SignOut
	// MetricSignOutEverywhere is an exported constant or variable used by the authentication engine.
	MetricSignOutEverywhere = metrics.SignOutEverywhere
	// MetricPasswordChangeSuccess is an exported constant or variable used by the authentication engine.
	MetricPasswordChangeSuccess = metrics.PasswordChangeSuccess
	// MetricPasswordChangeInvalidOld is an exported constant or variable used by the authentication engine.
	MetricPasswordChangeInvalidOld = metrics.PasswordChangeInvalidOld
	// MetricPasswordChangeReuseRejected is an exported constant or variable used by the authentication engine.
	MetricPasswordChangeReuseRejected = metrics.PasswordChangeReuseRejected
)

// MetricsSnapshot is a point-in-time deep copy of all engine metrics.
type MetricsSnapshot = metrics.Snapshot

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.SnapshotNow()
}
