package authcore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidInput is an exported constant or variable used by the authentication engine.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrRateLimited is an exported constant or variable used by the authentication engine.
	ErrRateLimited = errors.New("rate limited")
	// ErrAccountDisabled is an exported constant or variable used by the authentication engine.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountNotFound is an exported constant or variable used by the authentication engine.
	ErrAccountNotFound = errors.New("account not found")
	// ErrRoleNotPermitted is an exported constant or variable used by the authentication engine.
	ErrRoleNotPermitted = errors.New("role not permitted to sign in")
	// ErrTenantScopeDisabled is an exported constant or variable used by the authentication engine.
	ErrTenantScopeDisabled = errors.New("tenant scope disabled")
	// ErrTokenExpired is an exported constant or variable used by the authentication engine.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed is an exported constant or variable used by the authentication engine.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenWrongKind is an exported constant or variable used by the authentication engine.
	ErrTokenWrongKind = errors.New("token kind mismatch")
	// ErrTokenSuperseded is an exported constant or variable used by the authentication engine.
	ErrTokenSuperseded = errors.New("token superseded")
	// ErrIdentifierTaken is an exported constant or variable used by the authentication engine.
	ErrIdentifierTaken = errors.New("identifier already registered")
	// ErrPasswordPolicy is an exported constant or variable used by the authentication engine.
	ErrPasswordPolicy = errors.New("password policy violation")
	// ErrPasswordReuse is an exported constant or variable used by the authentication engine.
	ErrPasswordReuse = errors.New("new password must be different from current password")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("account store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// RateLimitedError carries the remaining lockout duration. It unwraps to
// [ErrRateLimited] so callers can match with errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// Is reports whether target is [ErrRateLimited].
func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}
