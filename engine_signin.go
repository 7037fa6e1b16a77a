package authcore

import (
	"context"
	"errors"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/internal/rate"
	"github.com/campuskit/authcore/role"
)

// SignIn describes the signin operation and its observable behavior.
//
// Unknown identifiers and wrong passwords both return
// [ErrInvalidCredentials] and take comparable time to process, so callers
// cannot probe which identifiers exist. Locked identifiers are rejected
// with a [RateLimitedError] before any store or hasher work.
//
// SignIn may return an error when input validation, dependency calls, or security checks fail.
// SignIn does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignIn(ctx context.Context, identifier, pass string) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	id, err := canonicalIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if pass == "" {
		return nil, ErrInvalidInput
	}

	ip := clientIPFromContext(ctx)

	if retry, err := e.limiter.Check(ctx, id, ip); err != nil {
		if errors.Is(err, rate.ErrLocked) {
			e.metrics.Inc(metrics.SignInRateLimited)
			e.logger.Warn().
				Str("identifier", id).
				Dur("retry_after", retry).
				Msg("sign-in rejected while locked out")
			return nil, &RateLimitedError{RetryAfter: retry}
		}
		// Backend failure fails closed: an attacker must not be able to
		// bypass lockout by degrading the limiter store.
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	account, err := e.store.GetAccountByIdentifier(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			// Burn a hash verification anyway for timing parity with
			// the wrong-password path.
			e.hasher.Verify(pass, e.dummyHash)
			return nil, e.recordFailure(ctx, id, ip)
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if !account.Active || account.Deleted {
		e.metrics.Inc(metrics.SignInFailure)
		return nil, ErrAccountDisabled
	}

	if !e.hasher.Verify(pass, account.PasswordHash) {
		return nil, e.recordFailure(ctx, id, ip)
	}

	assignments, err := e.store.GetRoleAssignments(ctx, account.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	effective, ok := role.Resolve(toRoleAssignments(assignments), role.Scope{
		OrganizationID: account.Scope.OrganizationID,
		BranchID:       account.Scope.BranchID,
	})
	if !ok || !effective.Interactive() {
		e.metrics.Inc(metrics.SignInFailure)
		return nil, ErrRoleNotPermitted
	}

	if account.Scope.BranchID != "" {
		active, err := e.store.BranchActive(ctx, account.Scope.OrganizationID, account.Scope.BranchID)
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		if !active {
			e.metrics.Inc(metrics.SignInFailure)
			return nil, ErrTenantScopeDisabled
		}
	}

	tokens, err := e.issuePair(account, effective, e.currentEpoch())
	if err != nil {
		return nil, err
	}

	// Successful authentication clears any accumulated failures. Errors
	// here are logged and swallowed; the sign-in already succeeded.
	if err := e.limiter.Reset(ctx, id, ip); err != nil {
		e.logger.Warn().Err(err).Str("identifier", id).Msg("rate limiter reset failed")
	}

	e.metrics.Inc(metrics.SignInSuccess)
	e.logger.Info().
		Str("account_id", account.ID).
		Str("role", effective.String()).
		Msg("sign-in succeeded")

	return &Session{
		Identity: Identity{
			AccountID: account.ID,
			Role:      effective,
			Scope:     account.Scope,
		},
		Tokens: tokens,
	}, nil
}

// recordFailure counts one failed attempt and returns the uniform
// credential error. Tripping the threshold is logged as a security event.
func (e *Engine) recordFailure(ctx context.Context, identifier, ip string) error {
	tripped, err := e.limiter.RecordFailure(ctx, identifier, ip)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if tripped {
		e.metrics.Inc(metrics.LockoutTripped)
		e.logger.Warn().
			Str("identifier", identifier).
			Int("threshold", e.config.RateLimit.MaxAttempts).
			Msg("lockout threshold reached")
	}
	e.metrics.Inc(metrics.SignInFailure)
	return ErrInvalidCredentials
}

func toRoleAssignments(in []RoleAssignment) []role.Assignment {
	out := make([]role.Assignment, 0, len(in))
	for _, a := range in {
		out = append(out, role.Assignment{
			Role:           a.Role,
			OrganizationID: a.OrganizationID,
			BranchID:       a.BranchID,
		})
	}
	return out
}
