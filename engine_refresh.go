package authcore

import (
	"context"
	"errors"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/role"
	"github.com/campuskit/authcore/token"
)

// Refresh describes the refresh operation and its observable behavior.
//
// A valid refresh token is exchanged for a brand-new pair and every token
// minted before this call (including the one just spent) is revoked. The
// new pair is minted at the same epoch value that is then written as the
// account's invalidation epoch, so it survives its own revocation sweep.
//
// Two concurrent calls with the same refresh token can both succeed; the
// later epoch bump supersedes the earlier winner's pair, leaving exactly
// one usable pair.
//
// Refresh may return an error when input validation, dependency calls, or security checks fail.
// Refresh does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		e.metrics.Inc(metrics.RefreshFailure)
		return nil, e.mapTokenError(err)
	}

	account, err := e.store.GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metrics.Inc(metrics.RefreshFailure)
			return nil, ErrAccountNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	if !account.Active || account.Deleted {
		e.metrics.Inc(metrics.RefreshFailure)
		return nil, ErrAccountDisabled
	}

	if claims.Epoch < account.InvalidationEpoch {
		e.metrics.Inc(metrics.RefreshSuperseded)
		e.logger.Warn().
			Str("account_id", account.ID).
			Str("family", claims.Family).
			Msg("stale refresh token presented")
		return nil, ErrTokenSuperseded
	}

	parsed, ok := role.Parse(claims.Role)
	if !ok {
		e.metrics.Inc(metrics.RefreshFailure)
		return nil, ErrTokenMalformed
	}

	// Mint first, then invalidate with the same epoch value. The store
	// keeps the larger epoch, so the pair minted here is the newest one
	// and stays live after the write lands.
	epoch := e.currentEpoch()
	tokens, err := e.issuePair(account, parsed, epoch)
	if err != nil {
		return nil, err
	}

	if err := e.invalidateBefore(ctx, account.ID, epoch); err != nil {
		return nil, err
	}

	e.metrics.Inc(metrics.RefreshSuccess)

	return &Session{
		Identity: Identity{
			AccountID: account.ID,
			Role:      parsed,
			Scope:     account.Scope,
		},
		Tokens: tokens,
	}, nil
}

// SignOut describes the signout operation and its observable behavior.
//
// It decodes the refresh token to locate the account, then revokes every
// outstanding token for it. Tokens that are already expired or superseded
// still sign out cleanly.
//
// SignOut may return an error when input validation, dependency calls, or security checks fail.
// SignOut does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignOut(ctx context.Context, refreshToken string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	claims, err := e.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		// Expired tokens still identify the account; anything else is
		// unusable and there is nothing to revoke.
		if !errors.Is(err, token.ErrExpired) {
			return e.mapTokenError(err)
		}
		claims, err = e.codec.DecodeExpired(refreshToken, token.KindRefresh)
		if err != nil {
			return e.mapTokenError(err)
		}
	}

	e.metrics.Inc(metrics.SignOut)
	return e.SignOutEverywhere(ctx, claims.Subject)
}

// SignOutEverywhere describes the signouteverywhere operation and its observable behavior.
//
// It advances the account's invalidation epoch to the current clock,
// revoking every token minted before this call across all devices.
//
// SignOutEverywhere may return an error when input validation, dependency calls, or security checks fail.
// SignOutEverywhere does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) SignOutEverywhere(ctx context.Context, accountID string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if accountID == "" {
		return ErrInvalidInput
	}

	if err := e.invalidateBefore(ctx, accountID, e.currentEpoch()); err != nil {
		return err
	}

	e.metrics.Inc(metrics.SignOutEverywhere)
	e.logger.Info().Str("account_id", accountID).Msg("all sessions invalidated")
	return nil
}
