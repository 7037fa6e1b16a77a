package authcore

import (
	"context"
	"errors"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/password"
)

// ChangePassword describes the changepassword operation and its observable behavior.
//
// The old password is verified first, then the new password must pass the
// strength policy and must differ from the old one. On success every
// outstanding session for the account is terminated; the caller must sign
// in again with the new password.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) ChangePassword(ctx context.Context, accountID, oldPassword, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}
	if accountID == "" {
		return ErrInvalidInput
	}

	account, err := e.store.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return errors.Join(ErrStoreUnavailable, err)
	}

	if !account.Active || account.Deleted {
		return ErrAccountDisabled
	}

	if !e.hasher.Verify(oldPassword, account.PasswordHash) {
		e.metrics.Inc(metrics.PasswordChangeInvalidOld)
		return ErrInvalidCredentials
	}

	if err := password.Validate(newPassword); err != nil {
		return errors.Join(ErrPasswordPolicy, err)
	}

	// Reusing the current password would make the forced session sweep
	// below meaningless for a compromised credential.
	if e.hasher.Verify(newPassword, account.PasswordHash) {
		e.metrics.Inc(metrics.PasswordChangeReuseRejected)
		return ErrPasswordReuse
	}

	newHash, err := e.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := e.store.UpdatePasswordHash(ctx, account.ID, newHash); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return errors.Join(ErrStoreUnavailable, err)
	}

	if err := e.SignOutEverywhere(ctx, account.ID); err != nil {
		return err
	}

	// A credential rotation also clears any lockout accumulated against
	// the identifier; best effort only.
	if err := e.limiter.Reset(ctx, account.Identifier, ""); err != nil {
		e.logger.Warn().Err(err).Str("account_id", account.ID).Msg("rate limiter reset failed")
	}

	e.metrics.Inc(metrics.PasswordChangeSuccess)
	e.logger.Info().Str("account_id", account.ID).Msg("password changed")
	return nil
}
