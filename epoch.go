package authcore

import (
	"context"
	"errors"
)

// Tokens carry the epoch that was current when they were minted; a token
// is live while its epoch is >= the account's stored invalidation epoch.
// Raising the stored epoch therefore revokes every previously issued
// token in one write, with no per-token state.

// currentEpoch returns the engine clock as a revocation epoch.
func (e *Engine) currentEpoch() int64 {
	return e.now().UnixNano()
}

// invalidateBefore raises the account's invalidation epoch to the given
// value. The store keeps the larger of the stored and submitted epochs, so
// concurrent calls can land in any order without reviving revoked tokens.
func (e *Engine) invalidateBefore(ctx context.Context, accountID string, epoch int64) error {
	if err := e.store.UpdateInvalidationEpoch(ctx, accountID, epoch); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
