package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/internal/rate"
	"github.com/campuskit/authcore/password"
	"github.com/campuskit/authcore/role"
	"github.com/campuskit/authcore/token"
)

// Engine defines a public type used by authcore APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config    Config
	store     AccountStore
	codec     *token.Codec
	hasher    *password.Hasher
	dummyHash string
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
	logger    zerolog.Logger
	clock     func() time.Time
}

func (e *Engine) now() time.Time {
	return e.clock()
}

// Verify describes the verify operation and its observable behavior.
//
// It authenticates an access token and returns the caller's identity. The
// hot path is one signature check, one account read and one epoch compare;
// no rate limiter or hasher work happens here.
//
// Verify may return an error when input validation, dependency calls, or security checks fail.
// Verify does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Verify(ctx context.Context, accessToken string) (Identity, error) {
	if e == nil {
		return Identity{}, ErrEngineNotReady
	}

	start := e.now()

	claims, err := e.codec.Verify(accessToken, token.KindAccess)
	if err != nil {
		e.metrics.Inc(metrics.VerifyFailure)
		return Identity{}, e.mapTokenError(err)
	}

	account, err := e.store.GetAccountByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			e.metrics.Inc(metrics.VerifyFailure)
			return Identity{}, ErrAccountNotFound
		}
		e.metrics.Inc(metrics.VerifyFailure)
		return Identity{}, errors.Join(ErrStoreUnavailable, err)
	}

	if !account.Active || account.Deleted {
		e.metrics.Inc(metrics.VerifyFailure)
		return Identity{}, ErrAccountDisabled
	}

	if claims.Epoch < account.InvalidationEpoch {
		e.metrics.Inc(metrics.VerifySuperseded)
		return Identity{}, ErrTokenSuperseded
	}

	parsed, ok := role.Parse(claims.Role)
	if !ok {
		e.metrics.Inc(metrics.VerifyFailure)
		return Identity{}, ErrTokenMalformed
	}

	e.metrics.Inc(metrics.VerifySuccess)
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(e.now().Sub(start))
	}

	return Identity{
		AccountID: claims.Subject,
		Role:      parsed,
		Scope: TenantScope{
			OrganizationID: claims.Org,
			BranchID:       claims.Branch,
		},
	}, nil
}

// mapTokenError translates codec sentinels into the public error surface.
func (e *Engine) mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpired):
		return ErrTokenExpired
	case errors.Is(err, token.ErrWrongKind):
		return ErrTokenWrongKind
	case errors.Is(err, token.ErrBadSignature), errors.Is(err, token.ErrMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenMalformed
	}
}

// issuePair mints a fresh access/refresh pair sharing one family and epoch.
func (e *Engine) issuePair(account *Account, r role.Role, epoch int64) (TokenPair, error) {
	family := uuid.NewString()
	scope := token.Scope{
		OrganizationID: account.Scope.OrganizationID,
		BranchID:       account.Scope.BranchID,
	}

	access, err := e.codec.Issue(account.ID, r.String(), scope, family, token.KindAccess, epoch)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := e.codec.Issue(account.ID, r.String(), scope, family, token.KindRefresh, epoch)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		Family:       family,
	}, nil
}
