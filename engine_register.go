package authcore

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/campuskit/authcore/internal/metrics"
	"github.com/campuskit/authcore/password"
	"github.com/campuskit/authcore/role"
)

const (
	minIdentifierLength = 3
	maxIdentifierLength = 254
)

// canonicalIdentifier lowercases and trims the submitted identifier so
// that "Alice@Example.Com " and "alice@example.com" address one account.
func canonicalIdentifier(identifier string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(identifier))
	if len(id) < minIdentifierLength || len(id) > maxIdentifierLength {
		return "", ErrInvalidInput
	}
	if strings.ContainsAny(id, " \t\r\n") {
		return "", ErrInvalidInput
	}
	if at := strings.Count(id, "@"); at > 0 {
		if at != 1 || strings.HasPrefix(id, "@") || strings.HasSuffix(id, "@") {
			return "", ErrInvalidInput
		}
		domain := id[strings.IndexByte(id, '@')+1:]
		if !strings.Contains(domain, ".") {
			return "", ErrInvalidInput
		}
	}
	return id, nil
}

// Register describes the register operation and its observable behavior.
//
// It validates identifier shape and password strength, creates the account
// (and, when req.OrganizationName is set, a new organization with the
// account as its admin) in one atomic store call, and returns a live
// session for the new account.
//
// Register may return an error when input validation, dependency calls, or security checks fail.
// Register does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}

	identifier, err := canonicalIdentifier(req.Identifier)
	if err != nil {
		return nil, err
	}

	grant := req.Role
	if req.OrganizationName != "" {
		// Provisioning a new organization always grants Admin; the
		// caller-submitted role is ignored on this path.
		grant = role.Admin
	} else {
		if req.OrganizationID == "" {
			return nil, ErrInvalidInput
		}
		if !grant.Valid() {
			return nil, ErrInvalidInput
		}
		// Self-registration never hands out platform-operator roles.
		if grant == role.Admin || grant == role.SuperAdmin {
			return nil, ErrRoleNotPermitted
		}
	}

	if err := password.Validate(req.Password); err != nil {
		return nil, errors.Join(ErrPasswordPolicy, err)
	}
	hash, err := e.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	epoch := e.currentEpoch()
	account, err := e.store.CreateAccount(ctx, CreateAccountInput{
		ID:                  uuid.NewString(),
		Identifier:          identifier,
		DisplayName:         strings.TrimSpace(req.DisplayName),
		PasswordHash:        hash,
		Role:                grant,
		OrganizationID:      req.OrganizationID,
		BranchID:            req.BranchID,
		NewOrganizationName: req.OrganizationName,
		InvalidationEpoch:   epoch,
	})
	if err != nil {
		if errors.Is(err, ErrIdentifierTaken) {
			e.metrics.Inc(metrics.RegisterDuplicate)
			return nil, ErrIdentifierTaken
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	tokens, err := e.issuePair(account, grant, epoch)
	if err != nil {
		return nil, err
	}

	e.metrics.Inc(metrics.RegisterSuccess)
	e.logger.Info().
		Str("account_id", account.ID).
		Str("org_id", account.Scope.OrganizationID).
		Str("role", grant.String()).
		Msg("account registered")

	return &Session{
		Identity: Identity{
			AccountID: account.ID,
			Role:      grant,
			Scope:     account.Scope,
		},
		Tokens: tokens,
	}, nil
}
