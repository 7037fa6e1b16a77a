package authcore

import (
	"context"
	"time"

	"github.com/campuskit/authcore/role"
)

// TenantScope is the (organization, branch) pair an account and its tokens
// are bound to. BranchID is empty for organization-wide accounts.
type TenantScope struct {
	OrganizationID string
	BranchID       string
}

// Account is the identity record held by the [AccountStore]. The engine
// never hard-deletes accounts; Deleted marks soft deletion.
//
// InvalidationEpoch is a unix-nanosecond timestamp that only ever moves
// forward. Tokens embedding an older epoch are rejected.
type Account struct {
	ID                string
	Identifier        string
	DisplayName       string
	PasswordHash      string
	Active            bool
	Deleted           bool
	Scope             TenantScope
	InvalidationEpoch int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RoleAssignment is one role grant for an account within a tenant scope.
// Assignments are created by provisioning flows outside this engine and
// are read-only here.
type RoleAssignment struct {
	AccountID      string
	Role           role.Role
	OrganizationID string
	BranchID       string
	CreatedAt      time.Time
}

// CreateAccountInput is passed to [AccountStore.CreateAccount]. The store
// must create the account, its initial role assignment, and, when
// NewOrganizationName is set, the organization row, in one atomic unit.
type CreateAccountInput struct {
	ID                  string
	Identifier          string
	DisplayName         string
	PasswordHash        string
	Role                role.Role
	OrganizationID      string
	BranchID            string
	NewOrganizationName string
	InvalidationEpoch   int64
}

// AccountStore is the interface callers implement to integrate authcore
// with their relational store. Implementations must return
// [ErrAccountNotFound] for missing accounts and [ErrIdentifierTaken] for
// duplicate identifiers.
//
// UpdateInvalidationEpoch must be a single atomic update and must never
// move the epoch backwards (last-writer-wins with the larger value).
type AccountStore interface {
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByIdentifier(ctx context.Context, identifier string) (*Account, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*Account, error)
	UpdatePasswordHash(ctx context.Context, accountID, newHash string) error
	UpdateInvalidationEpoch(ctx context.Context, accountID string, epoch int64) error
	GetRoleAssignments(ctx context.Context, accountID string) ([]RoleAssignment, error)
	BranchActive(ctx context.Context, organizationID, branchID string) (bool, error)
}

// Identity is the resolved result of a successful [Engine.Verify], ready
// for downstream authorization.
type Identity struct {
	AccountID string
	Role      role.Role
	Scope     TenantScope
}

// TokenPair is one access/refresh issuance. Family is the random id shared
// by the pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Family       string
}

// Session is returned by [Engine.Register] and [Engine.SignIn].
type Session struct {
	Identity Identity
	Tokens   TokenPair
}

// RegisterRequest is the input for [Engine.Register]. When OrganizationName
// is set a new organization is provisioned in the same atomic unit and the
// account becomes its admin; otherwise OrganizationID must name an existing
// organization and Role the role to grant.
type RegisterRequest struct {
	Identifier       string
	Password         string
	DisplayName      string
	Role             role.Role
	OrganizationID   string
	BranchID         string
	OrganizationName string
}
