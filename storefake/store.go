// Package storefake provides an in-memory [authcore.AccountStore] for
// tests and local development. It honors the same contract a relational
// implementation must: unique identifiers, monotonic invalidation epochs,
// and atomic account+assignment+organization creation.
package storefake

import (
	"context"
	"sync"
	"time"

	authcore "github.com/campuskit/authcore"
)

// Store is a mutex-guarded in-memory account store.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	mu sync.Mutex

	accounts     map[string]*authcore.Account // keyed by account id
	byIdentifier map[string]string            // identifier -> account id
	assignments  map[string][]authcore.RoleAssignment
	branches     map[string]bool // orgID + "/" + branchID -> active
	orgs         map[string]string

	now func() time.Time
}

// New creates an empty [Store]. The now function stamps CreatedAt and
// UpdatedAt; pass nil for time.Now.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		accounts:     map[string]*authcore.Account{},
		byIdentifier: map[string]string{},
		assignments:  map[string][]authcore.RoleAssignment{},
		branches:     map[string]bool{},
		orgs:         map[string]string{},
		now:          now,
	}
}

func branchKey(orgID, branchID string) string {
	return orgID + "/" + branchID
}

// SeedBranch marks a branch as active or disabled for [Store.BranchActive].
func (s *Store) SeedBranch(orgID, branchID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.branches[branchKey(orgID, branchID)] = active
}

// SeedAssignment adds a role grant outside of account creation.
func (s *Store) SeedAssignment(accountID string, a authcore.RoleAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments[accountID] = append(s.assignments[accountID], a)
}

// SetActive flips the account's active flag.
func (s *Store) SetActive(accountID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[accountID]; ok {
		acc.Active = active
		acc.UpdatedAt = s.now()
	}
}

// SetDeleted flips the account's soft-delete flag.
func (s *Store) SetDeleted(accountID string, deleted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acc, ok := s.accounts[accountID]; ok {
		acc.Deleted = deleted
		acc.UpdatedAt = s.now()
	}
}

// OrganizationName returns the name recorded for a provisioned
// organization id.
func (s *Store) OrganizationName(orgID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.orgs[orgID]
	return name, ok
}

// GetAccountByID implements [authcore.AccountStore].
func (s *Store) GetAccountByID(_ context.Context, id string) (*authcore.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[id]
	if !ok {
		return nil, authcore.ErrAccountNotFound
	}
	out := *acc
	return &out, nil
}

// GetAccountByIdentifier implements [authcore.AccountStore].
func (s *Store) GetAccountByIdentifier(_ context.Context, identifier string) (*authcore.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byIdentifier[identifier]
	if !ok {
		return nil, authcore.ErrAccountNotFound
	}
	out := *s.accounts[id]
	return &out, nil
}

// CreateAccount implements [authcore.AccountStore]. The account, its
// initial role assignment and any new organization land together or not at
// all.
func (s *Store) CreateAccount(_ context.Context, input authcore.CreateAccountInput) (*authcore.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byIdentifier[input.Identifier]; taken {
		return nil, authcore.ErrIdentifierTaken
	}

	orgID := input.OrganizationID
	if input.NewOrganizationName != "" {
		if orgID == "" {
			orgID = "org-" + input.ID
		}
		s.orgs[orgID] = input.NewOrganizationName
	}

	now := s.now()
	acc := &authcore.Account{
		ID:           input.ID,
		Identifier:   input.Identifier,
		DisplayName:  input.DisplayName,
		PasswordHash: input.PasswordHash,
		Active:       true,
		Scope: authcore.TenantScope{
			OrganizationID: orgID,
			BranchID:       input.BranchID,
		},
		InvalidationEpoch: input.InvalidationEpoch,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	s.accounts[acc.ID] = acc
	s.byIdentifier[acc.Identifier] = acc.ID
	s.assignments[acc.ID] = append(s.assignments[acc.ID], authcore.RoleAssignment{
		AccountID:      acc.ID,
		Role:           input.Role,
		OrganizationID: orgID,
		BranchID:       input.BranchID,
		CreatedAt:      now,
	})
	if input.BranchID != "" {
		if _, seeded := s.branches[branchKey(orgID, input.BranchID)]; !seeded {
			s.branches[branchKey(orgID, input.BranchID)] = true
		}
	}

	out := *acc
	return &out, nil
}

// UpdatePasswordHash implements [authcore.AccountStore].
func (s *Store) UpdatePasswordHash(_ context.Context, accountID, newHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return authcore.ErrAccountNotFound
	}
	acc.PasswordHash = newHash
	acc.UpdatedAt = s.now()
	return nil
}

// UpdateInvalidationEpoch implements [authcore.AccountStore]. The stored
// epoch never moves backwards; when the submitted value is older the call
// is a no-op.
func (s *Store) UpdateInvalidationEpoch(_ context.Context, accountID string, epoch int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return authcore.ErrAccountNotFound
	}
	if epoch > acc.InvalidationEpoch {
		acc.InvalidationEpoch = epoch
		acc.UpdatedAt = s.now()
	}
	return nil
}

// GetRoleAssignments implements [authcore.AccountStore].
func (s *Store) GetRoleAssignments(_ context.Context, accountID string) ([]authcore.RoleAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src := s.assignments[accountID]
	out := make([]authcore.RoleAssignment, len(src))
	copy(out, src)
	return out, nil
}

// BranchActive implements [authcore.AccountStore]. Unknown branches are
// reported inactive.
func (s *Store) BranchActive(_ context.Context, organizationID, branchID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.branches[branchKey(organizationID, branchID)], nil
}
