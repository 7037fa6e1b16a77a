// Package storepg implements [authcore.AccountStore] backed by PostgreSQL
// via pgx. Schema expectations are documented on [Store]; see schema.sql
// for a reference DDL.
package storepg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	authcore "github.com/campuskit/authcore"
	"github.com/campuskit/authcore/role"
)

const pgErrUniqueViolation = "23505"

var _ authcore.AccountStore = (*Store)(nil)

// Store is a PostgreSQL-backed account store. It expects the accounts,
// role_assignments, organizations and branches tables from schema.sql.
//
// Store instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Store struct {
	db *pgxpool.Pool
}

// New wraps an existing connection pool.
func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Connect builds a pool with conservative limits and verifies
// connectivity before returning a [Store].
func Connect(ctx context.Context, url string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MinConns = 2
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 10 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	return &Store{db: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

func maybePgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	ok := errors.As(err, &pgErr)
	return pgErr, ok
}

const accountColumns = `id, identifier, display_name, password_hash, active, deleted,
	organization_id, coalesce(branch_id, ''), invalidation_epoch, created_at, updated_at`

func scanAccount(row pgx.Row) (*authcore.Account, error) {
	var acc authcore.Account
	err := row.Scan(
		&acc.ID, &acc.Identifier, &acc.DisplayName, &acc.PasswordHash,
		&acc.Active, &acc.Deleted,
		&acc.Scope.OrganizationID, &acc.Scope.BranchID,
		&acc.InvalidationEpoch, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, authcore.ErrAccountNotFound
		}
		return nil, err
	}
	return &acc, nil
}

// GetAccountByID implements [authcore.AccountStore].
func (s *Store) GetAccountByID(ctx context.Context, id string) (*authcore.Account, error) {
	row := s.db.QueryRow(ctx, `
		select `+accountColumns+`
		from accounts
		where id = $1
	`, id)
	return scanAccount(row)
}

// GetAccountByIdentifier implements [authcore.AccountStore].
func (s *Store) GetAccountByIdentifier(ctx context.Context, identifier string) (*authcore.Account, error) {
	row := s.db.QueryRow(ctx, `
		select `+accountColumns+`
		from accounts
		where identifier = $1
	`, identifier)
	return scanAccount(row)
}

// CreateAccount implements [authcore.AccountStore]. The account row, its
// initial role assignment, and the optional new organization are written
// in one transaction.
func (s *Store) CreateAccount(ctx context.Context, input authcore.CreateAccountInput) (*authcore.Account, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	orgID := input.OrganizationID
	if input.NewOrganizationName != "" {
		if orgID == "" {
			orgID = "org-" + input.ID
		}
		if _, err := tx.Exec(ctx, `
			insert into organizations (id, name)
			values ($1, $2)
		`, orgID, input.NewOrganizationName); err != nil {
			if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
				return nil, authcore.ErrIdentifierTaken
			}
			return nil, err
		}
	}

	var branch any
	if input.BranchID != "" {
		branch = input.BranchID
	}

	row := tx.QueryRow(ctx, `
		insert into accounts
			(id, identifier, display_name, password_hash, active, deleted,
			 organization_id, branch_id, invalidation_epoch)
		values ($1, $2, $3, $4, true, false, $5, $6, $7)
		returning `+accountColumns+`
	`, input.ID, input.Identifier, input.DisplayName, input.PasswordHash,
		orgID, branch, input.InvalidationEpoch)

	acc, err := scanAccount(row)
	if err != nil {
		if pgErr, ok := maybePgError(err); ok && pgErr.Code == pgErrUniqueViolation {
			return nil, authcore.ErrIdentifierTaken
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		insert into role_assignments (account_id, role, organization_id, branch_id)
		values ($1, $2, $3, $4)
	`, acc.ID, input.Role.String(), orgID, branch); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return acc, nil
}

// UpdatePasswordHash implements [authcore.AccountStore].
func (s *Store) UpdatePasswordHash(ctx context.Context, accountID, newHash string) error {
	tag, err := s.db.Exec(ctx, `
		update accounts
		set password_hash = $2, updated_at = now()
		where id = $1
	`, accountID, newHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return authcore.ErrAccountNotFound
	}
	return nil
}

// UpdateInvalidationEpoch implements [authcore.AccountStore]. GREATEST
// keeps the update monotonic under concurrent writers without a
// read-modify-write cycle.
func (s *Store) UpdateInvalidationEpoch(ctx context.Context, accountID string, epoch int64) error {
	tag, err := s.db.Exec(ctx, `
		update accounts
		set invalidation_epoch = greatest(invalidation_epoch, $2), updated_at = now()
		where id = $1
	`, accountID, epoch)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return authcore.ErrAccountNotFound
	}
	return nil
}

// GetRoleAssignments implements [authcore.AccountStore]. Rows carrying a
// role name this build does not know are skipped rather than failing the
// whole sign-in.
func (s *Store) GetRoleAssignments(ctx context.Context, accountID string) ([]authcore.RoleAssignment, error) {
	rows, err := s.db.Query(ctx, `
		select account_id, role, organization_id, coalesce(branch_id, ''), created_at
		from role_assignments
		where account_id = $1
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []authcore.RoleAssignment
	for rows.Next() {
		var (
			a        authcore.RoleAssignment
			roleName string
		)
		if err := rows.Scan(&a.AccountID, &roleName, &a.OrganizationID, &a.BranchID, &a.CreatedAt); err != nil {
			return nil, err
		}
		r, ok := role.Parse(roleName)
		if !ok {
			continue
		}
		a.Role = r
		out = append(out, a)
	}
	return out, rows.Err()
}

// BranchActive implements [authcore.AccountStore]. Unknown branches are
// reported inactive.
func (s *Store) BranchActive(ctx context.Context, organizationID, branchID string) (bool, error) {
	var active bool
	err := s.db.QueryRow(ctx, `
		select active
		from branches
		where organization_id = $1 and id = $2
	`, organizationID, branchID).Scan(&active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return active, nil
}
