package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this. It exposes sub-repositories so a transaction scoped Store and the
// root Store are used the same way.
type Store interface {
	Accounts() Accounts
	References() References
	Providers() Providers

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// AccountFilter narrows a paginated listing. Nil fields match everything.
type AccountFilter struct {
	Status *domain.Status
	Role   *domain.Role
}

type Accounts interface {
	// Exists reports whether an account with the id is present.
	Exists(ctx context.Context, id string) (bool, error)

	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail is used for the email uniqueness checks.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// CreateAccount inserts a new account. Returns ErrAlreadyExists when the
	// id or email is taken.
	CreateAccount(ctx context.Context, a domain.Account) error

	// SaveAccount overwrites every mutable column of an existing account.
	SaveAccount(ctx context.Context, a domain.Account) error

	// DeleteAccount hard deletes the row.
	DeleteAccount(ctx context.Context, id string) error

	// ListAccounts returns one page ordered by id together with the total
	// number of matching rows.
	ListAccounts(ctx context.Context, filter AccountFilter, page domain.PageRequest) ([]domain.Account, int64, error)

	// ListAll returns every account. Used by the inactivity sweep.
	ListAll(ctx context.Context) ([]domain.Account, error)
}

type References interface {
	ListRoles(ctx context.Context) ([]domain.Reference, error)
	ListStatuses(ctx context.Context) ([]domain.Reference, error)

	// UpsertRole and UpsertStatus are used by seeding only.
	UpsertRole(ctx context.Context, ref domain.Reference) error
	UpsertStatus(ctx context.Context, ref domain.Reference) error
}

type Providers interface {
	GetProviderByID(ctx context.Context, id string) (domain.Provider, error)
	ListProviders(ctx context.Context) ([]domain.Provider, error)
	UpsertProvider(ctx context.Context, p domain.Provider) error
}
