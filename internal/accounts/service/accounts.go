package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// AccountService owns every account mutation. Each operation runs inside a
// single store transaction and updates the cache only after the commit:
// single-account keys are written through, listing pages are evicted by tag.
type AccountService struct {
	Store    store.Store
	Cache    cache.Cache
	Registry *Registry
	Hasher   Hasher

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	// CacheTTL applies to every cache write. Defaults to cache.DefaultTTL.
	CacheTTL time.Duration
}

type RegisterInput struct {
	ID          string
	DisplayName string
	Email       string
	Password    string
}

type UpdateInput struct {
	DisplayName string
	Email       string
	Password    string
}

// Register creates a PENDING user account. The last login is set to the
// creation time so the inactivity sweep has a baseline.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (domain.AccountView, error) {
	if strings.TrimSpace(in.ID) == "" {
		return domain.AccountView{}, ErrMissingAccountID
	}

	role, err := s.Registry.UserRole()
	if err != nil {
		return domain.AccountView{}, err
	}
	status, err := s.Registry.PendingStatus()
	if err != nil {
		return domain.AccountView{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.AccountView{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	account := domain.Account{
		ID:           in.ID,
		DisplayName:  in.DisplayName,
		PasswordHash: hash,
		Email:        in.Email,
		Role:         role,
		Status:       status,
		Provider:     domain.ProviderDefault,
		CreatedAt:    now,
		LastLoginAt:  &now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		exists, err := tx.Accounts().Exists(ctx, in.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrAccountAlreadyExists, in.ID)
		}
		if err := ensureEmailFree(ctx, tx, in.Email, ""); err != nil {
			return err
		}
		if err := tx.Accounts().CreateAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: %s", ErrAccountAlreadyExists, in.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account registered", "account_id", in.ID)
	return account.View(), nil
}

// Login verifies the password and records the login time. Administrators
// that have never logged in are refused before their password is checked.
func (s *AccountService) Login(ctx context.Context, id, password string) (domain.AccountView, error) {
	if id == "" {
		return domain.AccountView{}, ErrMissingAccountID
	}

	var account domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = loadAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if account.MustChangePassword() {
			return ErrAdminPasswordChangeRequired
		}
		if !s.Hasher.Verify(password, account.PasswordHash) {
			return ErrInvalidCredentials
		}

		now := s.now()
		account.LastLoginAt = &now
		return tx.Accounts().SaveAccount(ctx, account)
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	view := account.View()
	s.put(ctx, cache.UserKey(id), view)
	return view, nil
}

// Permit sets the account ACTIVE. It admits a PENDING registrant and
// reinstates a DEACTIVATED or INACTIVE one.
func (s *AccountService) Permit(ctx context.Context, id string) (domain.AccountView, error) {
	active, err := s.Registry.ActiveStatus()
	if err != nil {
		return domain.AccountView{}, err
	}

	view, err := s.mutate(ctx, id, func(a *domain.Account) error {
		a.Status = active
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	s.put(ctx, cache.UserKey(id), view)
	s.evict(ctx, cache.LoginKey(id))
	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account permitted", "account_id", id)
	return view, nil
}

// Promote grants the ADMIN role. Status is untouched.
func (s *AccountService) Promote(ctx context.Context, id string) (domain.AccountView, error) {
	admin, err := s.Registry.AdminRole()
	if err != nil {
		return domain.AccountView{}, err
	}

	view, err := s.mutate(ctx, id, func(a *domain.Account) error {
		a.Role = admin
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	s.put(ctx, cache.UserKey(id), view)
	s.evict(ctx, cache.LoginKey(id), cache.RoleKey(id))
	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account promoted", "account_id", id)
	return view, nil
}

// Update overwrites the profile and password. An update reactivates the
// account and counts as activity.
func (s *AccountService) Update(ctx context.Context, id string, in UpdateInput) (domain.AccountView, error) {
	if id == "" {
		return domain.AccountView{}, ErrMissingAccountID
	}
	active, err := s.Registry.ActiveStatus()
	if err != nil {
		return domain.AccountView{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return domain.AccountView{}, fmt.Errorf("hash password: %w", err)
	}

	var account domain.Account
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = loadAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Email != account.Email {
			if err := ensureEmailFree(ctx, tx, in.Email, id); err != nil {
				return err
			}
		}

		now := s.now()
		account.DisplayName = in.DisplayName
		account.Email = in.Email
		account.PasswordHash = hash
		account.Status = active
		account.LastLoginAt = &now

		if err := tx.Accounts().SaveAccount(ctx, account); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return fmt.Errorf("%w: %s", ErrDuplicateEmail, in.Email)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	view := account.View()
	s.put(ctx, cache.UserKey(id), view)
	s.evict(ctx, cache.LoginKey(id))
	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account updated", "account_id", id)
	return view, nil
}

// Deactivate is a soft delete: the record stays visible to administrators.
func (s *AccountService) Deactivate(ctx context.Context, id string) (domain.AccountView, error) {
	if id == "" {
		return domain.AccountView{}, ErrMissingAccountID
	}
	deactivated, err := s.Registry.DeactivatedStatus()
	if err != nil {
		return domain.AccountView{}, err
	}

	view, err := s.mutate(ctx, id, func(a *domain.Account) error {
		now := s.now()
		a.Status = deactivated
		a.LastLoginAt = &now
		return nil
	})
	if err != nil {
		return domain.AccountView{}, err
	}

	s.put(ctx, cache.UserKey(id), view)
	s.evict(ctx, cache.LoginKey(id))
	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account deactivated", "account_id", id)
	return view, nil
}

// Delete removes the account permanently.
func (s *AccountService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingAccountID
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		err := tx.Accounts().DeleteAccount(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		return err
	})
	if err != nil {
		return err
	}

	s.evict(ctx, cache.UserKey(id), cache.LoginKey(id), cache.RoleKey(id))
	s.evictTags(ctx, cache.TagUsers)
	slogx.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

// GetByID returns the account view, served from cache when present.
func (s *AccountService) GetByID(ctx context.Context, id string) (domain.AccountView, error) {
	if id == "" {
		return domain.AccountView{}, ErrMissingAccountID
	}

	key := cache.UserKey(id)
	var view domain.AccountView
	if s.get(ctx, key, &view) {
		return view, nil
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		return domain.AccountView{}, mapAccountErr(err, id)
	}

	view = account.View()
	s.put(ctx, key, view)
	return view, nil
}

// AuthorizeAdmin returns ErrAccessDenied unless id names an administrator.
func (s *AccountService) AuthorizeAdmin(ctx context.Context, id string) error {
	role, err := s.GetRole(ctx, id)
	if errors.Is(err, ErrAccountNotFound) || errors.Is(err, ErrMissingAccountID) {
		return fmt.Errorf("%w: %s", ErrAccessDenied, id)
	}
	if err != nil {
		return err
	}
	if role.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: %s is not an administrator", ErrAccessDenied, id)
	}
	return nil
}

// GetRole returns the role of the account, served from cache when present.
func (s *AccountService) GetRole(ctx context.Context, id string) (domain.AccountRole, error) {
	if id == "" {
		return domain.AccountRole{}, ErrMissingAccountID
	}

	key := cache.RoleKey(id)
	var role domain.AccountRole
	if s.get(ctx, key, &role) {
		return role, nil
	}

	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		return domain.AccountRole{}, mapAccountErr(err, id)
	}

	role = domain.AccountRole{AccountID: account.ID, Role: account.Role}
	s.put(ctx, key, role)
	return role, nil
}

// ListAccounts returns one page of every account. An empty page is reported
// as ErrAccountNotFound.
func (s *AccountService) ListAccounts(ctx context.Context, page domain.PageRequest) (domain.Page[domain.AccountView], error) {
	page = page.Normalize()
	return s.listPage(ctx, cache.PageKey(page), store.AccountFilter{}, page)
}

// ListByStatus returns one page of accounts in the given status.
func (s *AccountService) ListByStatus(
	ctx context.Context,
	statusID int,
	page domain.PageRequest,
) (domain.Page[domain.AccountView], error) {
	if !s.Registry.HasStatus(statusID) {
		return domain.Page[domain.AccountView]{}, fmt.Errorf("%w: %d", ErrStatusNotFound, statusID)
	}
	status := domain.Status(statusID)
	page = page.Normalize()
	return s.listPage(ctx, cache.StatusPageKey(status, page), store.AccountFilter{Status: &status}, page)
}

// ListByRole returns one page of accounts holding the given role.
func (s *AccountService) ListByRole(
	ctx context.Context,
	roleID int,
	page domain.PageRequest,
) (domain.Page[domain.AccountView], error) {
	if !s.Registry.HasRole(roleID) {
		return domain.Page[domain.AccountView]{}, fmt.Errorf("%w: %d", ErrRoleNotFound, roleID)
	}
	role := domain.Role(roleID)
	page = page.Normalize()
	return s.listPage(ctx, cache.RolePageKey(role, page), store.AccountFilter{Role: &role}, page)
}

// ListRoles and ListStatuses expose the seeded reference rows.
func (s *AccountService) ListRoles() []domain.Reference    { return s.Registry.Roles() }
func (s *AccountService) ListStatuses() []domain.Reference { return s.Registry.Statuses() }

func (s *AccountService) listPage(
	ctx context.Context,
	key string,
	filter store.AccountFilter,
	page domain.PageRequest,
) (domain.Page[domain.AccountView], error) {
	// No row can live that far out; treat it as past the end.
	if !page.Addressable() {
		return domain.Page[domain.AccountView]{}, fmt.Errorf("%w: empty page %d", ErrAccountNotFound, page.Number)
	}

	var out domain.Page[domain.AccountView]
	if s.get(ctx, key, &out) {
		return out, nil
	}

	accounts, total, err := s.Store.Accounts().ListAccounts(ctx, filter, page)
	if err != nil {
		return domain.Page[domain.AccountView]{}, err
	}
	if len(accounts) == 0 {
		return domain.Page[domain.AccountView]{}, fmt.Errorf("%w: empty page %d", ErrAccountNotFound, page.Number)
	}

	out = domain.Page[domain.AccountView]{
		Content:       make([]domain.AccountView, len(accounts)),
		Number:        page.Number,
		Size:          page.Size,
		TotalElements: total,
	}
	for i, a := range accounts {
		out.Content[i] = a.View()
	}

	s.put(ctx, key, out)
	return out, nil
}

// mutate loads the account, applies fn and saves it in one transaction.
func (s *AccountService) mutate(ctx context.Context, id string, fn func(*domain.Account) error) (domain.AccountView, error) {
	var account domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		account, err = loadAccount(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&account); err != nil {
			return err
		}
		return tx.Accounts().SaveAccount(ctx, account)
	})
	if err != nil {
		return domain.AccountView{}, err
	}
	return account.View(), nil
}

func loadAccount(ctx context.Context, tx store.Tx, id string) (domain.Account, error) {
	account, err := tx.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		return domain.Account{}, mapAccountErr(err, id)
	}
	return account, nil
}

// ensureEmailFree fails with ErrDuplicateEmail when email belongs to an
// account other than ownerID.
func ensureEmailFree(ctx context.Context, tx store.Tx, email, ownerID string) error {
	other, err := tx.Accounts().GetAccountByEmail(ctx, email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != ownerID:
		return fmt.Errorf("%w: %s", ErrDuplicateEmail, email)
	default:
		return nil
	}
}

func mapAccountErr(err error, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return err
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Cache failures never fail an operation. A failed read falls through to the
// store and a failed write or eviction is bounded by the TTL.

func (s *AccountService) get(ctx context.Context, key string, dst any) bool {
	ok, err := s.Cache.Get(ctx, key, dst)
	if err != nil {
		slogx.FromContext(ctx).Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *AccountService) put(ctx context.Context, key string, value any) {
	if err := s.Cache.Put(ctx, key, value, s.CacheTTL); err != nil {
		slogx.FromContext(ctx).Error("cache write failed", "key", key, "error", err)
	}
}

func (s *AccountService) evict(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := s.Cache.Evict(ctx, key); err != nil {
			slogx.FromContext(ctx).Error("cache evict failed", "key", key, "error", err)
		}
	}
}

func (s *AccountService) evictTags(ctx context.Context, tags ...string) {
	for _, tag := range tags {
		if err := s.Cache.EvictAll(ctx, tag); err != nil {
			slogx.FromContext(ctx).Error("cache tag evict failed", "tag", tag, "error", err)
		}
	}
}
