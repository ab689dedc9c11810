package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// ExternalIdentity is what an external identity provider tells us about a
// user after a successful sign-in.
type ExternalIdentity struct {
	Provider string // provider id, e.g. "Google"
	Subject  string // stable subject id at the provider
	Login    string // provider username, used when no email is released
	Email    string
}

// AccountID is the local id for the identity: "{provider}_{subject}".
func (e ExternalIdentity) AccountID() string {
	return e.Provider + "_" + e.Subject
}

// ProvisionExternal creates an ACTIVE user account the first time an
// external identity signs in. Later sign-ins return the existing account
// untouched. The reported bool is true when an account was created.
func (s *AccountService) ProvisionExternal(ctx context.Context, in ExternalIdentity) (domain.AccountView, bool, error) {
	if strings.TrimSpace(in.Subject) == "" {
		return domain.AccountView{}, false, ErrMissingAccountID
	}
	email := in.Email
	if email == "" {
		email = in.Login + "@example.com"
	}

	role, err := s.Registry.UserRole()
	if err != nil {
		return domain.AccountView{}, false, err
	}
	active, err := s.Registry.ActiveStatus()
	if err != nil {
		return domain.AccountView{}, false, err
	}

	// External accounts never log in with a password; store an unguessable one.
	secret, err := cryptox.GeneratePassword()
	if err != nil {
		return domain.AccountView{}, false, err
	}
	hash, err := s.Hasher.Hash(secret)
	if err != nil {
		return domain.AccountView{}, false, fmt.Errorf("hash password: %w", err)
	}

	id := in.AccountID()
	var (
		account domain.Account
		created bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		provider, err := tx.Providers().GetProviderByID(ctx, in.Provider)
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrProviderNotFound, in.Provider)
		}
		if err != nil {
			return err
		}

		if err := ensureEmailFree(ctx, tx, email, id); err != nil {
			return err
		}

		account, err = tx.Accounts().GetAccountByID(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		now := s.now()
		account = domain.Account{
			ID:           id,
			DisplayName:  id,
			PasswordHash: hash,
			Email:        email,
			Role:         role,
			Status:       active,
			Provider:     provider.ID,
			CreatedAt:    now,
			LastLoginAt:  &now,
		}
		created = true
		return tx.Accounts().CreateAccount(ctx, account)
	})
	if err != nil {
		return domain.AccountView{}, false, err
	}

	if created {
		s.evictTags(ctx, cache.TagUsers)
		slogx.FromContext(ctx).Info("external account provisioned", "account_id", id, "provider", in.Provider)
	}
	return account.View(), created, nil
}
