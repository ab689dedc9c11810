package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
)

const (
	DefaultAdminID    = "admin"
	DefaultAdminEmail = "admin@example.com"
)

// SeedService writes the reference rows and the initial administrator. It is
// safe to run on every start.
type SeedService struct {
	Store  store.Store
	Hasher Hasher
	Logger *slog.Logger

	AdminID       string
	AdminEmail    string
	AdminPassword string // generated and logged once when empty

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time
}

// Seed upserts roles, statuses and providers and creates the administrator
// account if it does not exist yet. The administrator has never logged in,
// so it must change its password before the first login succeeds.
func (s *SeedService) Seed(ctx context.Context) error {
	adminID := valueOr(s.AdminID, DefaultAdminID)
	adminEmail := valueOr(s.AdminEmail, DefaultAdminEmail)

	var generated string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, r := range domain.Roles() {
			if err := tx.References().UpsertRole(ctx, domain.Reference{ID: int(r), Name: r.String()}); err != nil {
				return fmt.Errorf("seed role %s: %w", r, err)
			}
		}
		for _, st := range domain.Statuses() {
			if err := tx.References().UpsertStatus(ctx, domain.Reference{ID: int(st), Name: st.String()}); err != nil {
				return fmt.Errorf("seed status %s: %w", st, err)
			}
		}
		for _, p := range domain.Providers() {
			if err := tx.Providers().UpsertProvider(ctx, p); err != nil {
				return fmt.Errorf("seed provider %s: %w", p.ID, err)
			}
		}

		exists, err := tx.Accounts().Exists(ctx, adminID)
		if err != nil {
			return err
		}
		if exists {
			return nil
		}

		password := s.AdminPassword
		if password == "" {
			if password, err = cryptox.GeneratePassword(); err != nil {
				return err
			}
			generated = password
		}
		hash, err := s.Hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}

		return tx.Accounts().CreateAccount(ctx, domain.Account{
			ID:           adminID,
			DisplayName:  adminID,
			PasswordHash: hash,
			Email:        adminEmail,
			Role:         domain.RoleAdmin,
			Status:       domain.StatusActive,
			Provider:     domain.ProviderDefault,
			CreatedAt:    s.now(),
		})
	})
	if err != nil {
		return err
	}

	if generated != "" {
		s.Logger.Warn("administrator account created with generated password; change it before first login",
			"account_id", adminID, "password", generated)
	}
	return nil
}

func (s *SeedService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
