package service

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Change the admin, then seed again: the existing row is kept.
	_, err := f.svc.Update(ctx, DefaultAdminID, UpdateInput{
		DisplayName: "Root",
		Email:       DefaultAdminEmail,
		Password:    "changed",
	})
	require.NoError(t, err)

	seed := &SeedService{Store: f.store, Hasher: plainHasher{}, Logger: discardLogger(), AdminPassword: "other"}
	require.NoError(t, seed.Seed(ctx))

	admin := f.rawAccount(t, DefaultAdminID)
	require.Equal(t, "Root", admin.DisplayName)
	require.Equal(t, "plain:changed", admin.PasswordHash)

	all, err := f.store.Accounts().ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	providers, err := f.store.Providers().ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, providers, len(domain.Providers()))
}

func TestSeedCreatesAdministrator(t *testing.T) {
	f := newFixture(t)

	admin := f.rawAccount(t, DefaultAdminID)
	require.Equal(t, DefaultAdminEmail, admin.Email)
	require.Equal(t, domain.RoleAdmin, admin.Role)
	require.Equal(t, domain.StatusActive, admin.Status)
	require.Equal(t, domain.ProviderDefault, admin.Provider)
	require.Equal(t, "plain:"+adminPassword, admin.PasswordHash)
	require.Nil(t, admin.LastLoginAt)
	require.True(t, admin.MustChangePassword())
}

func TestSeedGeneratesPasswordWhenUnset(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	var logs bytes.Buffer
	seed := &SeedService{
		Store:      st,
		Hasher:     plainHasher{},
		Logger:     slog.New(slog.NewTextHandler(&logs, nil)),
		AdminID:    "root",
		AdminEmail: "root@example.com",
	}
	require.NoError(t, seed.Seed(ctx))

	admin, err := st.Accounts().GetAccountByID(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, "root@example.com", admin.Email)
	require.NotEqual(t, "plain:", admin.PasswordHash)
	require.Contains(t, logs.String(), "generated password")
	require.Contains(t, logs.String(), admin.PasswordHash[len("plain:"):])
}
