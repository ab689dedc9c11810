package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, []domain.Reference{
		{ID: 1, Name: "ROLE_ADMIN"},
		{ID: 2, Name: "ROLE_USER"},
	}, f.reg.Roles())
	require.Equal(t, []domain.Reference{
		{ID: 1, Name: "ACTIVE"},
		{ID: 2, Name: "INACTIVE"},
		{ID: 3, Name: "DEACTIVATE"},
		{ID: 4, Name: "PENDING"},
	}, f.reg.Statuses())

	require.True(t, f.reg.HasRole(1))
	require.False(t, f.reg.HasRole(3))
	require.True(t, f.reg.HasStatus(4))
	require.False(t, f.reg.HasStatus(0))

	inactive, err := f.reg.InactiveStatus()
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, inactive)
}

func TestUnseededRegistryFailsLookups(t *testing.T) {
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	reg, err := LoadRegistry(ctx, st)
	require.NoError(t, err)
	require.Empty(t, reg.Roles())
	require.False(t, reg.HasRole(int(domain.RoleUser)))

	_, err = reg.AdminRole()
	require.ErrorIs(t, err, ErrRoleNotFound)
	_, err = reg.PendingStatus()
	require.ErrorIs(t, err, ErrStatusNotFound)

	svc := &AccountService{Store: st, Cache: cache.NewMemoryCache(), Registry: reg, Hasher: plainHasher{}}

	_, err = svc.Register(ctx, RegisterInput{ID: "alice", Email: "alice@example.com", Password: "x"})
	require.ErrorIs(t, err, ErrRoleNotFound)

	_, err = svc.Permit(ctx, "alice")
	require.ErrorIs(t, err, ErrStatusNotFound)

	_, err = svc.ListByRole(ctx, int(domain.RoleUser), domain.PageRequest{})
	require.ErrorIs(t, err, ErrRoleNotFound)
}
