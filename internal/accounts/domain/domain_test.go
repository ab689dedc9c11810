package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		id    int
		want  Role
		valid bool
	}{
		{1, RoleAdmin, true},
		{2, RoleUser, true},
		{0, 0, false},
		{3, 0, false},
	}

	for _, tt := range tests {
		r, ok := ParseRole(tt.id)
		require.Equal(t, tt.valid, ok, "id %d", tt.id)
		if ok {
			require.Equal(t, tt.want, r)
		}
	}

	r, ok := ParseRoleName("ADMIN")
	require.True(t, ok)
	require.Equal(t, RoleAdmin, r)

	r, ok = ParseRoleName("ROLE_USER")
	require.True(t, ok)
	require.Equal(t, RoleUser, r)

	_, ok = ParseRoleName("ROLE_ROOT")
	require.False(t, ok)
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses() {
		got, ok := ParseStatus(int(s))
		require.True(t, ok)
		require.Equal(t, s, got)

		byName, ok := ParseStatusName(s.String())
		require.True(t, ok)
		require.Equal(t, s, byName)
	}

	_, ok := ParseStatus(5)
	require.False(t, ok)
	require.Equal(t, "UNKNOWN", Status(9).String())
}

func TestAccountMustChangePassword(t *testing.T) {
	now := time.Now()

	require.True(t, Account{Role: RoleAdmin}.MustChangePassword())
	require.False(t, Account{Role: RoleAdmin, LastLoginAt: &now}.MustChangePassword())
	require.False(t, Account{Role: RoleUser}.MustChangePassword())
}

func TestAccountInactiveSince(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	old := now.Add(-31 * 24 * time.Hour)
	recent := now.Add(-29 * 24 * time.Hour)
	cutoff := now.Add(-30 * 24 * time.Hour)

	require.True(t, Account{LastLoginAt: &old}.InactiveSince(cutoff))
	require.False(t, Account{LastLoginAt: &recent}.InactiveSince(cutoff))
	require.False(t, Account{}.InactiveSince(cutoff))
}

func TestAccountViewCopiesLastLogin(t *testing.T) {
	now := time.Now()
	ts := now
	a := Account{ID: "alice", PasswordHash: "secret", LastLoginAt: &ts}

	v := a.View()
	require.Equal(t, "alice", v.ID)
	require.NotNil(t, v.LastLoginAt)

	ts = now.Add(time.Hour)
	require.Equal(t, now, *v.LastLoginAt)
}

func TestPageRequestNormalize(t *testing.T) {
	p := PageRequest{Number: -1, Size: 0}.Normalize()
	require.Equal(t, 0, p.Number)
	require.Equal(t, DefaultPageSize, p.Size)

	p = PageRequest{Number: 2, Size: 500}.Normalize()
	require.Equal(t, MaxPageSize, p.Size)
	require.Equal(t, 200, p.Offset())

	page := Page[int]{Content: []int{1}, Size: 10, TotalElements: 21}
	require.Equal(t, 3, page.TotalPages())
	require.False(t, page.Empty())
}

func TestPageRequestAddressable(t *testing.T) {
	require.True(t, PageRequest{Number: 0, Size: 10}.Addressable())
	require.True(t, PageRequest{Number: math.MaxInt / 10, Size: 10}.Addressable())
	require.False(t, PageRequest{Number: math.MaxInt/10 + 1, Size: 10}.Addressable())
	require.False(t, PageRequest{Number: 1, Size: 0}.Addressable())
}
