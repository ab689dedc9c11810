package accounts_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
)

// TestProvisionExternalAccount verifies first and repeat logins through an
// external provider.
func TestProvisionExternalAccount(t *testing.T) {
	client := accountsdk.NewSDKClient(startService(t, nil))
	ctx := t.Context()

	req := accountsdk.ProvisionRequest{
		Provider: "Github",
		Subject:  "583231",
		Login:    "octocat",
		Email:    "octocat@example.com",
	}

	first, err := client.Provision(ctx, req)
	require.NoError(t, err)
	require.True(t, first.Created)
	require.Equal(t, "Github_583231", first.Account.ID)
	require.Equal(t, "Github", first.Account.Provider)
	require.Equal(t, "USER", first.Account.Role)

	again, err := client.Provision(ctx, req)
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, first.Account.ID, again.Account.ID)

	// Provider accounts have no local password.
	_, err = client.Login(ctx, "Github_583231", "")
	require.Error(t, err)

	t.Run("unknown provider", func(t *testing.T) {
		_, err := client.Provision(ctx, accountsdk.ProvisionRequest{
			Provider: "Myspace", Subject: "1", Login: "tom",
		})
		requireAPIError(t, err, http.StatusNotFound, accountsdk.ErrorCodeNotFound)
	})

	t.Run("email taken", func(t *testing.T) {
		_, err := client.Provision(ctx, accountsdk.ProvisionRequest{
			Provider: "Google", Subject: "77", Email: "octocat@example.com",
		})
		requireAPIError(t, err, http.StatusConflict, accountsdk.ErrorCodeDuplicateEmail)
	})
}
