package accountsdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSendsCallerAndDecodes(t *testing.T) {
	t.Parallel()

	var gotCaller, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCaller = r.Header.Get(CallerHeader)
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(PageResponse{
			Content:       []AccountResponse{{ID: "alice", Role: "ROLE_USER", Status: "PENDING"}},
			Number:        1,
			Size:          5,
			TotalElements: 6,
			TotalPages:    2,
		})
	}))
	t.Cleanup(srv.Close)

	page, err := NewSDKClient(srv.URL+"/").AsCaller("admin").ListAccounts(context.Background(), 1, 5)
	require.NoError(t, err)
	require.Equal(t, "admin", gotCaller)
	require.Equal(t, "/v1/admin/users?page=1&size=5", gotPath)
	require.Equal(t, "alice", page.Content[0].ID)
	require.Equal(t, 2, page.TotalPages)
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/users/register":
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(ValidationErrorResponse{
				Code:    ErrorCodeValidation,
				Message: "invalid request body",
				Details: map[string]string{"email": "must be a valid email address"},
			})
		case "/v1/users/login":
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorCodeInvalidCredentials, ErrorDescription: "nope"})
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	c := NewSDKClient(srv.URL)
	ctx := context.Background()

	_, err := c.Register(ctx, RegisterRequest{ID: "a"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Equal(t, "must be a valid email address", apiErr.Details["email"])

	_, err = c.Login(ctx, "alice", "x")
	require.ErrorIs(t, err, &APIError{Code: ErrorCodeInvalidCredentials})

	err = c.AsCaller("alice").DeactivateMe(ctx)
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	require.Equal(t, ErrorCodeServerError, apiErr.Code)
}
