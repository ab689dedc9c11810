package httpx_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequireCaller(t *testing.T) {
	var seen string
	h := httpx.RequireCaller()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = httpx.CallerID(r.Context())
	}))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "X-USER-ID")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-USER-ID", "alice")
	rec = serve(h, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", seen)
}

func TestRequireRole(t *testing.T) {
	admins := func(_ context.Context, id string) (bool, error) {
		if id == "broken" {
			return false, errors.New("lookup failed")
		}
		return strings.HasPrefix(id, "admin"), nil
	}
	h := httpx.Chain(okHandler(), httpx.RequireCaller(), httpx.RequireRole(admins))

	tests := []struct {
		caller string
		want   int
	}{
		{caller: "admin", want: http.StatusOK},
		{caller: "alice", want: http.StatusForbidden},
		{caller: "broken", want: http.StatusInternalServerError},
		{caller: "", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.caller != "" {
			req.Header.Set("X-USER-ID", tt.caller)
		}
		rec := serve(h, req)
		require.Equal(t, tt.want, rec.Code, "caller %q", tt.caller)
		if tt.want == http.StatusForbidden {
			require.Contains(t, rec.Body.String(), "access_denied")
		}
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=2&size=x&neg=-1", nil)

	n, err := httpx.QueryInt(req, "page", 0)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	n, err = httpx.QueryInt(req, "missing", 7)
	require.NoError(t, err)
	require.Equal(t, 7, n)

	_, err = httpx.QueryInt(req, "size", 0)
	require.Error(t, err)
	_, err = httpx.QueryInt(req, "neg", 0)
	require.Error(t, err)
}
