package httpx

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// RoleCheck reports whether the caller holds the role guarded by RequireRole.
type RoleCheck func(ctx context.Context, callerID string) (bool, error)

// RequireRole rejects callers for whom check returns false with 403. It must
// run after RequireCaller.
func RequireRole(check RoleCheck) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			caller := CallerID(ctx)
			if caller == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing caller identity")
				return
			}

			ok, err := check(ctx, caller)
			if err != nil {
				slogx.FromContext(ctx).Error("role check failed", "caller_id", caller, "error", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "failed to resolve caller role")
				return
			}
			if !ok {
				WriteError(w, http.StatusForbidden, "access_denied", "access denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
