package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/accounts/pkg/slogx"
)

// RequireCaller reads the account id forwarded by the gateway in the
// X-USER-ID header and puts it on the request context. Requests without it
// are rejected with 401.
func RequireCaller() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller := strings.TrimSpace(r.Header.Get(slogx.CallerHeader))
			if caller == "" {
				WriteError(w, http.StatusUnauthorized, "unauthorized", "missing "+slogx.CallerHeader+" header")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCallerID(r.Context(), caller)))
		})
	}
}
