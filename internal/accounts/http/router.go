package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/aussiebroadwan/accounts/pkg/slogx"

	_ "github.com/aussiebroadwan/accounts/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	db    Pinger
	cache Pinger

	Accounts *service.AccountService
	Sweeper  *service.InactivitySweeper
}

func NewRouter(buildVersion string, db, cache Pinger, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		db:           db,
		cache:        cache,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSelf()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	Account lifecycle: registration, login, administrator approval and promotion, and inactivity demotion.
//	@description
//	@description	The service sits behind a gateway that authenticates callers and forwards the account id in X-USER-ID.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/accounts
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	CallerID
//	@in							header
//	@name						X-USER-ID
//	@description				Account id of the authenticated caller, set by the gateway.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{Accounts: r.Accounts}

	// Credential endpoints share the strict profile. Login is keyed by IP
	// and account id so one account cannot be brute forced from many ids.
	r.Mux.Handle("POST /v1/users/register",
		httpx.Chain(http.HandlerFunc(h.HandleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/users/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIPAndBodyField(httpx.StrictLimit, "id"),
		),
	)
	r.Mux.Handle("POST /v1/users/provision",
		httpx.Chain(http.HandlerFunc(h.HandleProvision),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSelf() {
	h := &UsersHandler{Accounts: r.Accounts}

	self := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireCaller(),
			httpx.RateLimitByCaller(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /v1/users/me", self(h.HandleMe))
	r.Mux.Handle("PUT /v1/users/me", self(h.HandleUpdateMe))
	r.Mux.Handle("POST /v1/users/me/deactivate", self(h.HandleDeactivateMe))
	r.Mux.Handle("GET /v1/users/me/role", self(h.HandleMyRole))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Accounts: r.Accounts, Sweeper: r.Sweeper}

	admin := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.RequireCaller(),
			httpx.RequireRole(r.isAdmin),
			httpx.RateLimitByCaller(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/admin/users", admin(h.HandleList))
	r.Mux.Handle("GET /v1/admin/users/status/{statusId}", admin(h.HandleListByStatus))
	r.Mux.Handle("GET /v1/admin/users/role/{roleId}", admin(h.HandleListByRole))
	r.Mux.Handle("POST /v1/admin/users/{id}/permit", admin(h.HandlePermit))
	r.Mux.Handle("POST /v1/admin/users/{id}/promote", admin(h.HandlePromote))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", admin(h.HandleDelete))
	r.Mux.Handle("POST /v1/admin/sweep", admin(h.HandleSweep))
	r.Mux.Handle("GET /v1/admin/roles", admin(h.HandleRoles))
	r.Mux.Handle("GET /v1/admin/statuses", admin(h.HandleStatuses))
}

// isAdmin resolves the caller's role through the cached role lookup. An
// unknown caller is simply not an administrator.
func (r *Router) isAdmin(ctx context.Context, callerID string) (bool, error) {
	err := r.Accounts.AuthorizeAdmin(ctx, callerID)
	if errors.Is(err, service.ErrAccessDenied) {
		return false, nil
	}
	return err == nil, err
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.db, r.cache),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
