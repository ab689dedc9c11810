package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	httpapi "github.com/aussiebroadwan/accounts/internal/accounts/http"
	"github.com/aussiebroadwan/accounts/internal/accounts/service"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/aussiebroadwan/accounts/pkg/cryptox"
	"github.com/aussiebroadwan/accounts/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the accounts service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    *sqlite.Store
	rdb   *redis.Client // nil when running on the in-process cache
	cache cache.Cache

	registry *service.Registry
	accounts *service.AccountService
	sweeper  *service.InactivitySweeper

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "accounts-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	if err := app.initServices(context.Background()); err != nil {
		app.closeBackends()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.sweeper.Start()

	app.logger.Info("accounts service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.sweeper.Stop()
		app.closeBackends()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, stops the sweeper and closes the backends.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down accounts service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Cancels an in-flight sweep; the next start rescans everything.
	app.sweeper.Stop()

	if err := app.closeBackends(); err != nil {
		return err
	}

	app.logger.Info("accounts service stopped")
	return nil
}

func (app *Application) closeBackends() error {
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

// initDatabase opens the store and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.FileDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initCache connects to Redis when configured. An unreachable Redis at
// startup is logged, not fatal: reads fall through to the store until it
// comes back.
func (app *Application) initCache() error {
	opts, ok, err := app.cfg.Redis.Options()
	if err != nil {
		return fmt.Errorf("invalid redis configuration: %w", err)
	}
	if !ok {
		app.cache = cache.NewMemoryCache()
		app.logger.Info("using in-process cache")
		return nil
	}

	app.rdb = redis.NewClient(opts)
	app.cache = cache.NewRedisCache(app.rdb, app.cfg.Cache.KeyPrefix)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := app.cache.Ping(ctx); err != nil {
		app.logger.Warn("redis unreachable, continuing without cache hits", "addr", opts.Addr, "error", err)
	} else {
		app.logger.Info("connected to redis", "addr", opts.Addr, "db", opts.DB)
	}
	return nil
}

// initServices seeds reference data and builds the business services.
func (app *Application) initServices(ctx context.Context) error {
	hasher := cryptox.PasswordHasher{}

	seed := &service.SeedService{
		Store:         app.db,
		Hasher:        hasher,
		Logger:        app.logger,
		AdminID:       app.cfg.Admin.ID,
		AdminEmail:    app.cfg.Admin.Email,
		AdminPassword: app.cfg.Admin.Password,
	}
	if err := seed.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}

	registry, err := service.LoadRegistry(ctx, app.db)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	app.registry = registry

	app.accounts = &service.AccountService{
		Store:    app.db,
		Cache:    app.cache,
		Registry: registry,
		Hasher:   hasher,
		CacheTTL: app.cfg.Cache.TTL,
	}

	loc, err := app.cfg.Sweep.Location()
	if err != nil {
		return fmt.Errorf("invalid sweep timezone: %w", err)
	}
	sweeper, err := service.NewInactivitySweeper(
		app.db,
		app.cache,
		registry,
		app.logger,
		app.cfg.Sweep.Schedule,
		loc,
		app.cfg.Sweep.Threshold,
	)
	if err != nil {
		return err
	}
	sweeper.RunOnStartup = app.cfg.Sweep.OnStartup
	app.sweeper = sweeper

	return nil
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.db, app.cache, app.logger)
	router.Accounts = app.accounts
	router.Sweeper = app.sweeper
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
