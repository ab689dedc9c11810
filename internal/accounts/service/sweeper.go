package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/robfig/cron/v3"
)

const (
	// DefaultSweepSchedule runs the sweep daily at midnight.
	DefaultSweepSchedule = "0 0 * * *"

	// DefaultInactivityThreshold is the login age after which a non-admin
	// account is demoted to INACTIVE.
	DefaultInactivityThreshold = 30 * 24 * time.Hour
)

// errSweepSkipped marks an account that no longer qualifies once re-read
// inside its transaction.
var errSweepSkipped = errors.New("sweep: account no longer qualifies")

// SweepResult summarises one pass of the inactivity sweep.
type SweepResult struct {
	Scanned int `json:"scanned"`
	Demoted int `json:"demoted"`
	Failed  int `json:"failed"`
}

// InactivitySweeper demotes non-admin accounts that have not logged in within
// Threshold. It runs on a cron schedule and can also be triggered manually;
// passes never overlap.
type InactivitySweeper struct {
	Store     store.Store
	Cache     cache.Cache
	Registry  *Registry
	Logger    *slog.Logger
	Threshold time.Duration

	// RunOnStartup triggers one pass as soon as Start is called.
	RunOnStartup bool

	// Now is the clock. Defaults to time.Now.
	Now func() time.Time

	schedule string
	cron     *cron.Cron
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex // serialises passes
}

// NewInactivitySweeper validates schedule and registers the job. The schedule
// accepts five fields, an optional leading seconds field, or descriptors such
// as "@daily". A non-positive threshold uses DefaultInactivityThreshold.
func NewInactivitySweeper(
	st store.Store,
	c cache.Cache,
	reg *Registry,
	logger *slog.Logger,
	schedule string,
	loc *time.Location,
	threshold time.Duration,
) (*InactivitySweeper, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	if threshold <= 0 {
		threshold = DefaultInactivityThreshold
	}
	if loc == nil {
		loc = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &InactivitySweeper{
		Store:     st,
		Cache:     c,
		Registry:  reg,
		Logger:    logger,
		Threshold: threshold,
		schedule:  schedule,
		ctx:       ctx,
		cancel:    cancel,
	}

	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	cl := cronLogger{logger: logger}
	s.cron = cron.New(
		cron.WithParser(parser),
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := s.cron.AddFunc(schedule, s.runScheduled); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the scheduler. It does not block.
func (s *InactivitySweeper) Start() {
	s.cron.Start()
	if s.RunOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runScheduled()
		}()
	}
	s.Logger.Info("inactivity sweeper started", "schedule", s.schedule, "threshold", s.Threshold)
}

// Stop cancels any in-flight pass and waits for it to return. The next
// scheduled pass, after a restart, rescans everything.
func (s *InactivitySweeper) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.Logger.Info("inactivity sweeper stopped")
}

func (s *InactivitySweeper) runScheduled() {
	res, err := s.Sweep(s.ctx)
	if err != nil {
		s.Logger.Error("inactivity sweep aborted", "error", err,
			"scanned", res.Scanned, "demoted", res.Demoted, "failed", res.Failed)
	}
}

// Sweep performs one full pass. A failure to demote one account is logged
// and counted; the pass continues with the rest. Cancelling ctx stops the
// pass between accounts.
func (s *InactivitySweeper) Sweep(ctx context.Context) (SweepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res SweepResult
	inactive, err := s.Registry.InactiveStatus()
	if err != nil {
		return res, err
	}

	accounts, err := s.Store.Accounts().ListAll(ctx)
	if err != nil {
		return res, fmt.Errorf("load accounts: %w", err)
	}

	cutoff := s.now().Add(-s.Threshold)
	s.Logger.Info("starting inactivity sweep", "accounts", len(accounts), "cutoff", cutoff)

	defer func() {
		if res.Demoted > 0 {
			s.invalidate()
		}
	}()

	for _, a := range accounts {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Scanned++

		if !qualifies(a, inactive, cutoff) {
			continue
		}

		err := s.Store.WithTx(ctx, func(tx store.Tx) error {
			// Re-read so a login committed since ListAll is not overwritten.
			current, err := tx.Accounts().GetAccountByID(ctx, a.ID)
			if err != nil {
				return err
			}
			if !qualifies(current, inactive, cutoff) {
				return errSweepSkipped
			}
			current.Status = inactive
			return tx.Accounts().SaveAccount(ctx, current)
		})
		switch {
		case err == nil:
			res.Demoted++
			s.Logger.Debug("account demoted to inactive", "account_id", a.ID, "last_login_at", a.LastLoginAt)
		case errors.Is(err, errSweepSkipped), errors.Is(err, store.ErrNotFound):
		default:
			res.Failed++
			s.Logger.Error("failed to demote inactive account", "account_id", a.ID, "error", err)
		}
	}

	s.Logger.Info("inactivity sweep completed",
		"scanned", res.Scanned, "demoted", res.Demoted, "failed", res.Failed)
	return res, nil
}

// qualifies: non-admin, not already inactive, last login strictly before cutoff.
// A nil last login never qualifies.
func qualifies(a domain.Account, inactive domain.Status, cutoff time.Time) bool {
	return a.Role != domain.RoleAdmin && a.Status != inactive && a.InactiveSince(cutoff)
}

// invalidate drops every listing page and every single-account entry in bulk.
func (s *InactivitySweeper) invalidate() {
	ctx := context.Background()
	for _, tag := range []string{cache.TagUsers, cache.TagUser, cache.TagLogin} {
		if err := s.Cache.EvictAll(ctx, tag); err != nil {
			s.Logger.Error("cache tag evict failed", "tag", tag, "error", err)
		}
	}
}

func (s *InactivitySweeper) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// cronLogger routes scheduler logs through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
