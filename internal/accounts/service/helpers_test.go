package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/accounts/internal/accounts/cache"
	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
	"github.com/aussiebroadwan/accounts/internal/accounts/store"
	"github.com/aussiebroadwan/accounts/internal/accounts/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

const adminPassword = "1234"

// plainHasher keeps tests fast; argon2 is covered in pkg/cryptox.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "plain:" + password, nil }
func (plainHasher) Verify(password, encoded string) bool {
	return strings.TrimPrefix(encoded, "plain:") == password
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store *sqlite.Store
	cache *cache.MemoryCache
	reg   *Registry
	clock *testClock
	svc   *AccountService
}

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	clock := &testClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	seed := &SeedService{
		Store:         st,
		Hasher:        plainHasher{},
		Logger:        discardLogger(),
		AdminPassword: adminPassword,
		Now:           clock.Now,
	}
	require.NoError(t, seed.Seed(ctx))

	reg, err := LoadRegistry(ctx, st)
	require.NoError(t, err)

	c := cache.NewMemoryCache()

	return &fixture{
		store: st,
		cache: c,
		reg:   reg,
		clock: clock,
		svc: &AccountService{
			Store:    st,
			Cache:    c,
			Registry: reg,
			Hasher:   plainHasher{},
			Now:      clock.Now,
		},
	}
}

func (f *fixture) register(t *testing.T, id string) domain.AccountView {
	t.Helper()
	v, err := f.svc.Register(context.Background(), RegisterInput{
		ID:          id,
		DisplayName: "Name " + id,
		Email:       id + "@example.com",
		Password:    "pw-" + id,
	})
	require.NoError(t, err)
	return v
}

// rawAccount reads straight from the store, bypassing the cache.
func (f *fixture) rawAccount(t *testing.T, id string) domain.Account {
	t.Helper()
	a, err := f.store.Accounts().GetAccountByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

// brokenCache fails every call.
type brokenCache struct{}

var errCacheDown = errors.New("cache down")

func (brokenCache) Get(context.Context, string, any) (bool, error)        { return false, errCacheDown }
func (brokenCache) Put(context.Context, string, any, time.Duration) error { return errCacheDown }
func (brokenCache) Evict(context.Context, string) error                   { return errCacheDown }
func (brokenCache) EvictAll(context.Context, string) error                { return errCacheDown }
func (brokenCache) Ping(context.Context) error                            { return errCacheDown }

// failingStore makes SaveAccount fail for one account id inside transactions.
type failingStore struct {
	store.Store
	failID string
}

func (s *failingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&failingTx{innerTx: tx, failID: s.failID})
	})
}

// innerTx names the embedded field so it does not shadow the Tx method.
type innerTx = store.Tx

type failingTx struct {
	innerTx
	failID string
}

func (t *failingTx) Accounts() store.Accounts {
	return &failingAccounts{Accounts: t.innerTx.Accounts(), failID: t.failID}
}

type failingAccounts struct {
	store.Accounts
	failID string
}

var errSaveFailed = errors.New("disk on fire")

func (a *failingAccounts) SaveAccount(ctx context.Context, acc domain.Account) error {
	if acc.ID == a.failID {
		return errSaveFailed
	}
	return a.Accounts.SaveAccount(ctx, acc)
}
