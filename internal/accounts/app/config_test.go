package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, "accounts.db", cfg.DatabaseFile)
	require.Equal(t, "admin", cfg.Admin.ID)
	require.Equal(t, 60*time.Second, cfg.Cache.TTL)
	require.Equal(t, "0 0 * * *", cfg.Sweep.Schedule)
	require.Equal(t, 720*time.Hour, cfg.Sweep.Threshold)
	require.False(t, cfg.Sweep.OnStartup)

	_, ok, err := cfg.Redis.Options()
	require.NoError(t, err)
	require.False(t, ok, "no redis configured")
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("SWEEP_SCHEDULE", "@hourly")
	t.Setenv("SWEEP_TIMEZONE", "UTC")
	t.Setenv("SWEEP_ON_STARTUP", "true")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	require.Equal(t, "@hourly", cfg.Sweep.Schedule)
	require.True(t, cfg.Sweep.OnStartup)

	loc, err := cfg.Sweep.Location()
	require.NoError(t, err)
	require.Equal(t, time.UTC, loc)

	opts, ok, err := cfg.Redis.Options()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cache:6379", opts.Addr)
	require.Equal(t, 3, opts.DB)
}

func TestRedisURLWins(t *testing.T) {
	t.Setenv("REDIS_ADDR", "ignored:6379")
	t.Setenv("REDIS_URL", "redis://:secret@redis.internal:6380/2")

	cfg, err := loadConfig()
	require.NoError(t, err)

	opts, ok, err := cfg.Redis.Options()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "redis.internal:6380", opts.Addr)
	require.Equal(t, "secret", opts.Password)
	require.Equal(t, 2, opts.DB)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"port", "PORT", "70000"},
		{"threshold", "SWEEP_INACTIVITY_THRESHOLD", "-1h"},
		{"timezone", "SWEEP_TIMEZONE", "Mars/Olympus_Mons"},
		{"redis url", "REDIS_URL", "http://not-redis"},
		{"duration", "CACHE_TTL", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := loadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACCOUNTS_ADMIN_ID=root\nLOG_LEVEL=debug\n"), 0o600))

	// godotenv writes straight into the process environment.
	t.Cleanup(func() {
		_ = os.Unsetenv("ACCOUNTS_ADMIN_ID")
		_ = os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Admin.ID)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ACCOUNTS_DATABASE_FILE=from-file.db\n"), 0o600))
	t.Setenv("ACCOUNTS_DATABASE_FILE", "from-env.db")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "from-env.db", cfg.DatabaseFile)
}
