package app

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/aussiebroadwan/accounts/pkg/httpx"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Config holds runtime configuration for the accounts service.
type Config struct {
	Env                 string        `env:"ENV" env-default:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" env-default:"info"`
	LogFormat           string        `env:"LOG_FORMAT" env-default:"json"`
	Port                int           `env:"PORT" env-default:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`

	DatabaseFile string `env:"ACCOUNTS_DATABASE_FILE" env-default:"accounts.db"`
	PepperFile   string `env:"ACCOUNTS_PEPPER_FILE" env-default:"pepper"`

	Admin AdminConfig
	Redis RedisConfig
	Cache CacheConfig
	Sweep SweepConfig
}

// AdminConfig describes the administrator created on first start.
type AdminConfig struct {
	ID       string `env:"ACCOUNTS_ADMIN_ID" env-default:"admin"`
	Email    string `env:"ACCOUNTS_ADMIN_EMAIL" env-default:"admin@example.com"`
	Password string `env:"ACCOUNTS_ADMIN_PASSWORD"`
}

// RedisConfig selects the shared cache. With neither URL nor Addr set the
// service falls back to an in-process cache.
type RedisConfig struct {
	URL      string `env:"REDIS_URL"`
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type CacheConfig struct {
	TTL       time.Duration `env:"CACHE_TTL" env-default:"60s"`
	KeyPrefix string        `env:"CACHE_KEY_PREFIX" env-default:"accounts:"`
}

type SweepConfig struct {
	Schedule  string        `env:"SWEEP_SCHEDULE" env-default:"0 0 * * *"`
	Timezone  string        `env:"SWEEP_TIMEZONE" env-default:"Local"`
	Threshold time.Duration `env:"SWEEP_INACTIVITY_THRESHOLD" env-default:"720h"`
	OnStartup bool          `env:"SWEEP_ON_STARTUP" env-default:"false"`
}

// LoadConfig reads an optional .env file from the working directory and then
// the process environment. Variables already set in the environment win.
func LoadConfig() (Config, error) {
	return loadConfig(".env")
}

func loadConfig(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	// The profiles were read before .env was loaded.
	httpx.StrictLimit = httpx.ParseRateLimitFromEnv("STRICT", httpx.StrictLimit)
	httpx.ModerateLimit = httpx.ParseRateLimitFromEnv("MODERATE", httpx.ModerateLimit)
	httpx.LenientLimit = httpx.ParseRateLimitFromEnv("LENIENT", httpx.LenientLimit)
	httpx.PublicLimit = httpx.ParseRateLimitFromEnv("PUBLIC", httpx.PublicLimit)

	return cfg, nil
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.Sweep.Threshold <= 0 {
		return fmt.Errorf("SWEEP_INACTIVITY_THRESHOLD must be positive, got %s", c.Sweep.Threshold)
	}
	if _, err := c.Sweep.Location(); err != nil {
		return fmt.Errorf("SWEEP_TIMEZONE: %w", err)
	}
	if _, _, err := c.Redis.Options(); err != nil {
		return fmt.Errorf("REDIS_URL: %w", err)
	}
	return nil
}

// Options returns the client options for the configured Redis, or false when
// no Redis is configured. REDIS_URL takes precedence over the discrete keys.
func (c RedisConfig) Options() (*redis.Options, bool, error) {
	if c.URL != "" {
		opts, err := redis.ParseURL(c.URL)
		if err != nil {
			return nil, false, err
		}
		return opts, true, nil
	}
	if c.Addr == "" {
		return nil, false, nil
	}
	return &redis.Options{Addr: c.Addr, Password: c.Password, DB: c.DB}, true, nil
}

// Location resolves the sweep timezone.
func (c SweepConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}
