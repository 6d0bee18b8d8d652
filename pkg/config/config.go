package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// State store drivers.
const (
	StateDriverSQLite = "sqlite"
	StateDriverRedis  = "redis"
	StateDriverMemory = "memory"
)

type Config struct {
	App     AppConfig
	Backend BackendConfig
	Auth    AuthConfig
	State   StateConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.State.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KIOSK_APP_ENV" default:"dev"`
	Port         string `envconfig:"KIOSK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"KIOSK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KIOSK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// BackendConfig points the kiosk at the remote café services.
type BackendConfig struct {
	MenuBaseURL  string        `envconfig:"KIOSK_MENU_BASE_URL" required:"true"`
	OrderBaseURL string        `envconfig:"KIOSK_ORDER_BASE_URL" required:"true"`
	Timeout      time.Duration `envconfig:"KIOSK_BACKEND_TIMEOUT" default:"15s"`
}

// AuthConfig carries the password-grant client credentials and the scope the
// admin panel requires. The decode-only gate never verifies signatures; the
// backend remains the authority.
type AuthConfig struct {
	TokenURL      string `envconfig:"KIOSK_AUTH_TOKEN_URL" required:"true"`
	ClientID      string `envconfig:"KIOSK_AUTH_CLIENT_ID" default:"admin-client"`
	ClientSecret  string `envconfig:"KIOSK_AUTH_CLIENT_SECRET" default:"admin-secret"`
	RequiredScope string `envconfig:"KIOSK_AUTH_REQUIRED_SCOPE" default:"cafe.admin"`
}

// StateConfig selects and tunes the durable key-value substrate.
type StateConfig struct {
	Driver string `envconfig:"KIOSK_STATE_DRIVER" default:"sqlite"`

	SQLitePath string `envconfig:"KIOSK_STATE_SQLITE_PATH" default:"kiosk-state.db"`

	RedisURL          string        `envconfig:"KIOSK_STATE_REDIS_URL"`
	RedisDialTimeout  time.Duration `envconfig:"KIOSK_STATE_REDIS_DIAL_TIMEOUT" default:"5s"`
	RedisReadTimeout  time.Duration `envconfig:"KIOSK_STATE_REDIS_READ_TIMEOUT" default:"5s"`
	RedisWriteTimeout time.Duration `envconfig:"KIOSK_STATE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

func (s StateConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StateDriverSQLite:
		if strings.TrimSpace(s.SQLitePath) == "" {
			return fmt.Errorf("KIOSK_STATE_SQLITE_PATH is required for the sqlite driver")
		}
	case StateDriverRedis:
		if strings.TrimSpace(s.RedisURL) == "" {
			return fmt.Errorf("KIOSK_STATE_REDIS_URL is required for the redis driver")
		}
	case StateDriverMemory:
	default:
		return fmt.Errorf("unknown state driver %q", s.Driver)
	}
	return nil
}
