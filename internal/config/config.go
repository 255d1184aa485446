package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix      = "BANKVIEW_"
	postgresPrefix = "POSTGRES_"
	configFileEnv  = "BANKVIEW_CONFIG"
)

type Config struct {
	Postgres PostgresConfig `koanf:"postgres"`
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	View     ViewConfig     `koanf:"view"`
	Store    StoreConfig    `koanf:"store"`
	Breaker  BreakerConfig  `koanf:"breaker"`
}

type PostgresConfig struct {
	Address  string `koanf:"address"`
	Port     string `koanf:"port"`
	DB       string `koanf:"db"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type HTTPConfig struct {
	Port string `koanf:"port"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

// ViewConfig controls the per-user view sessions.
type ViewConfig struct {
	// TransactionLimit is the number of most recent transactions fetched for
	// the selected account. Every fetch uses the same value.
	TransactionLimit int `koanf:"transaction_limit"`
	// IdleTimeout is how long a session may go unused before it is
	// unmounted. Zero keeps sessions for the life of the process.
	IdleTimeout time.Duration `koanf:"idle_timeout"`
}

// StoreConfig controls calls made against the record store.
type StoreConfig struct {
	Timeout      time.Duration `koanf:"timeout"`
	ReadRetries  int           `koanf:"read_retries"`
	RetryBackoff time.Duration `koanf:"retry_backoff"`
}

type BreakerConfig struct {
	MaxRequests         uint32        `koanf:"max_requests"`
	Interval            time.Duration `koanf:"interval"`
	Timeout             time.Duration `koanf:"timeout"`
	ConsecutiveFailures uint32        `koanf:"consecutive_failures"`
}

// In all cases the default behavior should be for the docker compose setup
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"postgres.address":             "localhost",
		"postgres.port":                "5433",
		"postgres.db":                  "postgres",
		"postgres.username":            "postgres",
		"postgres.password":            "testpassword",
		"http.port":                    "9446",
		"log.level":                    "info",
		"view.transaction_limit":       20,
		"view.idle_timeout":            "30m",
		"store.timeout":                "5s",
		"store.read_retries":           1,
		"store.retry_backoff":          "100ms",
		"breaker.max_requests":         1,
		"breaker.interval":             "60s",
		"breaker.timeout":              "30s",
		"breaker.consecutive_failures": 5,
	}
}

func ProcessEnvironmentVariables() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// POSTGRES_ADDRESS -> postgres.address
	if err := k.Load(env.Provider(postgresPrefix, ".", func(s string) string {
		return "postgres." + strings.ToLower(strings.TrimPrefix(s, postgresPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: load postgres env: %w", err)
	}

	// BANKVIEW_STORE_READ_RETRIES -> store.read_retries
	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("config: load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.View.TransactionLimit < 1 || c.View.TransactionLimit > 100 {
		return errors.New("config: view.transaction_limit must be between 1 and 100")
	}
	if c.View.IdleTimeout < 0 {
		return errors.New("config: view.idle_timeout must not be negative")
	}
	if c.Store.ReadRetries < 0 {
		return errors.New("config: store.read_retries must not be negative")
	}
	if c.Store.Timeout < 0 {
		return errors.New("config: store.timeout must not be negative")
	}
	if c.HTTP.Port == "" {
		return errors.New("config: http.port is required")
	}
	return nil
}

// PostgresURL builds the lib/pq connection string. Credentials are escaped.
func (c *Config) PostgresURL() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.Username, c.Postgres.Password),
		Host:     net.JoinHostPort(c.Postgres.Address, c.Postgres.Port),
		Path:     "/" + c.Postgres.DB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
