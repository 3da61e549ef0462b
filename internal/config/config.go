// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file
// when present), loads them into structured Go types, and validates
// that the values needed by the selected store driver are present so
// they can be reused across the application runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before LoadConfig reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the prefix MUSICIAN_.
	The prefix is removed, the key lowercased, and a double underscore
	marks nesting, so a single underscore can stay inside a key name:

	  MUSICIAN_SERVER__PORT              -> server.port
	  MUSICIAN_SERVER__RATE_LIMIT__BURST -> server.rate_limit.burst
	  MUSICIAN_DATABASE__SSL_MODE        -> database.ssl_mode
*/

// EnvPrefix is the prefix every configuration variable carries.
const EnvPrefix = "MUSICIAN_"

// Store drivers understood by the repository layer.
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Store         StoreConfig          `koanf:"store" validate:"required"`
	Database      DatabaseConfig       `koanf:"database"`
	Redis         RedisConfig          `koanf:"redis"`
	Mongo         MongoConfig          `koanf:"mongo"`
	SQLite        SQLiteConfig         `koanf:"sqlite"`
	Auth          AuthConfig           `koanf:"auth"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Job           JobConfig            `koanf:"job"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string          `koanf:"port" validate:"required"`
	ReadTimeout        int             `koanf:"read_timeout" validate:"min=0"`
	WriteTimeout       int             `koanf:"write_timeout" validate:"min=0"`
	IdleTimeout        int             `koanf:"idle_timeout" validate:"min=0"`
	CORSAllowedOrigins []string        `koanf:"cors_allowed_origins"`
	RateLimit          RateLimitConfig `koanf:"rate_limit"`
}

// RateLimitConfig controls the per-client request limiter.
type RateLimitConfig struct {
	Enabled           bool          `koanf:"enabled"`
	RequestsPerSecond float64       `koanf:"requests_per_second" validate:"min=0"`
	Burst             int           `koanf:"burst" validate:"min=0"`
	ExpiresIn         time.Duration `koanf:"expires_in"`
}

// StoreConfig selects the persistence backend for musicians.
type StoreConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=memory postgres redis mongo sqlite"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
// Only required when store.driver is postgres.
type DatabaseConfig struct {
	Host            string `koanf:"host"`
	Port            int    `koanf:"port"`
	User            string `koanf:"user"`
	Password        string `koanf:"password"`
	Name            string `koanf:"name"`
	SSLMode         string `koanf:"ssl_mode"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". Key is the hash that holds musicians when
// store.driver is redis.
type RedisConfig struct {
	Address  string `koanf:"address"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Key      string `koanf:"key"`
}

// MongoConfig contains MongoDB connection details.
type MongoConfig struct {
	URI        string `koanf:"uri"`
	Database   string `koanf:"database"`
	Collection string `koanf:"collection"`
}

// SQLiteConfig points at the database file used when store.driver is sqlite.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// AuthConfig stores authentication-related secrets.
// An empty SecretKey leaves write routes unauthenticated.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key"`
}

// IntegrationConfig holds third-party service credentials.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	NotifyEmail  string `koanf:"notify_email" validate:"omitempty,email"`
	FromEmail    string `koanf:"from_email" validate:"omitempty,email"`
}

// JobConfig controls the background job worker. Jobs need redis.address.
type JobConfig struct {
	Enabled     bool `koanf:"enabled"`
	Concurrency int  `koanf:"concurrency" validate:"min=0"`
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, applies defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// envKey turns MUSICIAN_SERVER__PORT into server.port.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// applyDefaults fills optional values that were not provided.
func (c *Config) applyDefaults() {
	if c.Primary.Env == "" {
		c.Primary.Env = "development"
	}
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}
	if c.Server.RateLimit.RequestsPerSecond == 0 {
		c.Server.RateLimit.RequestsPerSecond = 20
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 40
	}
	if c.Server.RateLimit.ExpiresIn == 0 {
		c.Server.RateLimit.ExpiresIn = 3 * time.Minute
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "musicians"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "musicians"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "musicians"
	}
	if c.SQLite.Path == "" {
		c.SQLite.Path = "musicians.db"
	}
	if c.Integration.FromEmail == "" {
		c.Integration.FromEmail = "onboarding@resend.dev"
	}
	if c.Job.Concurrency == 0 {
		c.Job.Concurrency = 10
	}

	// Observability is a pointer, nil means "missing".
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}
	c.Observability.applyDefaults()

	// Service name and environment are forced so telemetry stays consistent.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
}

// Validate runs struct-tag validation and the cross-block rules that tags
// cannot express.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.User == "" || c.Database.Name == "" {
			return fmt.Errorf("store driver %q requires database.host, database.user and database.name", c.Store.Driver)
		}
	case DriverRedis:
		if c.Redis.Address == "" {
			return fmt.Errorf("store driver %q requires redis.address", c.Store.Driver)
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return fmt.Errorf("store driver %q requires mongo.uri", c.Store.Driver)
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("store driver %q requires sqlite.path", c.Store.Driver)
		}
	}

	if c.Job.Enabled && c.Redis.Address == "" {
		return fmt.Errorf("job.enabled requires redis.address")
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}

// JobsEnabled reports whether background jobs should run.
func (c *Config) JobsEnabled() bool {
	return c.Job.Enabled && c.Redis.Address != ""
}

// AuthEnabled reports whether write routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.SecretKey != ""
}

// Redacted returns a copy of the config with secrets masked, suitable for printing.
func (c *Config) Redacted() Config {
	out := *c
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "********"
	}

	out.Database.Password = mask(c.Database.Password)
	out.Redis.Password = mask(c.Redis.Password)
	out.Mongo.URI = mask(c.Mongo.URI)
	out.Auth.SecretKey = mask(c.Auth.SecretKey)
	out.Integration.ResendAPIKey = mask(c.Integration.ResendAPIKey)

	if c.Observability != nil {
		obs := *c.Observability
		obs.NewRelic.LicenseKey = mask(obs.NewRelic.LicenseKey)
		out.Observability = &obs
	}

	return out
}
