package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	DefaultRole string `env:"DEFAULT_ROLE, default=client"`

	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Events   EventsConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=client_registry"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type EventsConfig struct {
	Provider        string `env:"EVENTS_PROVIDER,         default=redis"`
	Stream          string `env:"EVENTS_STREAM,           default=clients.user-created"`
	StreamMaxLen    int64  `env:"EVENTS_STREAM_MAXLEN,    default=100000"`
	PubSubProjectID string `env:"PUBSUB_PROJECT_ID"`
	PubSubTopicID   string `env:"PUBSUB_TOPIC_ID"`
	SurfaceFailures bool   `env:"EVENTS_SURFACE_FAILURES, default=true"`
}

// IsDevelopment reports whether the service runs with developer defaults
// (pretty console logs).
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate checks cross-field rules envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMongo:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("config: POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("config: unsupported STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom reads configuration through l and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
