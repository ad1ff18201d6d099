package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	StoreMongo  = "mongo"
	StoreSQLite = "sqlite"

	RealtimeRedis = "redis"
	RealtimeLocal = "local"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// StoreDriver selects where profiles, tasks and projects live.
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`
	// RealtimeDriver selects the change feed; "local" keeps it in-process.
	RealtimeDriver string `env:"REALTIME_DRIVER, default=redis"`

	Session  SessionConfig
	Mongo    MongoConfig
	SQLite   SQLiteConfig
	Redis    RedisConfig
	Realtime RealtimeConfig
	Tracing  TracingConfig
}

type SessionConfig struct {
	TTL           time.Duration `env:"SESSION_TTL,            default=24h"`
	SettleTimeout time.Duration `env:"SESSION_SETTLE_TIMEOUT, default=2s"`
	CookieSecure  bool          `env:"COOKIE_SECURE,          default=false"`
}

type MongoConfig struct {
	URI         string `env:"MONGO_URI,           default=mongodb://localhost:27017"`
	Database    string `env:"MONGO_DB,            default=doable"`
	MaxPoolSize uint64 `env:"MONGO_MAX_POOL_SIZE, default=50"`
}

type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH, default=data/doable.db"`
}

type RedisConfig struct {
	// URL, when set, overrides Addr and DB (redis:// or rediss://).
	URL        string `env:"REDIS_URL"`
	Addr       string `env:"REDIS_ADDR,        default=localhost:6379"`
	DB         int    `env:"REDIS_DB,          default=0"`
	Username   string `env:"REDIS_USERNAME"`
	Password   string `env:"REDIS_PASSWORD"`
	ClientName string `env:"REDIS_CLIENT_NAME, default=doable"`
}

type RealtimeConfig struct {
	// Workers is the number of table-sharded fan-out workers.
	Workers int `env:"HUB_WORKERS, default=4"`
}

type TracingConfig struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=doable"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreMongo, StoreSQLite:
	default:
		return fmt.Errorf("config: STORE_DRIVER must be %q or %q, got %q", StoreMongo, StoreSQLite, c.StoreDriver)
	}
	switch c.RealtimeDriver {
	case RealtimeRedis, RealtimeLocal:
	default:
		return fmt.Errorf("config: REALTIME_DRIVER must be %q or %q, got %q", RealtimeRedis, RealtimeLocal, c.RealtimeDriver)
	}
	return nil
}
