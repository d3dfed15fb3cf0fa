package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Store      StoreConfig      `yaml:"store"`
	Resilience ResilienceConfig `yaml:"resilience"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig holds per-IP request limits.
type RateLimitConfig struct {
	Disabled          bool          `yaml:"disabled"            env:"RATE_LIMIT_DISABLED"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"RATE_LIMIT_RPM"              env-default:"300"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"    env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path     string `yaml:"path"     env:"METRICS_PATH"     env-default:"/metrics"`
}

// StoreConfig holds startup behaviour of the memory store.
type StoreConfig struct {
	SkipMigrate bool   `yaml:"skip_migrate"  env:"STORE_SKIP_MIGRATE"`
	SeedOnEmpty bool   `yaml:"seed_on_empty" env:"STORE_SEED_ON_EMPTY"`
	SeedFile    string `yaml:"seed_file"     env:"STORE_SEED_FILE"`
}

// ResilienceConfig holds timeout, retry and circuit-breaker settings for
// calls that cross the storage boundary.
type ResilienceConfig struct {
	OpTimeout          time.Duration `yaml:"op_timeout"           env:"RESILIENCE_OP_TIMEOUT"           env-default:"5s"`
	MaxRetries         uint64        `yaml:"max_retries"          env:"RESILIENCE_MAX_RETRIES"          env-default:"3"`
	InitialBackoff     time.Duration `yaml:"initial_backoff"      env:"RESILIENCE_INITIAL_BACKOFF"      env-default:"100ms"`
	MaxBackoff         time.Duration `yaml:"max_backoff"          env:"RESILIENCE_MAX_BACKOFF"          env-default:"2s"`
	BreakerFailures    uint32        `yaml:"breaker_failures"     env:"RESILIENCE_BREAKER_FAILURES"     env-default:"5"`
	BreakerOpenTimeout time.Duration `yaml:"breaker_open_timeout" env:"RESILIENCE_BREAKER_OPEN_TIMEOUT" env-default:"30s"`
}
