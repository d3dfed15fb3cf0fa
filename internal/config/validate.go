package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0 (got %v)", c.Server.ShutdownTimeout)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) must not exceed max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if !c.RateLimit.Disabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be > 0 (got %d)", c.RateLimit.RequestsPerMinute)
	}

	if !c.Metrics.Disabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	if err := c.Resilience.validate(); err != nil {
		return fmt.Errorf("resilience: %w", err)
	}

	return nil
}

func (r *ResilienceConfig) validate() error {
	if r.OpTimeout <= 0 {
		return fmt.Errorf("op_timeout must be > 0 (got %v)", r.OpTimeout)
	}
	if r.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be > 0 (got %v)", r.InitialBackoff)
	}
	if r.MaxBackoff < r.InitialBackoff {
		return fmt.Errorf("max_backoff (%v) must be >= initial_backoff (%v)", r.MaxBackoff, r.InitialBackoff)
	}
	if r.BreakerFailures == 0 {
		return fmt.Errorf("breaker_failures must be > 0")
	}
	if r.BreakerOpenTimeout <= 0 {
		return fmt.Errorf("breaker_open_timeout must be > 0 (got %v)", r.BreakerOpenTimeout)
	}
	return nil
}
