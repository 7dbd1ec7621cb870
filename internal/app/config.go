// Package app holds process-level wiring: configuration and logging.
package app

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the client.
type Config struct {
	APIBase     string        `envconfig:"WAGEFLOW_API_BASE" default:"http://localhost:5000"`
	HTTPTimeout time.Duration `envconfig:"WAGEFLOW_HTTP_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"WAGEFLOW_LOG_FORMAT" default:"pretty"`

	// SessionBackend selects where the session persists: "file" keeps
	// it client-local, "redis" suits shared-terminal installs.
	SessionBackend string `envconfig:"WAGEFLOW_SESSION_BACKEND" default:"file"`
	SessionPath    string `envconfig:"WAGEFLOW_SESSION_PATH" default:""`
	RedisAddr      string `envconfig:"WAGEFLOW_REDIS_ADDR" default:"127.0.0.1:6379"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionBackend != "file" && cfg.SessionBackend != "redis" {
		return nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
	}
	return &cfg, nil
}
