package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/specialistvlad/handlergrid/internal/invalidation"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPaths []string // hcl files or directories

	LogFormat string
	LogLevel  string
	// CacheTTL bounds how long discovered plugin definitions stay cached.
	// Zero keeps them until they are invalidated.
	CacheTTL        time.Duration
	HealthcheckPort int

	// Invalidation.URL empty disables the remote invalidation subscriber.
	Invalidation invalidation.Config
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ManifestPaths) == 0 {
		return nil, errors.New("at least one manifest path is required")
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache TTL cannot be negative, got %s", cfg.CacheTTL)
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "json":
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}
