// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config selects and configures the cache backend.
type Config struct {
	Backend         string // "memory" (default), "redis" or "none"
	Redis           RedisConfig
	CleanupInterval time.Duration
}

// New builds the configured cache backend.
func New(cfg Config, logger zerolog.Logger) (Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		interval := cfg.CleanupInterval
		if interval <= 0 {
			interval = time.Minute
		}
		return NewMemoryCache(interval), nil
	case "redis":
		return NewRedisCache(cfg.Redis, logger)
	case "none":
		return NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
