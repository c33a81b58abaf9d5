// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"net"
	"net/url"

	"github.com/rs/zerolog"
)

// Validate reports every invalid field of cfg at once.
func Validate(cfg Config) error {
	v := &ValidationError{}

	if _, _, err := net.SplitHostPort(cfg.ListenAddr); err != nil {
		v.add("listen_addr %q: %v", cfg.ListenAddr, err)
	}
	if cfg.LogLevel != "" {
		if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
			v.add("log_level %q: %v", cfg.LogLevel, err)
		}
	}

	switch cfg.Storage.Backend {
	case "", "sqlite", "badger", "memory":
	case "file":
		if cfg.Storage.Path == "" {
			v.add("storage.path is required for the file backend")
		}
	default:
		v.add("storage.backend %q: want sqlite, badger, file or memory", cfg.Storage.Backend)
	}

	switch cfg.Cache.Backend {
	case "", "memory", "none":
	case "redis":
		if cfg.Cache.RedisAddr == "" {
			v.add("cache.redis_addr is required for the redis backend")
		}
	default:
		v.add("cache.backend %q: want memory, redis or none", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL < 0 {
		v.add("cache.ttl must not be negative")
	}

	if cfg.Timings.FetchDelay < 0 || cfg.Timings.GenerateDelay < 0 || cfg.Timings.DownloadDelay < 0 {
		v.add("timings must not be negative")
	}

	n := cfg.Notifications
	if n.EnterDelay < 0 || n.ExitDuration < 0 {
		v.add("notification delays must not be negative")
	}
	if n.VisibleFor <= n.EnterDelay {
		v.add("notifications.visible_for (%s) must exceed enter_delay (%s)", n.VisibleFor, n.EnterDelay)
	}

	if cfg.Session.IdleTimeout < 0 {
		v.add("session.idle_timeout must not be negative")
	}

	if cfg.RateLimit.PerSessionRPS <= 0 {
		v.add("ratelimit.per_session_rps must be positive")
	}
	if cfg.RateLimit.Burst < 1 {
		v.add("ratelimit.burst must be at least 1")
	}

	if cfg.Telemetry.Enabled {
		switch cfg.Telemetry.Exporter {
		case "grpc", "http":
		default:
			v.add("telemetry.exporter %q: want grpc or http", cfg.Telemetry.Exporter)
		}
		if cfg.Telemetry.Endpoint == "" {
			v.add("telemetry.endpoint is required when telemetry is enabled")
		}
	}
	if cfg.Telemetry.SamplingRate < 0 || cfg.Telemetry.SamplingRate > 1 {
		v.add("telemetry.sampling_rate must be between 0 and 1")
	}

	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			continue
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			v.add("allowed_origins: %q is not an origin", origin)
		}
	}

	return v.errOrNil()
}
