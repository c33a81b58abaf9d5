// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package config loads shortify's settings from defaults, an optional YAML
// file and SHORTIFY_* environment variables, in that order of precedence.
package config

import (
	"time"
)

// Config is the effective runtime configuration.
type Config struct {
	ListenAddr     string              `yaml:"listen_addr"`
	LogLevel       string              `yaml:"log_level"`
	Storage        StorageConfig       `yaml:"storage"`
	Cache          CacheConfig         `yaml:"cache"`
	Timings        TimingsConfig       `yaml:"timings"`
	Notifications  NotificationsConfig `yaml:"notifications"`
	Session        SessionConfig       `yaml:"session"`
	RateLimit      RateLimitConfig     `yaml:"ratelimit"`
	Telemetry      TelemetryConfig     `yaml:"telemetry"`
	AllowedOrigins []string            `yaml:"allowed_origins"`

	// Version is the build version, set by the loader.
	Version string `yaml:"-"`
}

// StorageConfig selects the preference store.
type StorageConfig struct {
	Backend string `yaml:"backend"` // sqlite, badger, file or memory
	Path    string `yaml:"path"`
}

// CacheConfig selects the metadata cache.
type CacheConfig struct {
	Backend   string        `yaml:"backend"` // memory, redis or none
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

// TimingsConfig holds the simulated latencies of the mock pipeline.
type TimingsConfig struct {
	FetchDelay    time.Duration `yaml:"fetch_delay"`
	GenerateDelay time.Duration `yaml:"generate_delay"`
	DownloadDelay time.Duration `yaml:"download_delay"`
}

// NotificationsConfig controls the toast lifecycle.
type NotificationsConfig struct {
	EnterDelay   time.Duration `yaml:"enter_delay"`
	VisibleFor   time.Duration `yaml:"visible_for"`
	ExitDuration time.Duration `yaml:"exit_duration"`
}

// SessionConfig controls session eviction.
type SessionConfig struct {
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RateLimitConfig throttles commands per session.
type RateLimitConfig struct {
	PerSessionRPS float64 `yaml:"per_session_rps"`
	Burst         int     `yaml:"burst"`
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Exporter     string  `yaml:"exporter"` // grpc or http
	Endpoint     string  `yaml:"endpoint"`
	SamplingRate float64 `yaml:"sampling_rate"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "data",
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     10 * time.Minute,
		},
		Timings: TimingsConfig{
			FetchDelay:    2 * time.Second,
			GenerateDelay: 4 * time.Second,
			DownloadDelay: 2 * time.Second,
		},
		Notifications: NotificationsConfig{
			EnterDelay:   100 * time.Millisecond,
			VisibleFor:   5 * time.Second,
			ExitDuration: 300 * time.Millisecond,
		},
		Session: SessionConfig{
			IdleTimeout: 30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			PerSessionRPS: 10,
			Burst:         20,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}
