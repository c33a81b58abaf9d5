// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader builds a Config with precedence ENV > file > defaults.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a loader. configPath may be empty for env-only setups.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Path returns the watched config file, if any.
func (l *Loader) Path() string { return l.configPath }

// Load reads, merges and validates the configuration.
func (l *Loader) Load() (Config, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := loadFile(l.configPath, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	}

	mergeEnv(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile decodes the YAML file over cfg. Keys absent from the file keep
// their current value.
func loadFile(path string, cfg *Config) error {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- the path is provided by the operator via flag or env
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("config file contains multiple documents or trailing content")
	}
	return nil
}

func mergeEnv(cfg *Config) {
	cfg.ListenAddr = ParseString(EnvPrefix+"LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = ParseString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel)

	cfg.Storage.Backend = ParseString(EnvPrefix+"STORAGE_BACKEND", cfg.Storage.Backend)
	cfg.Storage.Path = ParseString(EnvPrefix+"STORAGE_PATH", cfg.Storage.Path)

	cfg.Cache.Backend = ParseString(EnvPrefix+"CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.RedisAddr = ParseString(EnvPrefix+"CACHE_REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.TTL = ParseDuration(EnvPrefix+"CACHE_TTL", cfg.Cache.TTL)

	cfg.Timings.FetchDelay = ParseDuration(EnvPrefix+"FETCH_DELAY", cfg.Timings.FetchDelay)
	cfg.Timings.GenerateDelay = ParseDuration(EnvPrefix+"GENERATE_DELAY", cfg.Timings.GenerateDelay)
	cfg.Timings.DownloadDelay = ParseDuration(EnvPrefix+"DOWNLOAD_DELAY", cfg.Timings.DownloadDelay)

	cfg.Notifications.EnterDelay = ParseDuration(EnvPrefix+"NOTIFY_ENTER_DELAY", cfg.Notifications.EnterDelay)
	cfg.Notifications.VisibleFor = ParseDuration(EnvPrefix+"NOTIFY_VISIBLE_FOR", cfg.Notifications.VisibleFor)
	cfg.Notifications.ExitDuration = ParseDuration(EnvPrefix+"NOTIFY_EXIT_DURATION", cfg.Notifications.ExitDuration)

	cfg.Session.IdleTimeout = ParseDuration(EnvPrefix+"SESSION_IDLE_TIMEOUT", cfg.Session.IdleTimeout)

	cfg.RateLimit.PerSessionRPS = ParseFloat(EnvPrefix+"RATELIMIT_PER_SESSION_RPS", cfg.RateLimit.PerSessionRPS)
	cfg.RateLimit.Burst = ParseInt(EnvPrefix+"RATELIMIT_BURST", cfg.RateLimit.Burst)

	cfg.Telemetry.Enabled = ParseBool(EnvPrefix+"TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = ParseString(EnvPrefix+"TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = ParseString(EnvPrefix+"TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = ParseFloat(EnvPrefix+"TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)

	cfg.AllowedOrigins = ParseList(EnvPrefix+"ALLOWED_ORIGINS", cfg.AllowedOrigins)
}
