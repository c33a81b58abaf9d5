// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/shortify/internal/log"
)

// EnvPrefix is prepended to every environment key.
const EnvPrefix = "SHORTIFY_"

func logger() zerolog.Logger { return log.WithComponent("config") }

// lookup returns the value of key when it is set and non-empty.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func logDefault(l zerolog.Logger, key string) {
	l.Debug().
		Str("key", key).
		Str("source", "default").
		Msg("using default value")
}

// ParseString reads a string from the environment or returns defaultValue.
// It logs the source for observability.
func ParseString(key, defaultValue string) string {
	l := logger()
	v, ok := lookup(key)
	if !ok {
		logDefault(l, key)
		return defaultValue
	}
	lower := strings.ToLower(key)
	if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
		l.Debug().Str("key", key).Str("source", "environment").Bool("sensitive", true).Msg("using environment variable")
	} else {
		l.Debug().Str("key", key).Str("value", v).Str("source", "environment").Msg("using environment variable")
	}
	return v
}

// ParseInt reads an integer from the environment. Unparsable values fall
// back to defaultValue with a warning.
func ParseInt(key string, defaultValue int) int {
	l := logger()
	v, ok := lookup(key)
	if !ok {
		logDefault(l, key)
		return defaultValue
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		l.Warn().Err(err).Str("key", key).Str("value", v).Int("default", defaultValue).
			Msg("invalid integer in environment variable, using default")
		return defaultValue
	}
	l.Debug().Str("key", key).Int("value", i).Str("source", "environment").Msg("using environment variable")
	return i
}

// ParseBool reads a boolean from the environment.
func ParseBool(key string, defaultValue bool) bool {
	l := logger()
	v, ok := lookup(key)
	if !ok {
		logDefault(l, key)
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		l.Warn().Err(err).Str("key", key).Str("value", v).Bool("default", defaultValue).
			Msg("invalid boolean in environment variable, using default")
		return defaultValue
	}
	l.Debug().Str("key", key).Bool("value", b).Str("source", "environment").Msg("using environment variable")
	return b
}

// ParseDuration reads a Go duration ("2s", "500ms") from the environment.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	l := logger()
	v, ok := lookup(key)
	if !ok {
		logDefault(l, key)
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		l.Warn().Err(err).Str("key", key).Str("value", v).Dur("default", defaultValue).
			Msg("invalid duration in environment variable, using default")
		return defaultValue
	}
	l.Debug().Str("key", key).Dur("value", d).Str("source", "environment").Msg("using environment variable")
	return d
}

// ParseFloat reads a float from the environment.
func ParseFloat(key string, defaultValue float64) float64 {
	l := logger()
	v, ok := lookup(key)
	if !ok {
		logDefault(l, key)
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		l.Warn().Err(err).Str("key", key).Str("value", v).Float64("default", defaultValue).
			Msg("invalid float in environment variable, using default")
		return defaultValue
	}
	l.Debug().Str("key", key).Float64("value", f).Str("source", "environment").Msg("using environment variable")
	return f
}

// ParseList reads a comma separated list, dropping empty items.
func ParseList(key string, defaultValue []string) []string {
	v := ParseString(key, "")
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
