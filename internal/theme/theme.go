// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package theme loads and toggles the per-client color theme.
package theme

import (
	"context"
	"fmt"

	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/prefs"
)

// Theme is the page color scheme.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// PreferenceKey is where the theme is stored.
const PreferenceKey = "shortify-theme"

// Default is used when nothing is stored.
const Default = Dark

// Flip returns the opposite theme.
func (t Theme) Flip() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

// Icon is the toggle button icon: it shows the theme you would switch to.
func Icon(t Theme) string {
	if t == Light {
		return "fas fa-moon"
	}
	return "fas fa-sun"
}

// Parse accepts the stored representation. Anything unknown is reported false.
func Parse(s string) (Theme, bool) {
	switch Theme(s) {
	case Dark, Light:
		return Theme(s), true
	default:
		return "", false
	}
}

// Service reads and writes themes through a preference store.
type Service struct {
	store prefs.Store
}

// NewService builds a Service over store.
func NewService(store prefs.Store) *Service {
	return &Service{store: store}
}

// Load returns the persisted theme for clientID, falling back to Default when
// nothing usable is stored or the store fails.
func (s *Service) Load(ctx context.Context, clientID string) Theme {
	logger := xglog.WithComponentFromContext(ctx, "theme")

	raw, ok, err := s.store.Get(ctx, clientID, PreferenceKey)
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "theme.load_failed").Msg("using default theme")
		return Default
	}
	if !ok {
		return Default
	}
	t, valid := Parse(raw)
	if !valid {
		logger.Warn().Str("stored", raw).Str(xglog.FieldEvent, "theme.invalid").Msg("ignoring stored theme")
		return Default
	}
	return t
}

// Toggle persists the flip of current and returns it. The caller applies the
// returned theme only when err is nil.
func (s *Service) Toggle(ctx context.Context, clientID string, current Theme) (Theme, error) {
	next := current.Flip()
	if err := s.store.Set(ctx, clientID, PreferenceKey, string(next)); err != nil {
		return current, fmt.Errorf("persist theme: %w", err)
	}
	logger := xglog.WithComponentFromContext(ctx, "theme")
	logger.Debug().
		Str(xglog.FieldOldState, string(current)).
		Str(xglog.FieldNewState, string(next)).
		Str(xglog.FieldEvent, "theme.toggled").
		Msg("theme toggled")
	return next, nil
}
