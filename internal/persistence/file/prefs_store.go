// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package file keeps preferences in one JSON document that is rewritten
// atomically on every change.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	xglog "github.com/ManuGH/shortify/internal/log"
)

// document is the on-disk layout: scope -> key -> value.
type document struct {
	Version     int                          `json:"version"`
	Preferences map[string]map[string]string `json:"preferences"`
}

// PrefStore is a JSON-file preference store.
type PrefStore struct {
	path string

	mu  sync.RWMutex
	doc document
}

// Open loads path if it exists. A missing file starts empty.
func Open(path string) (*PrefStore, error) {
	if path == "" {
		return nil, errors.New("file prefs store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create prefs dir: %w", err)
	}

	s := &PrefStore{
		path: path,
		doc:  document{Version: 1, Preferences: map[string]map[string]string{}},
	}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read prefs file: %w", err)
	}
	if err := json.Unmarshal(raw, &s.doc); err != nil {
		return nil, fmt.Errorf("decode prefs file %s: %w", path, err)
	}
	if s.doc.Preferences == nil {
		s.doc.Preferences = map[string]map[string]string{}
	}
	return s, nil
}

func (s *PrefStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc.Preferences[scope][key]
	return v, ok, nil
}

func (s *PrefStore) Set(ctx context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, hadPrev := s.doc.Preferences[scope][key]
	if s.doc.Preferences[scope] == nil {
		s.doc.Preferences[scope] = map[string]string{}
	}
	s.doc.Preferences[scope][key] = value

	if err := s.flushLocked(ctx); err != nil {
		// keep memory consistent with disk
		if hadPrev {
			s.doc.Preferences[scope][key] = prev
		} else {
			delete(s.doc.Preferences[scope], key)
		}
		return fmt.Errorf("set preference %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *PrefStore) flushLocked(ctx context.Context) error {
	logger := xglog.WithComponentFromContext(ctx, "prefs")

	pendingFile, err := renameio.NewPendingFile(s.path, renameio.WithPermissions(0o600))
	if err != nil {
		return fmt.Errorf("create pending prefs file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending prefs file")
		}
	}()

	enc := json.NewEncoder(pendingFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.doc); err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace prefs file: %w", err)
	}
	return nil
}

func (s *PrefStore) Ping(context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *PrefStore) Close() error { return nil }
