// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package prefs defines the durable preference store and selects a backend.
package prefs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ManuGH/shortify/internal/persistence/badger"
	"github.com/ManuGH/shortify/internal/persistence/file"
	"github.com/ManuGH/shortify/internal/persistence/sqlite"
)

// Store persists string preferences per scope (one scope per client).
type Store interface {
	// Get returns the stored value and whether one exists.
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Open creates a Store for backend rooted in dir.
func Open(backend, dir string) (Store, error) {
	if backend == "" {
		backend = BackendSQLite
	}
	if dir != "" && backend != BackendMemory {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	switch backend {
	case BackendSQLite:
		if dir == "" {
			return NewMemoryStore(), nil
		}
		return sqlite.NewPrefStore(filepath.Join(dir, "prefs.sqlite"))
	case BackendBadger:
		if dir == "" {
			return badger.Open("")
		}
		return badger.Open(filepath.Join(dir, "prefs.badger"))
	case BackendFile:
		if dir == "" {
			return nil, fmt.Errorf("prefs backend %q requires storage.path", backend)
		}
		return file.Open(filepath.Join(dir, "prefs.json"))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend: %s (supported: sqlite, badger, file, memory)", backend)
	}
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func memKey(scope, key string) string { return scope + "\x00" + key }

func (m *MemoryStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[memKey(scope, key)]
	return v, ok, nil
}

func (m *MemoryStore) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[memKey(scope, key)] = value
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }
func (m *MemoryStore) Close() error               { return nil }

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*sqlite.PrefStore)(nil)
	_ Store = (*badger.PrefStore)(nil)
	_ Store = (*file.PrefStore)(nil)
)
