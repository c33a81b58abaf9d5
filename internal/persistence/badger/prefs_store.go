// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package badger stores scoped preferences in an embedded Badger database.
// Keys are "pref:<scope>:<key>".
package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// PrefStore is a Badger-backed preference store.
type PrefStore struct {
	db *badger.DB
}

// Open opens the Badger directory at path. An empty path runs in memory.
func Open(path string) (*PrefStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger prefs: %w", err)
	}
	return &PrefStore{db: db}, nil
}

func prefKey(scope, key string) []byte {
	return []byte("pref:" + scope + ":" + key)
}

func (s *PrefStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	var out string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(prefKey(scope, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			out = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s/%s: %w", scope, key, err)
	}
	return out, true, nil
}

func (s *PrefStore) Set(_ context.Context, scope, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(prefKey(scope, key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set preference %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *PrefStore) Ping(context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger prefs store is closed")
	}
	return nil
}

func (s *PrefStore) Close() error { return s.db.Close() }
