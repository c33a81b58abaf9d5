// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const schemaVersion = 1

// PrefStore keeps scoped key-value preferences in a single table.
type PrefStore struct {
	DB   *sql.DB
	path string
}

// NewPrefStore opens (or creates) the database at dbPath and migrates it.
func NewPrefStore(dbPath string) (*PrefStore, error) {
	db, err := Open(dbPath, DefaultConfig())
	if err != nil {
		return nil, err
	}

	s := &PrefStore{DB: db, path: dbPath}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prefs store: migration failed: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *PrefStore) Path() string { return s.path }

func (s *PrefStore) migrate() error {
	var currentVersion int
	if err := s.DB.QueryRow("PRAGMA user_version").Scan(&currentVersion); err != nil {
		return err
	}
	if currentVersion >= schemaVersion {
		return nil
	}

	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	schema := `
	CREATE TABLE IF NOT EXISTS preferences (
		scope TEXT NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (scope, key)
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *PrefStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	var value string
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE scope = ? AND key = ?`, scope, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get preference %s/%s: %w", scope, key, err)
	}
	return value, true, nil
}

func (s *PrefStore) Set(ctx context.Context, scope, key, value string) error {
	query := `
	INSERT INTO preferences (scope, key, value, updated_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT(scope, key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
	`
	if _, err := s.DB.ExecContext(ctx, query, scope, key, value, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("set preference %s/%s: %w", scope, key, err)
	}
	return nil
}

func (s *PrefStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PrefStore) Close() error {
	return s.DB.Close()
}
