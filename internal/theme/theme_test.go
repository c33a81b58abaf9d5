// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package theme

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/shortify/internal/prefs"
)

func TestIcon(t *testing.T) {
	assert.Equal(t, "fas fa-sun", Icon(Dark))
	assert.Equal(t, "fas fa-moon", Icon(Light))
}

func TestLoad_DefaultsToDark(t *testing.T) {
	s := NewService(prefs.NewMemoryStore())
	assert.Equal(t, Dark, s.Load(context.Background(), "c1"))
}

func TestLoad_IgnoresGarbage(t *testing.T) {
	store := prefs.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "c1", PreferenceKey, "purple"))
	assert.Equal(t, Dark, NewService(store).Load(context.Background(), "c1"))
}

func TestToggle_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	store, err := prefs.Open(prefs.BackendSQLite, dir)
	require.NoError(t, err)
	s := NewService(store)

	cur := s.Load(ctx, "c1")
	cur, err = s.Toggle(ctx, "c1", cur)
	require.NoError(t, err)
	assert.Equal(t, Light, cur)
	require.NoError(t, store.Close())

	store, err = prefs.Open(prefs.BackendSQLite, dir)
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, Light, NewService(store).Load(ctx, "c1"))
	assert.Equal(t, Dark, NewService(store).Load(ctx, "c2"))
}

type failingStore struct{ prefs.Store }

func (failingStore) Set(context.Context, string, string, string) error {
	return errors.New("disk full")
}

func TestToggle_FailureKeepsCurrent(t *testing.T) {
	s := NewService(failingStore{prefs.NewMemoryStore()})
	got, err := s.Toggle(context.Background(), "c1", Dark)
	assert.Error(t, err)
	assert.Equal(t, Dark, got)
}
