// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefStore_RoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "prefs.sqlite")

	s, err := NewPrefStore(dbPath)
	require.NoError(t, err)

	_, ok, err := s.Get(ctx, "c1", "shortify-theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "c1", "shortify-theme", "dark"))
	require.NoError(t, s.Set(ctx, "c1", "shortify-theme", "light"))
	require.NoError(t, s.Set(ctx, "c2", "shortify-theme", "dark"))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	s, err = NewPrefStore(dbPath)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(ctx, "c1", "shortify-theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "light", v)

	v, _, _ = s.Get(ctx, "c2", "shortify-theme")
	assert.Equal(t, "dark", v)
	assert.Equal(t, dbPath, s.Path())
}
