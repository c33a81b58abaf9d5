// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	c.Set(ctx, "key1", []byte("value1"), 5*time.Minute)

	val, ok := c.Get(ctx, "key1")
	require.True(t, ok, "expected to find key1")
	assert.Equal(t, []byte("value1"), val)

	_, ok = c.Get(ctx, "nonexistent")
	assert.False(t, ok, "expected not to find nonexistent key")

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Sets)
	assert.Equal(t, 1, stats.CurrentSize)
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	src := []byte("abc")
	c.Set(ctx, "k", src, time.Minute)
	src[0] = 'X'

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))

	got[1] = 'Y'
	again, _ := c.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemoryCache_Expiration(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache(0).(*memoryCache)
	now := time.Unix(1000, 0)
	mc.now = func() time.Time { return now }

	mc.Set(ctx, "shortlived", []byte("v"), 50*time.Millisecond)
	_, ok := mc.Get(ctx, "shortlived")
	require.True(t, ok)

	now = now.Add(100 * time.Millisecond)
	_, ok = mc.Get(ctx, "shortlived")
	assert.False(t, ok, "expected entry to expire")

	assert.Equal(t, 1, mc.deleteExpired())
	assert.Equal(t, int64(1), mc.Stats().Evictions)
	assert.Equal(t, 0, mc.Stats().CurrentSize)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)
	c.Set(ctx, "k", []byte("v"), time.Minute)
	c.Delete(ctx, "k")
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_CloseStopsJanitor(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewMemoryCache(10 * time.Millisecond)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}

func TestNoOpCache(t *testing.T) {
	ctx := context.Background()
	c := NewNoOpCache()
	c.Set(ctx, "k", []byte("v"), time.Minute)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, CacheStats{}, c.Stats())
}

func TestNew_Backends(t *testing.T) {
	c, err := New(Config{Backend: "none"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, noOpCache{}, c)

	c, err = New(Config{}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = New(Config{Backend: "memcached"}, zerolog.Nop())
	assert.Error(t, err)
}
