// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/ManuGH/shortify/internal/cache"
	"github.com/ManuGH/shortify/internal/config"
	"github.com/ManuGH/shortify/internal/prefs"
	"github.com/ManuGH/shortify/internal/theme"
)

type staticSource struct {
	mu  sync.Mutex
	cfg config.Config
}

func (s *staticSource) Get() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

func (s *staticSource) set(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func TestSessionFactory_UsesCurrentTimingsAndCache(t *testing.T) {
	cfg := config.Defaults()
	cfg.Timings.FetchDelay = time.Millisecond
	src := &staticSource{cfg: cfg}

	metaCache := cache.NewMemoryCache(time.Minute)
	defer metaCache.Close()

	factory := SessionFactory(src, metaCache, theme.NewService(prefs.NewMemoryStore()))
	c := factory(context.Background(), "client-a")
	defer c.Close()

	require.NoError(t, c.SubmitURL(context.Background(), "https://youtu.be/dQw4w9WgXcQ"))
	snap := c.Snapshot()
	require.NotNil(t, snap.Video)
	assert.Equal(t, "dQw4w9WgXcQ", snap.Video.ID)

	_, cached := metaCache.Get(context.Background(), "video:dQw4w9WgXcQ")
	assert.True(t, cached, "metadata goes through the shared cache")

	// A reload only affects sessions created afterwards.
	slow := cfg
	slow.Timings.FetchDelay = time.Hour
	slow.Cache.TTL = 0
	src.set(slow)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	d := factory(ctx, "client-b")
	defer d.Close()
	require.Error(t, d.SubmitURL(ctx, "https://youtu.be/abcdefghijk"))
}

func TestLimiterConfig(t *testing.T) {
	rl := LimiterConfig(config.RateLimitConfig{PerSessionRPS: 2.5, Burst: 4})
	assert.Equal(t, rate.Limit(2.5), rl.PerSessionRate)
	assert.Equal(t, 4, rl.PerSessionBurst)
	assert.NotEmpty(t, rl.ClassRates)
}

func TestCacheConfig(t *testing.T) {
	cc := CacheConfig(config.CacheConfig{Backend: "redis", RedisAddr: "localhost:6379"})
	assert.Equal(t, "redis", cc.Backend)
	assert.Equal(t, "localhost:6379", cc.Redis.Addr)
	assert.Equal(t, "shortify:", cc.Redis.Prefix)
}
