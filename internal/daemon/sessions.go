// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/cache"
	"github.com/ManuGH/shortify/internal/config"
	"github.com/ManuGH/shortify/internal/notify"
	"github.com/ManuGH/shortify/internal/ratelimit"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/theme"
)

// ConfigSource yields the current configuration. *config.Holder satisfies it.
type ConfigSource interface {
	Get() config.Config
}

// SessionFactory builds controllers from the configuration current at
// session creation, so reloaded timings reach new sessions only.
func SessionFactory(src ConfigSource, metaCache cache.Cache, themes *theme.Service) app.Factory {
	return func(ctx context.Context, clientID string) *app.Controller {
		cfg := src.Get()
		return app.New(ctx, clientID, app.Deps{
			Fetcher: shorts.NewCachedFetcher(
				shorts.NewMockFetcher(cfg.Timings.FetchDelay),
				metaCache,
				cfg.Cache.TTL,
			),
			Generator:     shorts.NewMockGenerator(cfg.Timings.GenerateDelay),
			DownloadDelay: cfg.Timings.DownloadDelay,
			Themes:        themes,
			NotifyTimings: notify.Timings{
				EnterDelay:   cfg.Notifications.EnterDelay,
				VisibleFor:   cfg.Notifications.VisibleFor,
				ExitDuration: cfg.Notifications.ExitDuration,
			},
		})
	}
}

// LimiterConfig maps the per-session settings onto the command limiter.
func LimiterConfig(cfg config.RateLimitConfig) ratelimit.Config {
	rl := ratelimit.DefaultConfig()
	rl.PerSessionRate = rate.Limit(cfg.PerSessionRPS)
	rl.PerSessionBurst = cfg.Burst
	return rl
}

// CacheConfig maps the cache settings onto the cache factory.
func CacheConfig(cfg config.CacheConfig) cache.Config {
	return cache.Config{
		Backend: cfg.Backend,
		Redis: cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			Prefix: "shortify:",
		},
	}
}
