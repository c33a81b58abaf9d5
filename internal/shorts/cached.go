// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package shorts

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ManuGH/shortify/internal/cache"
	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/metrics"
)

// CachedFetcher memoises another MetadataFetcher by video ID.
type CachedFetcher struct {
	next  MetadataFetcher
	cache cache.Cache
	ttl   time.Duration
}

// NewCachedFetcher wraps next with c. A non-positive ttl disables caching.
func NewCachedFetcher(next MetadataFetcher, c cache.Cache, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, cache: c, ttl: ttl}
}

func cacheKey(videoID string) string { return "video:" + videoID }

func (f *CachedFetcher) Fetch(ctx context.Context, videoID string) (VideoMetadata, error) {
	logger := xglog.WithComponentFromContext(ctx, "fetcher")

	if f.ttl > 0 {
		if raw, ok := f.cache.Get(ctx, cacheKey(videoID)); ok {
			var meta VideoMetadata
			if err := json.Unmarshal(raw, &meta); err == nil {
				metrics.IncMetadataCache(true)
				logger.Debug().Str(xglog.FieldVideoID, videoID).Msg("video metadata cache hit")
				return meta, nil
			}
			// corrupt entry: drop it and fall through to the source
			f.cache.Delete(ctx, cacheKey(videoID))
		}
		metrics.IncMetadataCache(false)
	}

	meta, err := f.next.Fetch(ctx, videoID)
	if err != nil {
		return VideoMetadata{}, err
	}

	if f.ttl > 0 {
		if raw, err := json.Marshal(meta); err == nil {
			f.cache.Set(ctx, cacheKey(videoID), raw, f.ttl)
		}
	}
	logger.Debug().
		Str(xglog.FieldVideoID, videoID).
		Str("ttl", FormatDuration(int(f.ttl/time.Second))).
		Msg("video metadata cached")
	return meta, nil
}
