// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package shorts

import (
	"context"
	"time"
)

// MetadataFetcher resolves a video ID into display metadata.
type MetadataFetcher interface {
	Fetch(ctx context.Context, videoID string) (VideoMetadata, error)
}

// ShortsGenerator produces a batch of short clips for a video. Implementations
// receive the options snapshot even when they ignore it.
type ShortsGenerator interface {
	Generate(ctx context.Context, video VideoMetadata, opts ProcessingOptions) ([]ShortClip, error)
}

// Delayer waits for d or until ctx is done.
type Delayer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// DelayFunc adapts a function to Delayer.
type DelayFunc func(ctx context.Context, d time.Duration) error

func (f DelayFunc) Delay(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// TimerDelay waits on a real timer.
var TimerDelay Delayer = DelayFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
})

// NoDelay returns immediately. Tests use it to make mocks instantaneous.
var NoDelay Delayer = DelayFunc(func(context.Context, time.Duration) error { return nil })
