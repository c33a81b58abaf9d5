// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package shorts

import (
	"context"
	"fmt"
	"time"

	"github.com/ManuGH/shortify/internal/youtube"
)

// Default simulated latencies.
const (
	DefaultFetchDelay    = 2 * time.Second
	DefaultGenerateDelay = 4 * time.Second
)

// MockFetcher returns fixed metadata for any ID after a fixed delay.
type MockFetcher struct {
	Delay   time.Duration
	Delayer Delayer
}

// NewMockFetcher builds a MockFetcher waiting d on a real timer.
func NewMockFetcher(d time.Duration) *MockFetcher {
	return &MockFetcher{Delay: d, Delayer: TimerDelay}
}

func (f *MockFetcher) Fetch(ctx context.Context, videoID string) (VideoMetadata, error) {
	if err := delayer(f.Delayer).Delay(ctx, f.Delay); err != nil {
		return VideoMetadata{}, fmt.Errorf("fetch video %s: %w", videoID, err)
	}
	return VideoMetadata{
		ID:          videoID,
		Title:       "Amazing Tech Tutorial - Complete Guide",
		Description: "Learn the fundamentals of modern web development in this comprehensive tutorial...",
		Thumbnail:   youtube.ThumbnailURL(videoID),
		Duration:    FormatDuration(15*60 + 32),
		Views:       "1.2M views",
		UploadDate:  "2025-01-15",
	}, nil
}

// MockGenerator returns the fixed three-clip batch after a fixed delay.
// The options snapshot is accepted and ignored.
type MockGenerator struct {
	Delay   time.Duration
	Delayer Delayer
}

// NewMockGenerator builds a MockGenerator waiting d on a real timer.
func NewMockGenerator(d time.Duration) *MockGenerator {
	return &MockGenerator{Delay: d, Delayer: TimerDelay}
}

func (g *MockGenerator) Generate(ctx context.Context, video VideoMetadata, _ ProcessingOptions) ([]ShortClip, error) {
	if err := delayer(g.Delayer).Delay(ctx, g.Delay); err != nil {
		return nil, fmt.Errorf("generate shorts for %s: %w", video.ID, err)
	}
	return []ShortClip{
		{
			ID:          1,
			Title:       "Epic Coding Moment",
			Description: "AI detected high engagement at 2:15 - Perfect debugging explanation",
			StartTime:   "2:15",
			Duration:    "0:45",
			ViralScore:  95,
			Thumbnail:   video.Thumbnail,
			Features:    []Feature{FeatureCaptions, FeatureVertical, FeatureHashtags},
			Hashtags:    []string{"#coding", "#webdev", "#tutorial", "#programming"},
		},
		{
			ID:          2,
			Title:       "Mind-Blowing Tip",
			Description: "Game-changing technique revealed at 8:30",
			StartTime:   "8:30",
			Duration:    "0:35",
			ViralScore:  88,
			Thumbnail:   video.Thumbnail,
			Features:    []Feature{FeatureCaptions, FeatureVertical},
			Hashtags:    []string{"#tips", "#webdev", "#coding", "#shorts"},
		},
		{
			ID:          3,
			Title:       "Quick Solution",
			Description: "Perfect solution explained in under 30 seconds",
			StartTime:   "12:05",
			Duration:    "0:28",
			ViralScore:  92,
			Thumbnail:   video.Thumbnail,
			Features:    []Feature{FeatureCaptions, FeatureVertical, FeatureHashtags},
			Hashtags:    []string{"#solution", "#quicktip", "#coding", "#viral"},
		},
	}, nil
}

func delayer(d Delayer) Delayer {
	if d == nil {
		return TimerDelay
	}
	return d
}
