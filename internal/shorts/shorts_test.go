// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package shorts

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/shortify/internal/cache"
)

func TestDownloadFilename(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Epic Coding Moment", "Epic_Coding_Moment.mp4"},
		{"Mind-Blowing Tip", "Mind_Blowing_Tip.mp4"},
		{"", ".mp4"},
		{"ünï 42!", "_n__42_.mp4"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DownloadFilename(tt.title))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", FormatDuration(0))
	assert.Equal(t, "0:45", FormatDuration(45))
	assert.Equal(t, "15:32", FormatDuration(932))
	assert.Equal(t, "0:00", FormatDuration(-3))
}

func TestFeatureBadge(t *testing.T) {
	b, err := FeatureCaptions.Badge()
	require.NoError(t, err)
	assert.Equal(t, Badge{Icon: "fas fa-closed-captioning", Label: "Captions"}, b)

	b, err = FeatureVertical.Badge()
	require.NoError(t, err)
	assert.Equal(t, "fas fa-crop", b.Icon)

	b, err = FeatureHashtags.Badge()
	require.NoError(t, err)
	assert.Equal(t, "Tags", b.Label)

	_, err = Feature("slowmo").Badge()
	assert.ErrorIs(t, err, ErrUnknownFeature)
}

func TestMockFetcher(t *testing.T) {
	var waited time.Duration
	f := &MockFetcher{Delay: DefaultFetchDelay, Delayer: DelayFunc(func(_ context.Context, d time.Duration) error {
		waited = d
		return nil
	})}

	meta, err := f.Fetch(context.Background(), "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, waited)
	assert.Equal(t, "dQw4w9WgXcQ", meta.ID)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg", meta.Thumbnail)
	assert.Equal(t, "15:32", meta.Duration)
}

func TestMockFetcher_Cancelled(t *testing.T) {
	f := NewMockFetcher(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.Fetch(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockGenerator(t *testing.T) {
	g := &MockGenerator{Delay: DefaultGenerateDelay, Delayer: NoDelay}
	video := VideoMetadata{ID: "abc", Thumbnail: "thumb.jpg"}

	clips, err := g.Generate(context.Background(), video, ProcessingOptions{})
	require.NoError(t, err)
	require.Len(t, clips, 3)

	scores := []int{clips[0].ViralScore, clips[1].ViralScore, clips[2].ViralScore}
	assert.Equal(t, []int{95, 88, 92}, scores)
	for _, c := range clips {
		assert.Equal(t, "thumb.jpg", c.Thumbnail)
		for _, f := range c.Features {
			_, err := f.Badge()
			assert.NoError(t, err)
		}
	}

	// options are ignored
	again, err := g.Generate(context.Background(), video, DefaultProcessingOptions())
	require.NoError(t, err)
	assert.Equal(t, clips, again)
}

func TestShortClipClone(t *testing.T) {
	c := ShortClip{Features: []Feature{FeatureCaptions}, Hashtags: []string{"#a"}}
	cp := c.Clone()
	cp.Features[0] = FeatureHashtags
	cp.Hashtags[0] = "#b"
	assert.Equal(t, FeatureCaptions, c.Features[0])
	assert.Equal(t, "#a", c.Hashtags[0])
}

type countingFetcher struct {
	calls atomic.Int32
	err   error
}

func (f *countingFetcher) Fetch(_ context.Context, id string) (VideoMetadata, error) {
	f.calls.Add(1)
	if f.err != nil {
		return VideoMetadata{}, f.err
	}
	return VideoMetadata{ID: id, Title: "t-" + id}, nil
}

func TestCachedFetcher(t *testing.T) {
	c := cache.NewMemoryCache(0)
	defer c.Close()
	next := &countingFetcher{}
	f := NewCachedFetcher(next, c, time.Minute)

	for i := 0; i < 3; i++ {
		meta, err := f.Fetch(context.Background(), "abc")
		require.NoError(t, err)
		assert.Equal(t, "t-abc", meta.Title)
	}
	assert.EqualValues(t, 1, next.calls.Load())

	_, err := f.Fetch(context.Background(), "xyz")
	require.NoError(t, err)
	assert.EqualValues(t, 2, next.calls.Load())
}

func TestCachedFetcher_Disabled(t *testing.T) {
	c := cache.NewMemoryCache(0)
	defer c.Close()
	next := &countingFetcher{}
	f := NewCachedFetcher(next, c, 0)

	for i := 0; i < 2; i++ {
		_, err := f.Fetch(context.Background(), "abc")
		require.NoError(t, err)
	}
	assert.EqualValues(t, 2, next.calls.Load())
}

func TestCachedFetcher_ErrorNotCached(t *testing.T) {
	c := cache.NewMemoryCache(0)
	defer c.Close()
	boom := errors.New("boom")
	next := &countingFetcher{err: boom}
	f := NewCachedFetcher(next, c, time.Minute)

	_, err := f.Fetch(context.Background(), "abc")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Stats().CurrentSize)
}

func TestCachedFetcher_CorruptEntry(t *testing.T) {
	c := cache.NewMemoryCache(0)
	defer c.Close()
	c.Set(context.Background(), "video:abc", []byte("{not json"), time.Minute)
	next := &countingFetcher{}
	f := NewCachedFetcher(next, c, time.Minute)

	meta, err := f.Fetch(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", meta.ID)
	assert.EqualValues(t, 1, next.calls.Load())
}
