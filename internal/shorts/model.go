// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package shorts holds the video and short-clip data model together with the
// ports the app controller uses to fetch metadata and generate clips.
package shorts

import (
	"fmt"
	"strings"
)

// VideoMetadata identifies and describes the source video. Values are
// replaced wholesale, never mutated in place.
type VideoMetadata struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Duration    string `json:"duration"`
	Views       string `json:"views"`
	UploadDate  string `json:"uploadDate"`
}

// ShortClip is a generated candidate short derived from one VideoMetadata.
type ShortClip struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartTime   string    `json:"startTime"`
	Duration    string    `json:"duration"`
	ViralScore  int       `json:"viralScore"`
	Thumbnail   string    `json:"thumbnail"`
	Features    []Feature `json:"features"`
	Hashtags    []string  `json:"hashtags"`
}

// Clone returns a deep copy so callers can hand clips across goroutines.
func (c ShortClip) Clone() ShortClip {
	out := c
	out.Features = append([]Feature(nil), c.Features...)
	out.Hashtags = append([]string(nil), c.Hashtags...)
	return out
}

// ProcessingOptions is the snapshot of toggles read when processing starts.
type ProcessingOptions struct {
	AutoCaptions       bool `json:"autoCaptions"`
	HighlightDetection bool `json:"highlightDetection"`
	AutoCrop           bool `json:"autoCrop"`
	TrendingHashtags   bool `json:"trendingHashtags"`
}

// DefaultProcessingOptions mirrors the pre-checked boxes on the page.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{
		AutoCaptions:       true,
		HighlightDetection: true,
		AutoCrop:           true,
		TrendingHashtags:   true,
	}
}

// DownloadLink is what the download action prepares for a clip.
type DownloadLink struct {
	ClipID   int    `json:"clipId"`
	Href     string `json:"href"`
	Filename string `json:"filename"`
}

// DownloadFilename turns a clip title into a file name: every character
// outside [A-Za-z0-9] becomes an underscore and ".mp4" is appended.
func DownloadFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title) + 4)
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	b.WriteString(".mp4")
	return b.String()
}

// FormatDuration renders whole seconds as m:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
