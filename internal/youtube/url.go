// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package youtube recognises the video URL shapes shortify accepts and
// extracts the video ID from them.
package youtube

import (
	"regexp"
	"strings"
)

// urlPatterns is the single pattern family used by both IsValid and
// ExtractID. Group 1 is always the video ID, so any accepted URL yields one.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`),
	regexp.MustCompile(`^https?://(?:www\.)?youtube\.com/embed/([\w-]+)`),
}

// ThumbnailURL returns the preview image URL for a video ID.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/maxresdefault.jpg"
}

// ExtractID returns the video ID embedded in raw, or false when raw matches
// neither accepted shape.
func ExtractID(raw string) (string, bool) {
	for _, p := range urlPatterns {
		if m := p.FindStringSubmatch(raw); m != nil && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}

// IsValid reports whether raw is an accepted video URL.
func IsValid(raw string) bool {
	_, ok := ExtractID(raw)
	return ok
}

// InputState is the live validation result for the URL field.
type InputState struct {
	Value string `json:"value"`
	Valid bool   `json:"valid"`
}

// CheckInput validates the field as the user types. An empty field counts as
// valid so no error border is shown before the user enters anything.
func CheckInput(raw string) InputState {
	v := strings.TrimSpace(raw)
	return InputState{Value: v, Valid: v == "" || IsValid(v)}
}
