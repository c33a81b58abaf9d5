// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package view

import (
	"strconv"
	"sync"
	"time"

	"github.com/ManuGH/shortify/internal/app"
)

// RevealAnimation configures the scroll-in animation of landing cards.
type RevealAnimation struct {
	InitialOpacity float64
	OffsetPx       int
	Transition     time.Duration
	Threshold      float64
}

// DefaultReveal fades cards in from 30px below once 10% is visible.
func DefaultReveal() RevealAnimation {
	return RevealAnimation{
		InitialOpacity: 0,
		OffsetPx:       30,
		Transition:     600 * time.Millisecond,
		Threshold:      0.1,
	}
}

// TransitionCSS is the inline transition value.
func (r RevealAnimation) TransitionCSS() string {
	s := formatSeconds(r.Transition)
	return "opacity " + s + " ease, transform " + s + " ease"
}

func formatSeconds(d time.Duration) string {
	return trimFloat(d.Seconds()) + "s"
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// LandingFeature is one card of the marketing section.
type LandingFeature struct {
	ID          string
	Icon        string
	Title       string
	Description string
}

// LandingFeatures lists the cards observed by the reveal script.
func LandingFeatures() []LandingFeature {
	return []LandingFeature{
		{ID: "feature-ai", Icon: "fas fa-brain", Title: "AI Highlight Detection", Description: "Finds the most engaging moments of a long video."},
		{ID: "feature-captions", Icon: "fas fa-closed-captioning", Title: "Auto Captions", Description: "Adds readable captions to every short."},
		{ID: "feature-crop", Icon: "fas fa-crop", Title: "Smart 9:16 Crop", Description: "Reframes landscape footage for vertical feeds."},
		{ID: "feature-tags", Icon: "fas fa-hashtag", Title: "Trending Hashtags", Description: "Suggests tags that match the clip."},
	}
}

// RevealTracker is the one-shot reveal state of observed elements. An element
// is revealed the first time it intersects at or above the threshold and is
// never hidden again.
//
// Pages rebuild it from the session (see RevealFor), so cards revealed before
// a reload render visible straight away.
type RevealTracker struct {
	anim RevealAnimation

	mu       sync.Mutex
	observed map[string]bool // value: revealed
}

// NewRevealTracker creates a tracker for anim.
func NewRevealTracker(anim RevealAnimation) *RevealTracker {
	return &RevealTracker{anim: anim, observed: make(map[string]bool)}
}

// RevealFor observes the landing cards with the default animation and replays
// the reveals recorded in s.
func RevealFor(s app.State) *RevealTracker {
	t := NewRevealTracker(DefaultReveal())
	for _, f := range LandingFeatures() {
		t.Observe(f.ID)
	}
	for _, id := range s.Revealed {
		t.Intersect(id, 1)
	}
	return t
}

// Observed reports whether id is watched.
func (t *RevealTracker) Observed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.observed[id]
	return ok
}

// Threshold is the minimum intersection ratio that reveals an element.
func (t *RevealTracker) Threshold() float64 { return t.anim.Threshold }

// Observe starts watching id. Observing twice is a no-op.
func (t *RevealTracker) Observe(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.observed[id]; !ok {
		t.observed[id] = false
	}
}

// Intersect reports an intersection ratio for id. It returns true only for the
// call that reveals the element; unobserved or already revealed ids return false.
func (t *RevealTracker) Intersect(id string, ratio float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	revealed, ok := t.observed[id]
	if !ok || revealed || ratio < t.anim.Threshold || ratio <= 0 {
		return false
	}
	t.observed[id] = true
	return true
}

// Revealed reports whether id has been revealed.
func (t *RevealTracker) Revealed(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.observed[id]
}

// Style returns the inline style for id in its current state.
func (t *RevealTracker) Style(id string) string {
	if t.Revealed(id) {
		return "opacity: 1; transform: translateY(0); transition: " + t.anim.TransitionCSS()
	}
	return t.anim.InitialStyle()
}

// InitialStyle is the hidden state applied before first intersection.
func (r RevealAnimation) InitialStyle() string {
	return "opacity: " + trimFloat(r.InitialOpacity) +
		"; transform: translateY(" + strconv.Itoa(r.OffsetPx) + "px); transition: " + r.TransitionCSS()
}
