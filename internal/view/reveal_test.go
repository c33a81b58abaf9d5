// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package view

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/shortify/internal/app"
)

func TestDefaultReveal(t *testing.T) {
	r := DefaultReveal()
	assert.Equal(t, 0.0, r.InitialOpacity)
	assert.Equal(t, 30, r.OffsetPx)
	assert.Equal(t, 600*time.Millisecond, r.Transition)
	assert.Equal(t, 0.1, r.Threshold)
	assert.Equal(t, "opacity 0.6s ease, transform 0.6s ease", r.TransitionCSS())
}

func TestRevealTracker_OneShot(t *testing.T) {
	tr := NewRevealTracker(DefaultReveal())
	tr.Observe("card")

	assert.False(t, tr.Intersect("card", 0.05), "below threshold")
	assert.False(t, tr.Revealed("card"))
	assert.Contains(t, tr.Style("card"), "opacity: 0")

	assert.True(t, tr.Intersect("card", 0.1))
	assert.True(t, tr.Revealed("card"))
	assert.Contains(t, tr.Style("card"), "opacity: 1")

	// leaving the viewport never hides it again
	assert.False(t, tr.Intersect("card", 0))
	assert.False(t, tr.Intersect("card", 1))
	assert.True(t, tr.Revealed("card"))
}

func TestRevealTracker_Unobserved(t *testing.T) {
	tr := NewRevealTracker(DefaultReveal())
	assert.False(t, tr.Intersect("ghost", 1))
	assert.False(t, tr.Revealed("ghost"))

	tr.Observe("a")
	tr.Intersect("a", 0.5)
	tr.Observe("a")
	assert.True(t, tr.Revealed("a"), "re-observing keeps revealed state")
}

func TestRevealFor_ReplaysSessionReveals(t *testing.T) {
	s := app.State{Revealed: []string{"feature-crop", "not-a-card"}}
	tr := RevealFor(s)

	assert.True(t, tr.Observed("feature-ai"))
	assert.False(t, tr.Observed("not-a-card"))
	assert.True(t, tr.Revealed("feature-crop"))
	assert.False(t, tr.Revealed("feature-ai"))
	assert.Equal(t, 0.1, tr.Threshold())
}

func TestRenderPage_RevealedCardsStartVisible(t *testing.T) {
	s := baseState()
	s.Revealed = []string{"feature-captions"}
	p, err := BuildPage(s)
	require.NoError(t, err)

	assert.True(t, p.FeatureRevealed("feature-captions"))
	assert.False(t, p.FeatureRevealed("feature-ai"))

	var buf bytes.Buffer
	require.NoError(t, RenderPage(&buf, p))
	html := buf.String()
	assert.Contains(t, html, `id="feature-captions" style="opacity: 1; transform: translateY(0); transition: opacity 0.6s ease, transform 0.6s ease" data-reveal-threshold="0.1" data-revealed>`)
	assert.Contains(t, html, `id="feature-ai" style="opacity: 0; transform: translateY(30px); transition: opacity 0.6s ease, transform 0.6s ease" data-reveal-threshold="0.1">`)
}
