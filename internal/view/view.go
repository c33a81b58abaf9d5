// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package view turns session snapshots into a declarative view-model and
// renders it with html/template. Nothing here mutates state.
package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ManuGH/shortify/internal/app"
	"github.com/ManuGH/shortify/internal/notify"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/theme"
	"github.com/ManuGH/shortify/internal/youtube"
)

// CardClass is applied to every generated card.
const CardClass = "animate-fade-in-up"

// CardStagger is the reveal delay between consecutive cards.
const CardStagger = 100 * time.Millisecond

// Action is a button bound to one clip.
type Action struct {
	Name     string // preview, edit, download
	Label    string
	Icon     string
	Endpoint string
}

// Card is the view of one ShortClip.
type Card struct {
	ClipID      int
	Poster      string
	Duration    string
	StartTime   string
	ScoreText   string
	Title       string
	Description string
	Badges      []shorts.Badge
	Hashtags    []string
	Actions     []Action
	RevealDelay time.Duration
	Class       string
}

// AnimationDelay is the CSS animation-delay value, e.g. "0.2s".
func (c Card) AnimationDelay() string {
	return formatSeconds(c.RevealDelay)
}

// BuildCards renders clips in order. Any clip carrying an unknown feature tag
// fails the whole batch.
func BuildCards(clips []shorts.ShortClip) ([]Card, error) {
	cards := make([]Card, 0, len(clips))
	for i, clip := range clips {
		badges := make([]shorts.Badge, 0, len(clip.Features))
		for _, f := range clip.Features {
			b, err := f.Badge()
			if err != nil {
				return nil, fmt.Errorf("render clip %d: %w", clip.ID, err)
			}
			badges = append(badges, b)
		}
		cards = append(cards, Card{
			ClipID:      clip.ID,
			Poster:      clip.Thumbnail,
			Duration:    clip.Duration,
			StartTime:   clip.StartTime,
			ScoreText:   fmt.Sprintf("%d%% Viral Score", clip.ViralScore),
			Title:       clip.Title,
			Description: clip.Description,
			Badges:      badges,
			Hashtags:    append([]string(nil), clip.Hashtags...),
			Actions:     clipActions(clip.ID),
			RevealDelay: time.Duration(i) * CardStagger,
			Class:       CardClass,
		})
	}
	return cards, nil
}

func clipActions(id int) []Action {
	endpoint := func(action string) string {
		return "/api/v1/shorts/" + strconv.Itoa(id) + "/" + action
	}
	return []Action{
		{Name: "preview", Label: "Preview", Icon: "fas fa-play", Endpoint: endpoint("preview")},
		{Name: "edit", Label: "Edit", Icon: "fas fa-edit", Endpoint: endpoint("edit")},
		{Name: "download", Label: "Download", Icon: "fas fa-download", Endpoint: endpoint("download")},
	}
}

// Input is the URL form.
type Input struct {
	Value    string
	Invalid  bool
	Disabled bool
	Examples []Example
}

// Example is one pre-fill button.
type Example struct {
	Index int
	Label string
	URL   string
}

// Preview is the video metadata panel.
type Preview struct {
	Visible     bool
	Scroll      bool
	Thumbnail   string
	Title       string
	Description string
	Duration    string
	Views       string
}

// Option is one processing checkbox.
type Option struct {
	Name    string
	Label   string
	Checked bool
}

// Controls holds the processing options and the process button state.
type Controls struct {
	Enabled bool
	Busy    bool
	Options []Option
}

// Loading is the overlay.
type Loading struct {
	Active  bool
	Message string
}

// Notification is the toast view.
type Notification struct {
	ID       string
	Message  string
	Severity string
	Color    string
	Phase    string
}

// DownloadLink is the prepared, untriggered anchor.
type DownloadLink struct {
	Href     string
	Filename string
}

// Page is the whole view-model of one session.
type Page struct {
	Version      uint64
	Theme        string
	ThemeIcon    string
	Input        Input
	Preview      Preview
	Controls     Controls
	Cards        []Card
	Download     *DownloadLink
	Loading      Loading
	Notification *Notification
	Features     []LandingFeature
	Reveal       RevealAnimation

	reveal *RevealTracker
}

// BuildPage maps a snapshot onto the view-model.
func BuildPage(s app.State) (Page, error) {
	cards, err := BuildCards(s.Shorts)
	if err != nil {
		return Page{}, err
	}

	p := Page{
		Version:   s.Version,
		Theme:     string(s.Theme),
		ThemeIcon: theme.Icon(s.Theme),
		Input:     buildInput(s),
		Controls: Controls{
			Enabled: s.Video != nil && !s.Busy(),
			Busy:    s.Busy(),
			Options: buildOptions(s.Options),
		},
		Cards:    cards,
		Loading:  Loading{Active: s.Loading.Active, Message: s.Loading.Message},
		Features: LandingFeatures(),
		Reveal:   DefaultReveal(),
		reveal:   RevealFor(s),
	}
	if s.Video != nil {
		p.Preview = Preview{
			Visible:     s.PreviewVisible,
			Scroll:      s.ScrollToPreview,
			Thumbnail:   s.Video.Thumbnail,
			Title:       s.Video.Title,
			Description: s.Video.Description,
			Duration:    s.Video.Duration,
			Views:       s.Video.Views,
		}
	}
	if s.LastDownload != nil {
		p.Download = &DownloadLink{Href: s.LastDownload.Href, Filename: s.LastDownload.Filename}
	}
	if s.Notification != nil && s.Notification.Phase != notify.Removed {
		n := s.Notification
		p.Notification = &Notification{
			ID:       n.ID,
			Message:  n.Message,
			Severity: string(n.Severity),
			Color:    n.Severity.Color(),
			Phase:    n.Phase.String(),
		}
	}
	return p, nil
}

func buildInput(s app.State) Input {
	in := Input{
		Value:    s.Input.Value,
		Invalid:  s.Input.Value != "" && !s.Input.Valid,
		Disabled: s.Busy(),
	}
	for i, ex := range youtube.Examples() {
		in.Examples = append(in.Examples, Example{Index: i, Label: ex.Label, URL: ex.URL})
	}
	return in
}

func buildOptions(o shorts.ProcessingOptions) []Option {
	return []Option{
		{Name: "auto-captions", Label: "Auto Captions", Checked: o.AutoCaptions},
		{Name: "highlight-detection", Label: "Highlight Detection", Checked: o.HighlightDetection},
		{Name: "auto-crop", Label: "Auto Crop to 9:16", Checked: o.AutoCrop},
		{Name: "trending-hashtags", Label: "Trending Hashtags", Checked: o.TrendingHashtags},
	}
}
