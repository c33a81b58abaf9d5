// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package app

import (
	"slices"

	"github.com/ManuGH/shortify/internal/notify"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/theme"
	"github.com/ManuGH/shortify/internal/youtube"
)

// Phase is the intake state of a session.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseLoading   Phase = "loading"
	PhasePreviewed Phase = "previewed"
	PhaseError     Phase = "error"
)

// Flow names a long-running operation guarded by the loading overlay.
type Flow string

const (
	FlowNone     Flow = ""
	FlowIntake   Flow = "intake"
	FlowGenerate Flow = "generate"
	FlowDownload Flow = "download"
)

// Region is a named part of the page that is re-rendered as a unit.
type Region string

const (
	RegionVideoPreview    Region = "video-preview"
	RegionShortsGrid      Region = "shorts-grid"
	RegionLoadingOverlay  Region = "loading-overlay"
	RegionThemeIcon       Region = "theme-icon"
	RegionNotification    Region = "notification"
	RegionURLInput        Region = "url-input"
	RegionProcessControls Region = "process-controls"
	RegionDownloadLink    Region = "download-link"
)

// AllRegions lists every region in page order.
var AllRegions = []Region{
	RegionURLInput,
	RegionVideoPreview,
	RegionProcessControls,
	RegionShortsGrid,
	RegionDownloadLink,
	RegionLoadingOverlay,
	RegionNotification,
	RegionThemeIcon,
}

// Loading is the overlay state.
type Loading struct {
	Active  bool   `json:"active"`
	Message string `json:"message,omitempty"`
}

// State is an immutable snapshot of a session.
type State struct {
	ClientID string `json:"clientId"`
	Version  uint64 `json:"version"`

	Phase   Phase   `json:"phase"`
	Flow    Flow    `json:"flow,omitempty"`
	Loading Loading `json:"loading"`

	Input   youtube.InputState       `json:"input"`
	Options shorts.ProcessingOptions `json:"options"`

	Video           *shorts.VideoMetadata `json:"video,omitempty"`
	PreviewVisible  bool                  `json:"previewVisible"`
	ScrollToPreview bool                  `json:"scrollToPreview"`

	Shorts       []shorts.ShortClip   `json:"shorts"`
	LastDownload *shorts.DownloadLink `json:"lastDownload,omitempty"`

	Theme        theme.Theme          `json:"theme"`
	Notification *notify.Notification `json:"notification,omitempty"`

	// Revealed lists landing cards already scrolled into view, in reveal order.
	Revealed []string `json:"revealed,omitempty"`
}

// Busy reports whether a flow is running.
func (s State) Busy() bool { return s.Loading.Active }

func (s State) clone() State {
	out := s
	if s.Video != nil {
		v := *s.Video
		out.Video = &v
	}
	if s.Shorts != nil {
		out.Shorts = make([]shorts.ShortClip, len(s.Shorts))
		for i, c := range s.Shorts {
			out.Shorts[i] = c.Clone()
		}
	}
	if s.LastDownload != nil {
		d := *s.LastDownload
		out.LastDownload = &d
	}
	if s.Notification != nil {
		n := *s.Notification
		out.Notification = &n
	}
	out.Revealed = slices.Clone(s.Revealed)
	return out
}

// Event tells subscribers which regions changed.
type Event struct {
	Version uint64   `json:"version"`
	Regions []Region `json:"regions"`
}
