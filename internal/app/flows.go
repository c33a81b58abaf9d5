// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/metrics"
	"github.com/ManuGH/shortify/internal/notify"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/telemetry"
	"github.com/ManuGH/shortify/internal/youtube"
)

var flowRegions = []Region{RegionLoadingOverlay, RegionProcessControls, RegionURLInput}

var errNoVideo = errors.New("no video selected")

// beginFlow enters the loading state for flow. check runs under the state
// lock before anything changes and may veto the flow.
func (c *Controller) beginFlow(flow Flow, message string, check func(*State) error) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state.Loading.Active {
		c.mu.Unlock()
		metrics.ObserveFlow(string(flow), metrics.OutcomeBusy, 0)
		return ErrBusy
	}
	if check != nil {
		if err := check(&c.state); err != nil {
			c.mu.Unlock()
			return err
		}
	}
	c.state.Loading = Loading{Active: true, Message: message}
	c.state.Flow = flow
	c.state.ScrollToPreview = false
	if flow == FlowIntake {
		c.state.Phase = PhaseLoading
	}
	c.state.Version++
	ev := Event{Version: c.state.Version, Regions: flowRegions}
	c.mu.Unlock()

	c.emit(ev)
	return nil
}

func endFlow(s *State) {
	s.Loading = Loading{}
	s.Flow = FlowNone
}

func (c *Controller) flowLogger(ctx context.Context, flow Flow) zerolog.Logger {
	l := xglog.WithRequestContext(ctx, c.logger)
	return l.With().Str(xglog.FieldFlow, string(flow)).Logger()
}

// SubmitURL validates raw and, when accepted, fetches and previews the video.
func (c *Controller) SubmitURL(ctx context.Context, raw string) error {
	c.touch()
	if c.Snapshot().Busy() {
		metrics.ObserveFlow(string(FlowIntake), metrics.OutcomeBusy, 0)
		return ErrBusy
	}

	url := strings.TrimSpace(raw)
	id, ok := youtube.ExtractID(url)
	if !ok {
		c.update(func(s *State) {
			s.Input = youtube.InputState{Value: url, Valid: false}
			s.Phase = PhaseError
			s.ScrollToPreview = false
		}, RegionURLInput)
		c.toast(msgInvalidURL, notify.Error)
		metrics.ObserveFlow(string(FlowIntake), metrics.OutcomeRejected, 0)
		return &ValidationError{Field: "url", Message: msgInvalidURL}
	}

	err := c.beginFlow(FlowIntake, msgAnalyzing, func(s *State) error {
		s.Input = youtube.InputState{Value: url, Valid: true}
		return nil
	})
	if err != nil {
		return err
	}

	start := c.deps.Now()
	logger := c.flowLogger(ctx, FlowIntake).With().Str(xglog.FieldVideoID, id).Logger()
	logger.Info().Str(xglog.FieldEvent, "intake.start").Msg("fetching video metadata")

	ctx, span := telemetry.StartFlow(ctx, string(FlowIntake), telemetry.VideoAttributes(c.clientID, id)...)
	meta, err := c.deps.Fetcher.Fetch(ctx, id)
	if err != nil {
		c.update(func(s *State) {
			endFlow(s)
			s.Phase = PhaseError
		}, flowRegions...)
		c.toast(msgFetchFailed, notify.Error)

		opErr := &OperationError{Op: "fetch", Message: msgFetchFailed, Err: err}
		telemetry.EndFlow(span, opErr, "operation")
		metrics.ObserveFlow(string(FlowIntake), metrics.OutcomeFailed, c.since(start))
		logger.Error().Err(err).Str(xglog.FieldEvent, "intake.failed").Msg("video fetch failed")
		return opErr
	}

	c.update(func(s *State) {
		endFlow(s)
		s.Video = &meta
		s.PreviewVisible = true
		s.ScrollToPreview = true
		s.Phase = PhasePreviewed
	}, append([]Region{RegionVideoPreview}, flowRegions...)...)

	telemetry.EndFlow(span, nil, "")
	metrics.ObserveFlow(string(FlowIntake), metrics.OutcomeSuccess, c.since(start))
	logger.Info().
		Str(xglog.FieldEvent, "intake.success").
		Dur(xglog.FieldDuration, c.since(start)).
		Msg("video previewed")
	return nil
}

// Process generates shorts for the current video with the given options.
func (c *Controller) Process(ctx context.Context, opts shorts.ProcessingOptions) error {
	c.touch()

	var video shorts.VideoMetadata
	err := c.beginFlow(FlowGenerate, msgGenerating, func(s *State) error {
		if s.Video == nil {
			return errNoVideo
		}
		video = *s.Video
		s.Options = opts
		return nil
	})
	if errors.Is(err, errNoVideo) {
		c.toast(msgNoVideo, notify.Error)
		metrics.ObserveFlow(string(FlowGenerate), metrics.OutcomeRejected, 0)
		return &ValidationError{Field: "video", Message: msgNoVideo}
	}
	if err != nil {
		return err
	}

	start := c.deps.Now()
	logger := c.flowLogger(ctx, FlowGenerate).With().Str(xglog.FieldVideoID, video.ID).Logger()
	logger.Info().
		Str(xglog.FieldEvent, "generate.start").
		Bool("auto_captions", opts.AutoCaptions).
		Bool("highlight_detection", opts.HighlightDetection).
		Bool("auto_crop", opts.AutoCrop).
		Bool("trending_hashtags", opts.TrendingHashtags).
		Msg("generating shorts")

	attrs := append(telemetry.VideoAttributes(c.clientID, video.ID), telemetry.OptionAttributes(map[string]bool{
		"auto_captions":       opts.AutoCaptions,
		"highlight_detection": opts.HighlightDetection,
		"auto_crop":           opts.AutoCrop,
		"trending_hashtags":   opts.TrendingHashtags,
	})...)
	ctx, span := telemetry.StartFlow(ctx, string(FlowGenerate), attrs...)

	clips, err := c.deps.Generator.Generate(ctx, video, opts)
	if err == nil {
		err = checkFeatures(clips)
		if err != nil {
			logger.Error().Err(err).Str(xglog.FieldEvent, "generate.invalid_clip").Msg("generator returned an unrenderable clip")
		}
	}
	if err != nil {
		// the previous batch stays on screen
		c.update(endFlow, flowRegions...)
		c.toast(msgProcessFailed, notify.Error)

		opErr := &OperationError{Op: "generate", Message: msgProcessFailed, Err: err}
		telemetry.EndFlow(span, opErr, "operation")
		metrics.ObserveFlow(string(FlowGenerate), metrics.OutcomeFailed, c.since(start))
		logger.Error().Err(err).Str(xglog.FieldEvent, "generate.failed").Msg("short generation failed")
		return opErr
	}

	batch := make([]shorts.ShortClip, len(clips))
	for i, clip := range clips {
		batch[i] = clip.Clone()
	}
	c.update(func(s *State) {
		s.Shorts = batch
		endFlow(s)
	}, append([]Region{RegionShortsGrid}, flowRegions...)...)
	c.toast(msgGenerated(len(batch)), notify.Success)

	telemetry.EndFlow(span, nil, "")
	metrics.ObserveFlow(string(FlowGenerate), metrics.OutcomeSuccess, c.since(start))
	metrics.AddClipsGenerated(len(batch))
	logger.Info().
		Str(xglog.FieldEvent, "generate.success").
		Int(xglog.FieldCount, len(batch)).
		Dur(xglog.FieldDuration, c.since(start)).
		Msg("shorts generated")
	return nil
}

// checkFeatures rejects clips carrying tags outside the closed feature set.
func checkFeatures(clips []shorts.ShortClip) error {
	for _, clip := range clips {
		for _, f := range clip.Features {
			if _, err := f.Badge(); err != nil {
				return fmt.Errorf("clip %d: %w", clip.ID, err)
			}
		}
	}
	return nil
}

// Preview reports that the clip would be previewed.
func (c *Controller) Preview(clipID int) error {
	return c.clipNotice(clipID, "preview", msgPreviewing)
}

// Edit reports that the clip would be opened in the editor.
func (c *Controller) Edit(clipID int) error {
	return c.clipNotice(clipID, "edit", msgEditing)
}

func (c *Controller) clipNotice(clipID int, action string, msg func(string) string) error {
	c.touch()
	clip, ok := c.findClip(clipID)
	if !ok {
		c.toast(msgShortNotFound, notify.Error)
		return &ValidationError{Field: "clip", Message: msgShortNotFound}
	}
	c.toast(msg(clip.Title), notify.Info)
	metrics.IncClipAction(action)
	return nil
}

// Download simulates preparing the clip file and records the download link.
func (c *Controller) Download(ctx context.Context, clipID int) error {
	c.touch()

	var clip shorts.ShortClip
	errNotFound := errors.New("clip not found")
	err := c.beginFlow(FlowDownload, msgPreparingDownload, func(s *State) error {
		for _, sc := range s.Shorts {
			if sc.ID == clipID {
				clip = sc
				return nil
			}
		}
		return errNotFound
	})
	if errors.Is(err, errNotFound) {
		c.toast(msgShortNotFound, notify.Error)
		metrics.ObserveFlow(string(FlowDownload), metrics.OutcomeRejected, 0)
		return &ValidationError{Field: "clip", Message: msgShortNotFound}
	}
	if err != nil {
		return err
	}

	start := c.deps.Now()
	logger := c.flowLogger(ctx, FlowDownload).With().Int(xglog.FieldClipID, clipID).Logger()
	ctx, span := telemetry.StartFlow(ctx, string(FlowDownload), telemetry.ClipAttributes(clipID, "download")...)

	if err := c.deps.Delayer.Delay(ctx, c.deps.DownloadDelay); err != nil {
		c.update(endFlow, flowRegions...)
		c.toast(msgDownloadFailed, notify.Error)

		opErr := &OperationError{Op: "download", Message: msgDownloadFailed, Err: err}
		telemetry.EndFlow(span, opErr, "operation")
		metrics.ObserveFlow(string(FlowDownload), metrics.OutcomeFailed, c.since(start))
		logger.Warn().Err(err).Str(xglog.FieldEvent, "download.failed").Msg("download preparation aborted")
		return opErr
	}

	// TODO: point Href at the encoded clip and trigger it once a real
	// ShortsGenerator produces files; until then the link is only recorded.
	link := shorts.DownloadLink{
		ClipID:   clip.ID,
		Href:     "#",
		Filename: shorts.DownloadFilename(clip.Title),
	}
	c.update(func(s *State) {
		endFlow(s)
		s.LastDownload = &link
	}, append([]Region{RegionDownloadLink}, flowRegions...)...)
	c.toast(msgDownloaded(clip.Title), notify.Success)

	telemetry.EndFlow(span, nil, "")
	metrics.ObserveFlow(string(FlowDownload), metrics.OutcomeSuccess, c.since(start))
	metrics.IncClipAction("download")
	logger.Info().
		Str(xglog.FieldEvent, "download.ready").
		Str("filename", link.Filename).
		Msg("download prepared")
	return nil
}

func (c *Controller) findClip(id int) (shorts.ShortClip, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, sc := range c.state.Shorts {
		if sc.ID == id {
			return sc.Clone(), true
		}
	}
	return shorts.ShortClip{}, false
}

func (c *Controller) since(t time.Time) time.Duration {
	return c.deps.Now().Sub(t)
}
