// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/shortify/internal/api/middleware"
	"github.com/ManuGH/shortify/internal/app"
	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/telemetry"
	"github.com/ManuGH/shortify/internal/view"
)

const maxCommandBody = 64 << 10

type commandFunc func(r *http.Request, c *app.Controller) error

// command applies the session rate limit, runs fn and answers with the
// re-rendered regions (JSON) or a redirect to the page (plain forms).
func (s *Server) command(class string, fn commandFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFrom(r.Context())
		if s.deps.Limiter != nil && !s.deps.Limiter.Allow(c.ClientID(), class) {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate_limit_exceeded"})
			return
		}

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxCommandBody)
		}
		err := fn(r, c)
		if writeCommandError(w, err) {
			if !errors.Is(err, app.ErrBusy) {
				logger := xglog.WithComponentFromContext(r.Context(), "api")
				logger.Warn().Err(err).
					Str(xglog.FieldPath, r.URL.Path).
					Msg("command rejected")
			}
			return
		}

		if !wantsJSON(r) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		resp, err := renderFragments(c, app.AllRegions)
		if err != nil {
			logger := xglog.WithComponentFromContext(r.Context(), "api")
			logger.Error().Err(err).Msg("render fragments")
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "render_failed"})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// startFlow runs a flow detached from the request so it always completes.
// It returns once the flow finished or entered loading, whichever is first,
// so the response already shows the overlay or the rejection toast.
func (s *Server) startFlow(r *http.Request, c *app.Controller, run func(ctx context.Context) error) error {
	changed := make(chan struct{}, 1)
	cancel := c.Subscribe(func(ev app.Event) {
		if !slices.Contains(ev.Regions, app.RegionLoadingOverlay) {
			return
		}
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	done := make(chan error, 1)
	ctx := context.WithoutCancel(r.Context())
	s.flows.Add(1)
	go func() {
		defer s.flows.Done()
		done <- run(ctx)
	}()

	ack := time.NewTimer(s.cfg.FlowAck)
	defer ack.Stop()
	select {
	case err := <-done:
		return err
	case <-changed:
		return nil
	case <-ack.C:
		return nil
	case <-r.Context().Done():
		return nil
	}
}

// decode reads a JSON body into dst, or the form values via fromForm.
func decode(r *http.Request, dst any, fromForm func(get func(string) string)) error {
	if wantsJSONBody(r) {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return badRequest(fmt.Sprintf("invalid JSON body: %v", err))
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return badRequest(fmt.Sprintf("invalid form: %v", err))
	}
	if fromForm != nil {
		fromForm(r.PostForm.Get)
	}
	return nil
}

func wantsJSONBody(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

type intakeRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleIntake(r *http.Request, c *app.Controller) error {
	var req intakeRequest
	if err := decode(r, &req, func(get func(string) string) { req.URL = get("url") }); err != nil {
		return err
	}
	return s.startFlow(r, c, func(ctx context.Context) error {
		return c.SubmitURL(ctx, req.URL)
	})
}

type inputRequest struct {
	Value string `json:"value"`
}

func (s *Server) handleInput(r *http.Request, c *app.Controller) error {
	var req inputRequest
	if err := decode(r, &req, func(get func(string) string) { req.Value = get("url") }); err != nil {
		return err
	}
	c.UpdateInput(req.Value)
	return nil
}

// pasteRequest carries what the browser read from the clipboard. A non-empty
// Error means the read itself failed.
type pasteRequest struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handlePaste(r *http.Request, c *app.Controller) error {
	var req pasteRequest
	if err := decode(r, &req, func(get func(string) string) {
		req.Text = get("text")
		req.Error = get("error")
	}); err != nil {
		return err
	}
	reader := app.ClipboardFunc(func(context.Context) (string, error) {
		if req.Error != "" {
			return "", errors.New(req.Error)
		}
		return req.Text, nil
	})
	return c.PasteFromClipboard(r.Context(), reader)
}

func (s *Server) handleExample(r *http.Request, c *app.Controller) error {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		return badRequest("example index must be an integer")
	}
	_, err = c.PickExample(i)
	return err
}

func (s *Server) handleProcess(r *http.Request, c *app.Controller) error {
	opts := shorts.DefaultProcessingOptions()
	if err := decode(r, &opts, func(get func(string) string) {
		opts = shorts.ProcessingOptions{
			AutoCaptions:       get("auto-captions") != "",
			HighlightDetection: get("highlight-detection") != "",
			AutoCrop:           get("auto-crop") != "",
			TrendingHashtags:   get("trending-hashtags") != "",
		}
	}); err != nil {
		return err
	}
	middleware.AddSpanAttributes(r, telemetry.OptionAttributes(map[string]bool{
		"auto_captions":       opts.AutoCaptions,
		"highlight_detection": opts.HighlightDetection,
		"auto_crop":           opts.AutoCrop,
		"trending_hashtags":   opts.TrendingHashtags,
	})...)
	return s.startFlow(r, c, func(ctx context.Context) error {
		return c.Process(ctx, opts)
	})
}

func (s *Server) handleClipAction(r *http.Request, c *app.Controller) error {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return badRequest("clip id must be an integer")
	}
	action := chi.URLParam(r, "action")
	middleware.AddSpanAttributes(r, telemetry.ClipAttributes(id, action)...)

	switch action {
	case "preview":
		return c.Preview(id)
	case "edit":
		return c.Edit(id)
	case "download":
		return s.startFlow(r, c, func(ctx context.Context) error {
			return c.Download(ctx, id)
		})
	default:
		return &requestError{status: http.StatusNotFound, msg: fmt.Sprintf("unknown action %q", action)}
	}
}

func (s *Server) handleThemeToggle(r *http.Request, c *app.Controller) error {
	_, err := c.ToggleTheme(context.WithoutCancel(r.Context()))
	return err
}

func (s *Server) handleDismiss(r *http.Request, c *app.Controller) error {
	c.DismissNotification(chi.URLParam(r, "id"))
	return nil
}

type revealRequest struct {
	Ratio float64 `json:"ratio"`
}

// handleReveal records the first reveal of a landing card. Ratios below the
// threshold and repeated reveals are accepted and ignored.
func (s *Server) handleReveal(r *http.Request, c *app.Controller) error {
	id := chi.URLParam(r, "id")
	var req revealRequest
	if err := decode(r, &req, func(get func(string) string) {
		req.Ratio, _ = strconv.ParseFloat(get("ratio"), 64)
	}); err != nil {
		return err
	}
	tracker := view.RevealFor(c.Snapshot())
	if !tracker.Observed(id) {
		return badRequest(fmt.Sprintf("unknown reveal target %q", id))
	}
	if tracker.Intersect(id, req.Ratio) {
		c.MarkRevealed(id)
	}
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(r.Context())
	logger := xglog.WithComponentFromContext(r.Context(), "api")
	page, err := view.BuildPage(c.Snapshot())
	if err != nil {
		logger.Error().Err(err).Msg("build page")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "render_failed"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.RenderPage(w, page); err != nil {
		logger.Error().Err(err).Msg("render page")
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	c := controllerFrom(r.Context())
	page, err := view.BuildPage(c.Snapshot())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "render_failed", Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, page)
}
