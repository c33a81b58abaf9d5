// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package app holds the per-session controller that owns all UI state and
// runs the intake, generation and download flows.
//
// A Controller is safe for concurrent use. Flows are mutually exclusive: while
// one is loading, starting another returns ErrBusy. Every state change bumps
// the snapshot version and notifies subscribers with the regions to re-render.
package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/metrics"
	"github.com/ManuGH/shortify/internal/notify"
	"github.com/ManuGH/shortify/internal/prefs"
	"github.com/ManuGH/shortify/internal/shorts"
	"github.com/ManuGH/shortify/internal/theme"
	"github.com/ManuGH/shortify/internal/youtube"
)

// DefaultDownloadDelay is the simulated download preparation time.
const DefaultDownloadDelay = 2 * time.Second

// ClipboardReader yields the text the browser read from the clipboard.
type ClipboardReader interface {
	ReadText(ctx context.Context) (string, error)
}

// ClipboardFunc adapts a function to ClipboardReader.
type ClipboardFunc func(ctx context.Context) (string, error)

func (f ClipboardFunc) ReadText(ctx context.Context) (string, error) { return f(ctx) }

// Deps are the collaborators of a Controller.
type Deps struct {
	Fetcher       shorts.MetadataFetcher
	Generator     shorts.ShortsGenerator
	Delayer       shorts.Delayer
	DownloadDelay time.Duration
	Themes        *theme.Service
	Scheduler     notify.Scheduler
	NotifyTimings notify.Timings
	Now           func() time.Time
}

func (d *Deps) withDefaults() {
	if d.Fetcher == nil {
		d.Fetcher = shorts.NewMockFetcher(shorts.DefaultFetchDelay)
	}
	if d.Generator == nil {
		d.Generator = shorts.NewMockGenerator(shorts.DefaultGenerateDelay)
	}
	if d.Delayer == nil {
		d.Delayer = shorts.TimerDelay
	}
	if d.Themes == nil {
		d.Themes = theme.NewService(prefs.NewMemoryStore())
	}
	if d.Scheduler == nil {
		d.Scheduler = notify.RealScheduler{}
	}
	if d.NotifyTimings == (notify.Timings{}) {
		d.NotifyTimings = notify.DefaultTimings()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
}

// Controller is the state owner of one browser session.
type Controller struct {
	clientID string
	deps     Deps
	logger   zerolog.Logger
	notes    *notify.Center
	unsub    func()

	mu         sync.Mutex
	state      State
	closed     bool
	done       chan struct{}
	lastActive time.Time

	// serializes theme toggles so two clicks flip twice
	themeMu sync.Mutex

	subMu  sync.RWMutex
	subSeq int
	subs   map[int]func(Event)
}

// New creates the controller for clientID and loads its persisted theme.
func New(ctx context.Context, clientID string, deps Deps) *Controller {
	deps.withDefaults()

	c := &Controller{
		clientID: clientID,
		deps:     deps,
		logger:   xglog.WithComponent("session").With().Str(xglog.FieldClientID, clientID).Logger(),
		subs:     make(map[int]func(Event)),
		done:     make(chan struct{}),
		state: State{
			ClientID: clientID,
			Phase:    PhaseIdle,
			Input:    youtube.InputState{Valid: true},
			Options:  shorts.DefaultProcessingOptions(),
			Theme:    deps.Themes.Load(ctx, clientID),
		},
		lastActive: deps.Now(),
	}
	c.notes = notify.NewCenter(
		notify.WithScheduler(deps.Scheduler),
		notify.WithTimings(deps.NotifyTimings),
	)
	c.unsub = c.notes.Subscribe(func(notify.Notification) {
		c.update(nil, RegionNotification)
	})
	return c
}

// ClientID returns the session key.
func (c *Controller) ClientID() string { return c.clientID }

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	s := c.state.clone()
	c.mu.Unlock()

	if n, ok := c.notes.Current(); ok {
		s.Notification = &n
	}
	return s
}

// Subscribe registers fn for change events and returns its cancel function.
// fn runs on the goroutine that made the change and must not block.
func (c *Controller) Subscribe(fn func(Event)) (cancel func()) {
	c.subMu.Lock()
	c.subSeq++
	id := c.subSeq
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

// Subscribers returns the number of live change listeners.
func (c *Controller) Subscribers() int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subs)
}

// Done is closed once the controller is closed.
func (c *Controller) Done() <-chan struct{} { return c.done }

// LastActive returns when the session last received a command.
func (c *Controller) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}

// Close stops notification timers and drops subscribers.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()

	c.unsub()
	c.notes.Close()

	c.subMu.Lock()
	c.subs = make(map[int]func(Event))
	c.subMu.Unlock()
}

// DismissNotification starts the exit of notification id. Stale ids are ignored.
func (c *Controller) DismissNotification(id string) bool {
	c.touch()
	return c.notes.Dismiss(id)
}

// MarkRevealed records that landing card id has been revealed. Reveals are
// one-shot, so it reports false when id was already recorded.
func (c *Controller) MarkRevealed(id string) bool {
	c.mu.Lock()
	if c.closed || slices.Contains(c.state.Revealed, id) {
		c.mu.Unlock()
		return false
	}
	c.state.Revealed = append(c.state.Revealed, id)
	c.mu.Unlock()
	return true
}

// UpdateInput stores the URL field value and its inline validity.
func (c *Controller) UpdateInput(raw string) youtube.InputState {
	c.touch()
	st := youtube.CheckInput(raw)
	c.update(func(s *State) { s.Input = st }, RegionURLInput)
	return st
}

// PickExample pre-fills the URL field with example i.
func (c *Controller) PickExample(i int) (youtube.Example, error) {
	c.touch()
	ex, ok := youtube.ExampleAt(i)
	if !ok {
		c.toast(msgExampleNotFound, notify.Error)
		return youtube.Example{}, &ValidationError{Field: "example", Message: msgExampleNotFound}
	}
	c.update(func(s *State) {
		s.Input = youtube.InputState{Value: ex.URL, Valid: true}
	}, RegionURLInput)
	return ex, nil
}

// PasteFromClipboard fills the URL field from the clipboard when it holds an
// accepted URL.
func (c *Controller) PasteFromClipboard(ctx context.Context, r ClipboardReader) error {
	c.touch()
	logger := xglog.WithRequestContext(ctx, c.logger)

	text, err := r.ReadText(ctx)
	if err != nil {
		logger.Warn().Err(err).Str(xglog.FieldEvent, "clipboard.read_failed").Msg("clipboard read failed")
		c.toast(msgClipboardFailed, notify.Error)
		return &OperationError{Op: "clipboard", Message: msgClipboardFailed, Err: err}
	}
	if !youtube.IsValid(text) {
		c.toast(msgClipboardInvalid, notify.Error)
		return &ValidationError{Field: "clipboard", Message: msgClipboardInvalid}
	}
	c.update(func(s *State) {
		s.Input = youtube.InputState{Value: text, Valid: true}
	}, RegionURLInput)
	c.toast(msgPasted, notify.Success)
	return nil
}

// ToggleTheme persists the flipped theme and applies it only after the write
// succeeded.
func (c *Controller) ToggleTheme(ctx context.Context) (theme.Theme, error) {
	c.touch()
	c.themeMu.Lock()
	defer c.themeMu.Unlock()

	c.mu.Lock()
	current := c.state.Theme
	c.mu.Unlock()

	next, err := c.deps.Themes.Toggle(ctx, c.clientID, current)
	if err != nil {
		logger := xglog.WithRequestContext(ctx, c.logger)
		logger.Error().Err(err).
			Str(xglog.FieldEvent, "theme.persist_failed").
			Msg("theme not saved")
		c.toast(msgThemeSaveFailed, notify.Error)
		return current, &OperationError{Op: "theme", Message: msgThemeSaveFailed, Err: err}
	}
	c.update(func(s *State) { s.Theme = next }, RegionThemeIcon)
	metrics.IncThemeToggle(string(next))
	return next, nil
}

func (c *Controller) toast(message string, sev notify.Severity) {
	c.notes.Show(message, sev)
	metrics.IncNotification(string(sev))
}

func (c *Controller) touch() {
	now := c.deps.Now()
	c.mu.Lock()
	c.lastActive = now
	c.mu.Unlock()
}

// update applies fn under the state lock, bumps the version and notifies
// subscribers. fn may be nil for changes that live outside State.
func (c *Controller) update(fn func(*State), regions ...Region) {
	c.mu.Lock()
	if fn != nil {
		fn(&c.state)
	}
	c.state.Version++
	ev := Event{Version: c.state.Version, Regions: regions}
	c.mu.Unlock()

	c.emit(ev)
}

func (c *Controller) emit(ev Event) {
	c.subMu.RLock()
	fns := make([]func(Event), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
