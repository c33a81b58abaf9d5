// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package notify implements the single-slot toast notification center.
//
// At most one notification is live at a time. Each one walks through
// Entering, Visible, Leaving and Removed on timers taken from a Scheduler.
// Showing a new notification replaces the current one synchronously and
// cancels its pending timers.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Severity selects the notification color.
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Info    Severity = "info"
)

// Color returns the background color for s. Unknown severities render as info.
func (s Severity) Color() string {
	switch s {
	case Success:
		return "#10B981"
	case Error:
		return "#EF4444"
	default:
		return "#3B82F6"
	}
}

// Phase is the lifecycle position of a notification.
type Phase int

const (
	Entering Phase = iota
	Visible
	Leaving
	Removed
)

func (p Phase) String() string {
	switch p {
	case Entering:
		return "entering"
	case Visible:
		return "visible"
	case Leaving:
		return "leaving"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Timings controls the lifecycle durations.
type Timings struct {
	EnterDelay   time.Duration // insertion until Visible
	VisibleFor   time.Duration // insertion until auto Leaving
	ExitDuration time.Duration // Leaving until Removed
}

// DefaultTimings matches the page's slide animation.
func DefaultTimings() Timings {
	return Timings{
		EnterDelay:   100 * time.Millisecond,
		VisibleFor:   5 * time.Second,
		ExitDuration: 300 * time.Millisecond,
	}
}

// Notification is a snapshot of the slot.
type Notification struct {
	ID       string    `json:"id"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	Phase    Phase     `json:"phase"`
	ShownAt  time.Time `json:"shownAt"`
}

// Listener receives every phase change, including replacement.
type Listener func(Notification)

// Center owns the notification slot.
type Center struct {
	sched   Scheduler
	timings Timings
	now     func() time.Time

	mu      sync.Mutex
	current *Notification
	timers  []Timer
	closed  bool

	subMu  sync.RWMutex
	subSeq int
	subs   map[int]Listener
}

// Option configures a Center.
type Option func(*Center)

// WithScheduler replaces the real timer scheduler.
func WithScheduler(s Scheduler) Option { return func(c *Center) { c.sched = s } }

// WithTimings overrides DefaultTimings.
func WithTimings(t Timings) Option { return func(c *Center) { c.timings = t } }

// NewCenter creates an empty Center.
func NewCenter(opts ...Option) *Center {
	c := &Center{
		sched:   RealScheduler{},
		timings: DefaultTimings(),
		now:     time.Now,
		subs:    make(map[int]Listener),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Subscribe registers l and returns a function that removes it.
func (c *Center) Subscribe(l Listener) (cancel func()) {
	c.subMu.Lock()
	c.subSeq++
	id := c.subSeq
	c.subs[id] = l
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

// Show replaces the slot with a new notification in the Entering phase.
func (c *Center) Show(message string, sev Severity) Notification {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return Notification{}
	}
	var replaced *Notification
	if c.current != nil {
		old := *c.current
		old.Phase = Removed
		replaced = &old
	}
	c.stopTimersLocked()

	n := Notification{
		ID:       uuid.NewString(),
		Message:  message,
		Severity: sev,
		Phase:    Entering,
		ShownAt:  c.now(),
	}
	// The slot holds its own copy; timers mutate it after n is returned.
	cur := n
	c.current = &cur
	id := n.ID
	c.timers = append(c.timers,
		c.sched.AfterFunc(c.timings.EnterDelay, func() { c.reveal(id) }),
		c.sched.AfterFunc(c.timings.VisibleFor, func() { c.leave(id) }),
	)
	c.mu.Unlock()

	if replaced != nil {
		c.emit(*replaced)
	}
	c.emit(n)
	return n
}

// Dismiss starts the exit of notification id. It reports whether anything
// changed; stale ids and notifications already leaving are ignored.
func (c *Center) Dismiss(id string) bool {
	return c.leave(id)
}

// Current returns the live notification, if any.
func (c *Center) Current() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Notification{}, false
	}
	return *c.current, true
}

// Close cancels pending timers and drops subscribers.
func (c *Center) Close() {
	c.mu.Lock()
	c.closed = true
	c.stopTimersLocked()
	c.current = nil
	c.mu.Unlock()

	c.subMu.Lock()
	c.subs = make(map[int]Listener)
	c.subMu.Unlock()
}

func (c *Center) reveal(id string) {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id || c.current.Phase != Entering {
		c.mu.Unlock()
		return
	}
	c.current.Phase = Visible
	n := *c.current
	c.mu.Unlock()
	c.emit(n)
}

func (c *Center) leave(id string) bool {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id || c.current.Phase >= Leaving {
		c.mu.Unlock()
		return false
	}
	c.stopTimersLocked()
	c.current.Phase = Leaving
	n := *c.current
	c.timers = append(c.timers, c.sched.AfterFunc(c.timings.ExitDuration, func() { c.remove(id) }))
	c.mu.Unlock()
	c.emit(n)
	return true
}

func (c *Center) remove(id string) {
	c.mu.Lock()
	if c.current == nil || c.current.ID != id || c.current.Phase != Leaving {
		c.mu.Unlock()
		return
	}
	n := *c.current
	n.Phase = Removed
	c.current = nil
	c.timers = nil
	c.mu.Unlock()
	c.emit(n)
}

func (c *Center) stopTimersLocked() {
	for _, t := range c.timers {
		t.Stop()
	}
	c.timers = nil
}

func (c *Center) emit(n Notification) {
	c.subMu.RLock()
	ls := make([]Listener, 0, len(c.subs))
	for _, l := range c.subs {
		ls = append(ls, l)
	}
	c.subMu.RUnlock()
	for _, l := range ls {
		l(n)
	}
}
