// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/shortify/internal/log"
	"github.com/ManuGH/shortify/internal/metrics"
)

// Factory builds the controller for a new session.
type Factory func(ctx context.Context, clientID string) *Controller

// Registry maps client IDs to their controllers and evicts idle sessions.
type Registry struct {
	factory Factory
	idle    time.Duration
	now     func() time.Time
	logger  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*Controller
}

// NewRegistry creates a Registry. idle <= 0 disables eviction.
func NewRegistry(factory Factory, idle time.Duration) *Registry {
	return &Registry{
		factory:  factory,
		idle:     idle,
		now:      time.Now,
		logger:   xglog.WithComponent("sessions"),
		sessions: make(map[string]*Controller),
	}
}

// Get returns the controller for clientID, creating it on first use.
func (r *Registry) Get(ctx context.Context, clientID string) *Controller {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions[clientID]; ok {
		return c
	}
	c := r.factory(ctx, clientID)
	r.sessions[clientID] = c
	metrics.SetActiveSessions(len(r.sessions))
	r.logger.Debug().
		Str(xglog.FieldClientID, clientID).
		Str(xglog.FieldEvent, "session.created").
		Msg("session created")
	return c
}

// Lookup returns an existing controller without creating one.
func (r *Registry) Lookup(clientID string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.sessions[clientID]
	return c, ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than the idle timeout. Sessions with
// a running flow or an open push connection are kept. It returns the number
// evicted.
func (r *Registry) Sweep() int {
	if r.idle <= 0 {
		return 0
	}
	now := r.now()

	r.mu.Lock()
	var evicted []*Controller
	for id, c := range r.sessions {
		if now.Sub(c.LastActive()) < r.idle || c.Snapshot().Busy() || c.Subscribers() > 0 {
			continue
		}
		delete(r.sessions, id)
		evicted = append(evicted, c)
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	if len(evicted) > 0 {
		metrics.SetActiveSessions(n)
		r.logger.Info().
			Int(xglog.FieldCount, len(evicted)).
			Str(xglog.FieldEvent, "session.evicted").
			Msg("idle sessions evicted")
	}
	return len(evicted)
}

// Run sweeps every interval until ctx is done, then closes all sessions.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Close()
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close closes every session.
func (r *Registry) Close() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Controller)
	r.mu.Unlock()

	for _, c := range all {
		c.Close()
	}
	metrics.SetActiveSessions(0)
}
