// SPDX-License-Identifier: MIT

// Package ratelimit throttles user commands per session and globally.
package ratelimit

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/time/rate"
)

var rateLimitExceeded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "shortify",
		Name:      "ratelimit_exceeded_total",
		Help:      "Total rate limit rejections",
	},
	[]string{"limit_type", "class"},
)

// Command classes.
const (
	ClassFlow        = "flow"        // intake, process, download
	ClassInteraction = "interaction" // input, paste, theme, dismiss, preview, edit
)

// Config holds rate limiting configuration.
type Config struct {
	GlobalRate  rate.Limit
	GlobalBurst int

	PerSessionRate  rate.Limit
	PerSessionBurst int

	// ClassRates further limit each session per command class.
	ClassRates map[string]rate.Limit
	ClassBurst map[string]int

	// IdleTTL drops limiters of sessions not seen for this long.
	IdleTTL time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		GlobalRate:  200,
		GlobalBurst: 400,

		PerSessionRate:  10,
		PerSessionBurst: 20,

		ClassRates: map[string]rate.Limit{
			ClassFlow:        2,
			ClassInteraction: 10,
		},
		ClassBurst: map[string]int{
			ClassFlow:        5,
			ClassInteraction: 20,
		},

		IdleTTL: 30 * time.Minute,
	}
}

type sessionLimiters struct {
	all      *rate.Limiter
	classes  map[string]*rate.Limiter
	lastSeen time.Time
}

// Limiter manages command rate limits.
type Limiter struct {
	config Config
	now    func() time.Time

	global *rate.Limiter

	mu          sync.Mutex
	sessions    map[string]*sessionLimiters
	lastCleanup time.Time
}

// New creates a new rate limiter with the given config.
func New(config Config) *Limiter {
	return &Limiter{
		config:      config,
		now:         time.Now,
		global:      rate.NewLimiter(config.GlobalRate, config.GlobalBurst),
		sessions:    make(map[string]*sessionLimiters),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether session may run a command of class now.
func (l *Limiter) Allow(session, class string) bool {
	if !l.global.Allow() {
		rateLimitExceeded.WithLabelValues("global", class).Inc()
		return false
	}

	s := l.session(session)
	if !s.all.Allow() {
		rateLimitExceeded.WithLabelValues("per_session", class).Inc()
		return false
	}
	if cl, ok := s.classes[class]; ok && !cl.Allow() {
		rateLimitExceeded.WithLabelValues("per_class", class).Inc()
		return false
	}

	l.maybeCleanup()
	return true
}

// Sessions returns the number of tracked sessions.
func (l *Limiter) Sessions() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Limiter) session(id string) *sessionLimiters {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.sessions[id]
	if !ok {
		s = &sessionLimiters{
			all:     rate.NewLimiter(l.config.PerSessionRate, l.config.PerSessionBurst),
			classes: make(map[string]*rate.Limiter, len(l.config.ClassRates)),
		}
		for class, r := range l.config.ClassRates {
			s.classes[class] = rate.NewLimiter(r, l.config.ClassBurst[class])
		}
		l.sessions[id] = s
	}
	s.lastSeen = l.now()
	return s
}

// maybeCleanup drops idle session limiters at most once per IdleTTL.
func (l *Limiter) maybeCleanup() {
	if l.config.IdleTTL <= 0 {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) < l.config.IdleTTL {
		return
	}
	for id, s := range l.sessions {
		if now.Sub(s.lastSeen) >= l.config.IdleTTL {
			delete(l.sessions, id)
		}
	}
	l.lastCleanup = now
}
