// SPDX-License-Identifier: MIT

// Package metrics exposes the Prometheus business metrics of shortify.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flow outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // validation failure
	OutcomeFailed   = "failed"   // port or render failure
	OutcomeBusy     = "busy"
)

var (
	flowsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_flows_total",
		Help: "User flows by name and outcome",
	}, []string{"flow", "outcome"})

	flowDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shortify_flow_duration_seconds",
		Help:    "Wall time of completed flows, including simulated delays",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 3, 4, 5, 8},
	}, []string{"flow"})

	clipsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortify_clips_generated_total",
		Help: "Short clips returned by the generator",
	})

	clipActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_clip_actions_total",
		Help: "Preview, edit and download actions on clips",
	}, []string{"action"})

	notificationsShown = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_notifications_total",
		Help: "Notifications shown by severity",
	}, []string{"severity"})

	themeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_theme_toggles_total",
		Help: "Theme toggles by resulting theme",
	}, []string{"theme"})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shortify_active_sessions",
		Help: "Live session controllers",
	})

	metadataCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_metadata_cache_total",
		Help: "Video metadata cache lookups by result",
	}, []string{"result"}) // result=hit|miss
)

// ObserveFlow counts a finished flow. Durations are only observed for flows
// that actually ran.
func ObserveFlow(flow, outcome string, d time.Duration) {
	flowsTotal.WithLabelValues(flow, outcome).Inc()
	if outcome == OutcomeSuccess || outcome == OutcomeFailed {
		flowDuration.WithLabelValues(flow).Observe(d.Seconds())
	}
}

// FlowsCounter returns the counter behind ObserveFlow for one label pair.
func FlowsCounter(flow, outcome string) prometheus.Counter {
	return flowsTotal.WithLabelValues(flow, outcome)
}

func AddClipsGenerated(n int)         { clipsGenerated.Add(float64(n)) }
func IncClipAction(action string)     { clipActions.WithLabelValues(action).Inc() }
func IncNotification(severity string) { notificationsShown.WithLabelValues(severity).Inc() }
func IncThemeToggle(theme string)     { themeToggles.WithLabelValues(theme).Inc() }
func SetActiveSessions(n int)         { activeSessions.Set(float64(n)) }

func IncMetadataCache(hit bool) {
	if hit {
		metadataCache.WithLabelValues("hit").Inc()
		return
	}
	metadataCache.WithLabelValues("miss").Inc()
}
