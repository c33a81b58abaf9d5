// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PushDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shortify_push_dropped_total",
		Help: "Fragment push messages dropped by reason",
	}, []string{"reason"})

	pushConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shortify_push_connections",
		Help: "Open WebSocket push connections",
	})
)

// IncPushDrop records a dropped push message.
func IncPushDrop(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	PushDroppedTotal.WithLabelValues(reason).Inc()
}

func IncPushConnections() { pushConnections.Inc() }
func DecPushConnections() { pushConnections.Dec() }
