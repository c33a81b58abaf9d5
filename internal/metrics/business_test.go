// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/shortify/internal/metrics"
)

func TestObserveFlow(t *testing.T) {
	before := testutil.ToFloat64(metrics.FlowsCounter("intake", metrics.OutcomeSuccess))
	metrics.ObserveFlow("intake", metrics.OutcomeSuccess, 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.FlowsCounter("intake", metrics.OutcomeSuccess)))
}

func TestIncPushDrop_DefaultsReason(t *testing.T) {
	before := testutil.ToFloat64(metrics.PushDroppedTotal.WithLabelValues("unknown"))
	metrics.IncPushDrop("")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PushDroppedTotal.WithLabelValues("unknown")))
}

func TestExposition(t *testing.T) {
	metrics.IncNotification("success")
	metrics.IncThemeToggle("light")
	metrics.SetActiveSessions(3)
	metrics.IncMetadataCache(true)
	metrics.IncClipAction("download")
	metrics.AddClipsGenerated(3)

	rec := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()

	for _, name := range []string{
		"shortify_notifications_total",
		"shortify_theme_toggles_total",
		"shortify_active_sessions 3",
		`shortify_metadata_cache_total{result="hit"}`,
		`shortify_clip_actions_total{action="download"}`,
		"shortify_clips_generated_total",
	} {
		assert.Contains(t, body, name)
	}
}

func flowSampleCount(t *testing.T, flow string) uint64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	var mf *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == "shortify_flow_duration_seconds" {
			mf = f
		}
	}
	if mf == nil {
		return 0
	}
	for _, m := range mf.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "flow" && lp.GetValue() == flow {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func TestObserveFlow_DurationOnlyForRunFlows(t *testing.T) {
	before := flowSampleCount(t, "generate")

	metrics.ObserveFlow("generate", metrics.OutcomeBusy, 0)
	metrics.ObserveFlow("generate", metrics.OutcomeRejected, 0)
	assert.Equal(t, before, flowSampleCount(t, "generate"))

	metrics.ObserveFlow("generate", metrics.OutcomeFailed, time.Second)
	metrics.ObserveFlow("generate", metrics.OutcomeSuccess, 4*time.Second)
	assert.Equal(t, before+2, flowSampleCount(t, "generate"))
}
