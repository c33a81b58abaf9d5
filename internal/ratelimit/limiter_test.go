// SPDX-License-Identifier: MIT

package ratelimit

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func countAllowed(l *Limiter, session, class string, n int) int {
	allowed := 0
	for i := 0; i < n; i++ {
		if l.Allow(session, class) {
			allowed++
		}
	}
	return allowed
}

func TestLimiter_Global(t *testing.T) {
	l := New(Config{
		GlobalRate:      10,
		GlobalBurst:     20,
		PerSessionRate:  100,
		PerSessionBurst: 200,
	})

	allowed := countAllowed(l, "s1", ClassInteraction, 25)
	assert.InDelta(t, 20, allowed, 1)
}

func TestLimiter_PerClass(t *testing.T) {
	l := New(Config{
		GlobalRate:      100,
		GlobalBurst:     200,
		PerSessionRate:  100,
		PerSessionBurst: 200,
		ClassRates:      map[string]rate.Limit{ClassFlow: 1},
		ClassBurst:      map[string]int{ClassFlow: 3},
	})

	before := testutil.ToFloat64(rateLimitExceeded.WithLabelValues("per_class", ClassFlow))
	assert.InDelta(t, 3, countAllowed(l, "s1", ClassFlow, 10), 1)
	assert.Greater(t, testutil.ToFloat64(rateLimitExceeded.WithLabelValues("per_class", ClassFlow)), before)

	// interactions are not affected by the flow budget
	assert.Equal(t, 10, countAllowed(l, "s1", ClassInteraction, 10))
}

func TestLimiter_SessionsAreIndependent(t *testing.T) {
	l := New(Config{
		GlobalRate:      1000,
		GlobalBurst:     1000,
		PerSessionRate:  1,
		PerSessionBurst: 5,
	})

	assert.InDelta(t, 5, countAllowed(l, "a", ClassInteraction, 10), 1)
	assert.InDelta(t, 5, countAllowed(l, "b", ClassInteraction, 10), 1)
	assert.Equal(t, 2, l.Sessions())
}

func TestLimiter_IdleCleanup(t *testing.T) {
	now := time.Unix(1000, 0)
	l := New(Config{
		GlobalRate:      1000,
		GlobalBurst:     1000,
		PerSessionRate:  1000,
		PerSessionBurst: 1000,
		IdleTTL:         time.Minute,
	})
	l.now = func() time.Time { return now }
	l.lastCleanup = now

	l.Allow("old", ClassFlow)
	now = now.Add(2 * time.Minute)
	l.Allow("new", ClassFlow)

	assert.Equal(t, 1, l.Sessions())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Less(t, float64(cfg.ClassRates[ClassFlow]), float64(cfg.ClassRates[ClassInteraction]))
	assert.Positive(t, cfg.IdleTTL)
}
