// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recorder struct {
	mu     sync.Mutex
	events []Notification
}

func (r *recorder) listen(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, n)
}

func (r *recorder) phases() []Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Phase, len(r.events))
	for i, e := range r.events {
		out[i] = e.Phase
	}
	return out
}

func newTestCenter(t *testing.T) (*Center, *ManualScheduler, *recorder) {
	t.Helper()
	sched := NewManualScheduler()
	c := NewCenter(WithScheduler(sched))
	rec := &recorder{}
	c.Subscribe(rec.listen)
	t.Cleanup(c.Close)
	return c, sched, rec
}

func TestSeverityColor(t *testing.T) {
	assert.Equal(t, "#10B981", Success.Color())
	assert.Equal(t, "#EF4444", Error.Color())
	assert.Equal(t, "#3B82F6", Info.Color())
	assert.Equal(t, "#3B82F6", Severity("other").Color())
}

func TestLifecycle_AutoDismiss(t *testing.T) {
	c, sched, rec := newTestCenter(t)

	n := c.Show("hello", Info)
	assert.Equal(t, Entering, n.Phase)
	assert.NotEmpty(t, n.ID)

	sched.Advance(99 * time.Millisecond)
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, Entering, cur.Phase)

	sched.Advance(time.Millisecond)
	cur, _ = c.Current()
	assert.Equal(t, Visible, cur.Phase)

	sched.Advance(5*time.Second - 100*time.Millisecond)
	cur, _ = c.Current()
	assert.Equal(t, Leaving, cur.Phase)

	sched.Advance(299 * time.Millisecond)
	_, ok = c.Current()
	assert.True(t, ok)

	sched.Advance(time.Millisecond)
	_, ok = c.Current()
	assert.False(t, ok)

	assert.Equal(t, []Phase{Entering, Visible, Leaving, Removed}, rec.phases())
	assert.Zero(t, sched.Pending())
}

func TestDismiss(t *testing.T) {
	c, sched, _ := newTestCenter(t)
	n := c.Show("x", Success)
	sched.Advance(time.Second)

	assert.True(t, c.Dismiss(n.ID))
	assert.False(t, c.Dismiss(n.ID), "second dismiss is a no-op")

	sched.Advance(300 * time.Millisecond)
	_, ok := c.Current()
	assert.False(t, ok)
	assert.False(t, c.Dismiss(n.ID), "dismiss after removal is a no-op")
}

func TestDismiss_BeforeVisible(t *testing.T) {
	c, sched, rec := newTestCenter(t)
	n := c.Show("x", Error)
	require.True(t, c.Dismiss(n.ID))

	// the pending reveal timer was cancelled
	sched.Advance(10 * time.Second)
	assert.Equal(t, []Phase{Entering, Leaving, Removed}, rec.phases())
}

func TestShow_ReplacesAtomically(t *testing.T) {
	c, sched, rec := newTestCenter(t)
	first := c.Show("first", Info)
	sched.Advance(4 * time.Second)

	second := c.Show("second", Success)
	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)

	// the first notification's 5s timer must not touch the second
	sched.Advance(2 * time.Second)
	cur, ok = c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)
	assert.Equal(t, Visible, cur.Phase)

	// a stale dismiss never removes the newer notification
	assert.False(t, c.Dismiss(first.ID))
	cur, _ = c.Current()
	assert.Equal(t, Visible, cur.Phase)

	sched.Advance(3*time.Second + 300*time.Millisecond)
	_, ok = c.Current()
	assert.False(t, ok)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, first.ID, rec.events[2].ID)
	assert.Equal(t, Removed, rec.events[2].Phase)
}

func TestShow_DuringLeaving(t *testing.T) {
	c, sched, _ := newTestCenter(t)
	first := c.Show("first", Info)
	c.Dismiss(first.ID)
	sched.Advance(100 * time.Millisecond)

	second := c.Show("second", Info)
	sched.Advance(250 * time.Millisecond)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, second.ID, cur.ID)
}

func TestSubscribe_Cancel(t *testing.T) {
	c := NewCenter(WithScheduler(NewManualScheduler()))
	defer c.Close()
	rec := &recorder{}
	cancel := c.Subscribe(rec.listen)
	c.Show("a", Info)
	cancel()
	cancel()
	c.Show("b", Info)
	assert.Len(t, rec.phases(), 1)
}

func TestRealScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCenter(WithTimings(Timings{
		EnterDelay:   time.Millisecond,
		VisibleFor:   5 * time.Millisecond,
		ExitDuration: time.Millisecond,
	}))
	removed := make(chan struct{})
	c.Subscribe(func(n Notification) {
		if n.Phase == Removed {
			close(removed)
		}
	})
	c.Show("real", Success)

	select {
	case <-removed:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not removed")
	}
	c.Close()
}

func TestClose_StopsTimers(t *testing.T) {
	sched := NewManualScheduler()
	c := NewCenter(WithScheduler(sched))
	c.Show("a", Info)
	c.Close()
	assert.Zero(t, sched.Pending())

	n := c.Show("b", Info)
	assert.Empty(t, n.ID)
}

func TestShow_ReturnsSnapshotWhileTimersRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := NewCenter(WithTimings(Timings{
		EnterDelay:   time.Microsecond,
		VisibleFor:   2 * time.Microsecond,
		ExitDuration: time.Microsecond,
	}))
	defer c.Close()

	for i := 0; i < 200; i++ {
		n := c.Show("burst", Info)
		require.Equal(t, Entering, n.Phase)
		require.NotEmpty(t, n.ID)
	}
}
