package cursor

import (
	"testing"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []event.GameEvent
}

func (r *recorder) Push(ev event.GameEvent) { r.events = append(r.events, ev) }

func (r *recorder) ofType(t event.EventType) []*event.CursorPayload {
	var out []*event.CursorPayload
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev.Payload.(*event.CursorPayload))
		}
	}
	return out
}

func newTracker() (*Tracker, *core.ManualClock, *recorder, *status.Registry) {
	clock := core.NewManualClock(time.Unix(1000, 0))
	rec := &recorder{}
	reg := status.NewRegistry()
	return NewTracker(DefaultConfig(), clock, rec, reg), clock, rec, reg
}

// TestThrottleLatestWins checks one broadcast per window carrying the newest accepted sample
func TestThrottleLatestWins(t *testing.T) {
	tr, clock, rec, reg := newTracker()

	assert.True(t, tr.Move(1, 1, "mouse"))
	for i := 2; i <= 5; i++ {
		clock.Advance(3 * time.Millisecond)
		assert.False(t, tr.Move(float64(i), float64(i), "mouse"))
	}
	updates := rec.ofType(event.EventCursorUpdate)
	require.Len(t, updates, 1)
	assert.Equal(t, 1.0, updates[0].X)

	clock.Advance(4 * time.Millisecond) // 16ms since first accept
	assert.True(t, tr.Move(9, 9, "mouse"))
	updates = rec.ofType(event.EventCursorUpdate)
	require.Len(t, updates, 2)
	assert.Equal(t, 9.0, updates[1].X, "emitted position is the latest sample, not an average")

	assert.Equal(t, int64(2), reg.Ints.Get("cursor.accepted").Load())
	assert.Equal(t, int64(4), reg.Ints.Get("cursor.dropped").Load())
}

func TestDownIgnoresThrottle(t *testing.T) {
	tr, clock, rec, _ := newTracker()

	tr.Move(1, 1, "mouse")
	clock.Advance(time.Millisecond)
	tr.Down(40, 50, "touch")

	require.Len(t, rec.events, 3)
	assert.Equal(t, event.EventCursorTap, rec.events[1].Type)
	assert.Equal(t, event.EventCursorUpdate, rec.events[2].Type)

	s := tr.State()
	assert.Equal(t, 40.0, s.X)
	assert.Equal(t, "touch", s.PointerType)
	assert.True(t, s.IsActive)
	assert.Equal(t, clock.Now(), s.LastTap)
}

func TestLeaveDeactivatesAndBroadcasts(t *testing.T) {
	tr, _, rec, _ := newTracker()
	tr.Move(5, 5, "mouse")
	tr.Leave()

	updates := rec.ofType(event.EventCursorUpdate)
	require.Len(t, updates, 2)
	assert.False(t, updates[1].IsActive)
	assert.False(t, tr.State().IsActive)
	assert.Equal(t, 5.0, tr.State().X)
}

func TestStartStopFeed(t *testing.T) {
	tr, _, rec, _ := newTracker()
	feed := NewBroadcaster()

	tr.Start(feed)
	assert.Equal(t, 1, feed.Listeners())
	feed.Emit(PointerEvent{Kind: KindMove, X: 3, Y: 4, PointerType: "pen"})
	assert.Equal(t, 3.0, tr.State().X)

	tr.Stop()
	assert.Zero(t, feed.Listeners())
	feed.Emit(PointerEvent{Kind: KindDown, X: 8, Y: 8})
	assert.Len(t, rec.events, 1)
}
