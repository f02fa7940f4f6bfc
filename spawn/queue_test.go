package spawn

import (
	"bytes"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/scheduler"
	"github.com/lixenwraith/algebra-worms/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	kind string
	data any
}

func newQueue() (*Queue, *scheduler.Manual, *bytes.Buffer) {
	sched := scheduler.NewManual(core.NewManualClock(time.Unix(0, 0)))
	var buf bytes.Buffer
	q := NewQueue(DefaultConfig(), sched, log.New(&buf, "", 0), status.NewRegistry())
	return q, sched, &buf
}

// TestQueueDrainsOnePerFrameInOrder: two queued spawns never run in the same turn
func TestQueueDrainsOnePerFrameInOrder(t *testing.T) {
	q, sched, _ := newQueue()
	var calls []call
	cb := func(kind string, data any) error {
		calls = append(calls, call{kind, data})
		return nil
	}

	q.QueueSpawn("basic", map[string]any{})
	q.QueueSpawn("purple", 2)
	q.ProcessQueue(cb)
	assert.Empty(t, calls, "nothing runs synchronously")
	assert.True(t, q.Status().Processing)

	sched.Frame()
	require.Len(t, calls, 1)
	assert.Equal(t, "basic", calls[0].kind)
	assert.Equal(t, map[string]any{}, calls[0].data)

	// Second entry waits for the delay and then another frame
	sched.Frame()
	assert.Len(t, calls, 1)
	sched.Advance(49 * time.Millisecond)
	sched.Frame()
	assert.Len(t, calls, 1)

	sched.Advance(time.Millisecond)
	assert.Len(t, calls, 1)
	sched.Frame()
	require.Len(t, calls, 2)
	assert.Equal(t, "purple", calls[1].kind)

	assert.Equal(t, Status{Depth: 0, Processing: false}, q.Status())
}

func TestProcessQueueReentrantNoop(t *testing.T) {
	q, sched, _ := newQueue()
	n := 0
	cb := func(string, any) error { n++; return nil }

	q.QueueSpawn("basic", nil)
	q.QueueSpawn("basic", nil)
	q.ProcessQueue(cb)
	q.ProcessQueue(cb)
	q.ProcessQueue(cb)
	assert.Equal(t, 1, sched.PendingFrames())

	sched.Frame()
	assert.Equal(t, 1, n)
	q.ProcessQueue(cb) // still inside the delay
	assert.Zero(t, sched.PendingFrames())
}

func TestProcessQueueSurvivesFailures(t *testing.T) {
	q, sched, buf := newQueue()
	var seen []string
	cb := func(kind string, _ any) error {
		seen = append(seen, kind)
		switch kind {
		case "panic":
			panic("bad spawn")
		case "error":
			return errors.New("no slot")
		}
		return nil
	}

	q.QueueSpawn("panic", nil)
	q.QueueSpawn("error", nil)
	q.QueueSpawn("ok", nil)
	q.ProcessQueue(cb)
	for range 3 {
		sched.Frame()
		sched.Advance(50 * time.Millisecond)
	}

	assert.Equal(t, []string{"panic", "error", "ok"}, seen)
	assert.Contains(t, buf.String(), "bad spawn")
	assert.Contains(t, buf.String(), "no slot")
}

func TestClearQueueCancelsPending(t *testing.T) {
	q, sched, _ := newQueue()
	n := 0
	cb := func(string, any) error { n++; return nil }

	q.QueueSpawn("a", nil)
	q.QueueSpawn("b", nil)
	q.QueueSpawn("c", nil)
	q.ProcessQueue(cb)
	sched.Frame()
	require.Equal(t, 1, n)
	require.Equal(t, 1, sched.PendingTimers())

	q.ClearQueue()
	assert.Zero(t, sched.PendingTimers())
	assert.Equal(t, Status{}, q.Status())

	sched.Advance(time.Second)
	sched.Frame()
	assert.Equal(t, 1, n)

	// Usable again after a clear
	q.QueueSpawn("d", nil)
	q.ProcessQueue(cb)
	sched.Frame()
	assert.Equal(t, 2, n)
}

func TestCanSpawn(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWorms = 2
	q := NewQueue(cfg, scheduler.NewManual(core.NewManualClock(time.Unix(0, 0))), log.New(io.Discard, "", 0), status.NewRegistry())
	assert.True(t, q.CanSpawn(1))
	assert.False(t, q.CanSpawn(2))
	assert.ErrorIs(t, q.CheckCapacity(3), ErrCapacity)
}
