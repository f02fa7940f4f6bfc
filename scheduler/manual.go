package scheduler

import (
	"sort"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
)

type manualFrame struct {
	fn        func(now time.Time)
	cancelled bool
	done      bool
}

func (f *manualFrame) Cancel() bool {
	if f.done || f.cancelled {
		return false
	}
	f.cancelled = true
	return true
}

type manualTimer struct {
	due       time.Time
	seq       uint64
	fn        func()
	cancelled bool
	done      bool
}

func (t *manualTimer) Cancel() bool {
	if t.done || t.cancelled {
		return false
	}
	t.cancelled = true
	return true
}

// Manual is a deterministic scheduler for tests
// Time only moves through Advance; frames only run through Frame
type Manual struct {
	clock  *core.ManualClock
	frames []*manualFrame
	timers []*manualTimer
	posted []func()
	seq    uint64
}

// NewManual creates a manual scheduler driving the given clock
func NewManual(clock *core.ManualClock) *Manual {
	return &Manual{clock: clock}
}

func (m *Manual) Now() time.Time {
	return m.clock.Now()
}

func (m *Manual) RequestFrame(fn func(now time.Time)) Handle {
	f := &manualFrame{fn: fn}
	m.frames = append(m.frames, f)
	return f
}

func (m *Manual) After(d time.Duration, fn func()) Handle {
	m.seq++
	t := &manualTimer{due: m.clock.Now().Add(d), seq: m.seq, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Post queues fn until RunPosted
func (m *Manual) Post(fn func()) {
	m.posted = append(m.posted, fn)
}

// RunPosted runs posted tasks in order
func (m *Manual) RunPosted() int {
	n := 0
	for len(m.posted) > 0 {
		fn := m.posted[0]
		m.posted = m.posted[1:]
		fn()
		n++
	}
	return n
}

// Frame runs the frame callbacks pending at call time, returns how many ran
func (m *Manual) Frame() int {
	batch := m.frames
	m.frames = nil
	now := m.clock.Now()
	n := 0
	for _, f := range batch {
		if f.cancelled {
			continue
		}
		f.done = true
		f.fn(now)
		n++
	}
	return n
}

// Advance moves time forward by d, firing due timers in deadline order
func (m *Manual) Advance(d time.Duration) {
	target := m.clock.Now().Add(d)
	for {
		t := m.nextDue(target)
		if t == nil {
			break
		}
		m.clock.Set(t.due)
		t.done = true
		t.fn()
	}
	m.clock.Set(target)
}

// Step advances time by d then runs one frame
func (m *Manual) Step(d time.Duration) int {
	m.Advance(d)
	return m.Frame()
}

// PendingFrames counts uncancelled frame requests
func (m *Manual) PendingFrames() int {
	n := 0
	for _, f := range m.frames {
		if !f.cancelled {
			n++
		}
	}
	return n
}

// PendingTimers counts uncancelled, unfired timers
func (m *Manual) PendingTimers() int {
	n := 0
	for _, t := range m.timers {
		if !t.cancelled && !t.done {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(limit time.Time) *manualTimer {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.cancelled && !t.done {
			live = append(live, t)
		}
	}
	m.timers = live
	if len(live) == 0 {
		return nil
	}

	sort.SliceStable(live, func(i, j int) bool {
		if live[i].due.Equal(live[j].due) {
			return live[i].seq < live[j].seq
		}
		return live[i].due.Before(live[j].due)
	})
	if live[0].due.After(limit) {
		return nil
	}
	return live[0]
}
