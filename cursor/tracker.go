// Package cursor tracks the player's pointer for evasion and power-up targeting
package cursor

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/status"
)

// State is the single overwritten pointer record
type State struct {
	X, Y        float64
	IsActive    bool
	PointerType string
	LastUpdate  time.Time
	LastTap     time.Time
}

// Config holds tracker tuning
type Config struct {
	Throttle time.Duration `yaml:"throttle" json:"throttle"`
}

// DefaultConfig returns the ~60Hz ceiling
func DefaultConfig() Config {
	return Config{Throttle: parameter.CursorThrottle}
}

// Tracker keeps the last accepted pointer state and broadcasts updates
// HandlePointer may be called from any goroutine; State reads are consistent snapshots
type Tracker struct {
	mu    sync.RWMutex
	state State

	cfg   Config
	clock core.Clock
	out   event.Publisher

	unsubscribe func()

	statAccepted *atomic.Int64
	statDropped  *atomic.Int64
	statTaps     *atomic.Int64
}

// NewTracker creates a detached tracker; out and reg may be nil
func NewTracker(cfg Config, clock core.Clock, out event.Publisher, reg *status.Registry) *Tracker {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Tracker{
		cfg:          cfg,
		clock:        clock,
		out:          out,
		statAccepted: reg.Ints.Get("cursor.accepted"),
		statDropped:  reg.Ints.Get("cursor.dropped"),
		statTaps:     reg.Ints.Get("cursor.taps"),
	}
}

// Start attaches to feed, replacing any previous attachment
func (t *Tracker) Start(feed Feed) {
	t.Stop()
	unsub := feed.Subscribe(t.HandlePointer)
	t.mu.Lock()
	t.unsubscribe = unsub
	t.mu.Unlock()
}

// Stop detaches from the feed, state is retained
func (t *Tracker) Stop() {
	t.mu.Lock()
	unsub := t.unsubscribe
	t.unsubscribe = nil
	t.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// HandlePointer routes a raw event by kind
func (t *Tracker) HandlePointer(ev PointerEvent) {
	switch ev.Kind {
	case KindMove:
		t.Move(ev.X, ev.Y, ev.PointerType)
	case KindDown:
		t.Down(ev.X, ev.Y, ev.PointerType)
	case KindLeave:
		t.Leave()
	}
}

// Move accepts the sample only once Throttle has passed since the last accepted update
// Rejected samples are dropped; the next accepted one carries the newest position
func (t *Tracker) Move(x, y float64, pointerType string) bool {
	now := t.clock.Now()

	t.mu.Lock()
	if !t.state.LastUpdate.IsZero() && now.Sub(t.state.LastUpdate) < t.cfg.Throttle {
		t.mu.Unlock()
		t.statDropped.Add(1)
		return false
	}
	t.state.X, t.state.Y = x, y
	t.state.PointerType = pointerType
	t.state.IsActive = true
	t.state.LastUpdate = now
	snap := t.state
	t.mu.Unlock()

	t.statAccepted.Add(1)
	t.publishUpdate(snap)
	return true
}

// Down is never throttled and emits a tap followed by an update
func (t *Tracker) Down(x, y float64, pointerType string) {
	now := t.clock.Now()

	t.mu.Lock()
	t.state.X, t.state.Y = x, y
	t.state.PointerType = pointerType
	t.state.IsActive = true
	t.state.LastUpdate = now
	t.state.LastTap = now
	snap := t.state
	t.mu.Unlock()

	t.statTaps.Add(1)
	if t.out != nil {
		t.out.Push(event.GameEvent{Type: event.EventCursorTap, Payload: payload(snap)})
	}
	t.publishUpdate(snap)
}

// Leave marks the pointer inactive and broadcasts the change
func (t *Tracker) Leave() {
	t.mu.Lock()
	t.state.IsActive = false
	snap := t.state
	t.mu.Unlock()

	t.publishUpdate(snap)
}

// State returns a copy of the current record
func (t *Tracker) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Tracker) publishUpdate(s State) {
	if t.out != nil {
		t.out.Push(event.GameEvent{Type: event.EventCursorUpdate, Payload: payload(s)})
	}
}

func payload(s State) *event.CursorPayload {
	return &event.CursorPayload{X: s.X, Y: s.Y, IsActive: s.IsActive, PointerType: s.PointerType}
}
