package engine

import (
	"sync/atomic"

	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/status"
)

type nearMissEntry struct {
	symbolID int
	urgency  int
}

// NearMissTracker emits warnings as worms close in on their targets
// A warning fires on entering the outer radius and on every urgency change;
// a clear fires when the worm leaves, changes target, steals or is removed
type NearMissTracker struct {
	cfg    config.NearMiss
	out    event.Publisher
	active map[string]nearMissEntry

	statActive *atomic.Int64
}

// NewNearMissTracker creates a tracker publishing to out
func NewNearMissTracker(cfg config.NearMiss, out event.Publisher, reg *status.Registry) *NearMissTracker {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &NearMissTracker{
		cfg:        cfg,
		out:        out,
		active:     make(map[string]nearMissEntry),
		statActive: reg.Ints.Get("near_miss.active"),
	}
}

// Urgency maps distance to 0 (none), 1 (approaching), 2 (urgent) or 3 (critical)
func (t *NearMissTracker) Urgency(distance float64) int {
	switch {
	case distance <= t.cfg.CriticalRadius:
		return 3
	case distance <= t.cfg.UrgentRadius:
		return 2
	case distance <= t.cfg.Radius:
		return 1
	default:
		return 0
	}
}

// Observe records the worm's distance to its current target
func (t *NearMissTracker) Observe(wormID string, symbolID int, distance float64) {
	if !t.cfg.Enabled {
		return
	}

	urgency := t.Urgency(distance)
	prev, had := t.active[wormID]

	if urgency == 0 {
		if had {
			t.clear(wormID, prev)
		}
		return
	}
	if had && prev.symbolID != symbolID {
		t.clear(wormID, prev)
		had = false
	}
	if had && prev.urgency == urgency {
		return
	}

	t.active[wormID] = nearMissEntry{symbolID: symbolID, urgency: urgency}
	t.statActive.Store(int64(len(t.active)))
	t.out.Push(event.GameEvent{Type: event.EventNearMissWarning, Payload: &event.NearMissPayload{
		WormID:   wormID,
		SymbolID: symbolID,
		Urgency:  urgency,
		Distance: distance,
	}})
}

// Forget clears any warning held for the worm
func (t *NearMissTracker) Forget(wormID string) {
	if prev, ok := t.active[wormID]; ok {
		t.clear(wormID, prev)
	}
}

// Reset clears every warning
func (t *NearMissTracker) Reset() {
	for id, prev := range t.active {
		t.clear(id, prev)
	}
}

// Active counts worms currently in a warning band
func (t *NearMissTracker) Active() int {
	return len(t.active)
}

func (t *NearMissTracker) clear(wormID string, prev nearMissEntry) {
	delete(t.active, wormID)
	t.statActive.Store(int64(len(t.active)))
	t.out.Push(event.GameEvent{Type: event.EventNearMissCleared, Payload: &event.NearMissClearedPayload{
		WormID:   wormID,
		SymbolID: prev.symbolID,
	}})
}
