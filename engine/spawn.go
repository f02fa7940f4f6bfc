package engine

import (
	"fmt"
	"math"

	"github.com/lixenwraith/algebra-worms/aggression"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/worm"
)

// Worm kinds
const (
	KindBasic  = "basic"
	KindPurple = "purple"
)

// SpawnRequest describes a worm to create
type SpawnRequest struct {
	Purple       bool    `json:"purple,omitempty" msgpack:"purple"`
	CanStealBlue bool    `json:"canStealBlue,omitempty" msgpack:"canStealBlue"`
	Slot         int     `json:"slot" msgpack:"slot"` // console slot, -1 for none
	X            float64 `json:"x,omitempty" msgpack:"x"`
	Y            float64 `json:"y,omitempty" msgpack:"y"`
	HasPosition  bool    `json:"hasPosition,omitempty" msgpack:"hasPosition"`
}

// RequestSpawn reserves the request's slot and queues it
// Requests over the worm ceiling are dropped with spawn.ErrCapacity
func (e *Engine) RequestSpawn(kind string, req SpawnRequest) error {
	if err := e.queue.CheckCapacity(e.worms.ActiveCount() + e.queue.Len()); err != nil {
		return err
	}
	if req.Slot >= 0 && !e.coord.LockConsoleSlot(req.Slot) {
		return fmt.Errorf("%w: %d", ErrSlotBusy, req.Slot)
	}

	e.queue.QueueSpawn(kind, req)
	e.queue.ProcessQueue(e.spawnWorm)
	return nil
}

// spawnWorm is the queue callback: it creates the worm and releases the slot
func (e *Engine) spawnWorm(kind string, data any) error {
	req, ok := data.(SpawnRequest)
	if !ok {
		return fmt.Errorf("engine: spawn data %T", data)
	}
	if req.Slot >= 0 {
		defer e.coord.UnlockConsoleSlot(req.Slot)
	}
	if err := e.queue.CheckCapacity(e.worms.ActiveCount()); err != nil {
		return err
	}

	purple := req.Purple || kind == KindPurple
	speed := e.cfg.Worm.BaseSpeed
	if purple {
		speed *= e.cfg.Worm.PurpleSpeedFactor
	}

	x, y := e.spawnOrigin(req)
	w := &worm.Worm{
		ID:           e.ids.Next(),
		Kind:         kind,
		Purple:       purple,
		CanStealBlue: purple && (req.CanStealBlue || kind == KindPurple),
		FromConsole:  req.Slot >= 0,
		Slot:         req.Slot,
		X:            x,
		Y:            y,
		BaseSpeed:    speed,
		Heading:      e.rng.Range(-math.Pi, math.Pi),
		Active:       true,
		Aggression:   aggression.Idle(),
		SpawnedAt:    e.sched.Now(),
	}
	e.worms.Add(w)
	e.statActive.Store(int64(e.worms.ActiveCount()))

	e.publish(event.EventWormSpawned, &event.WormSpawnedPayload{
		WormID:      w.ID,
		Kind:        kind,
		X:           x,
		Y:           y,
		Purple:      purple,
		FromConsole: w.FromConsole,
		Slot:        w.Slot,
	})
	e.ensureFrame()
	e.flush()
	return nil
}

// spawnOrigin picks the entry point: explicit position, console slot, or a random bounds edge
func (e *Engine) spawnOrigin(req SpawnRequest) (float64, float64) {
	if req.HasPosition {
		return req.X, req.Y
	}
	b := e.bounds
	if b.Empty() {
		return req.X, req.Y
	}
	if req.Slot >= 0 {
		slotWidth := b.Width / parameter.ConsoleSlotCount
		return b.Left + (float64(req.Slot%parameter.ConsoleSlotCount)+0.5)*slotWidth, b.Bottom
	}

	switch e.rng.Intn(4) {
	case 0:
		return e.rng.Range(b.Left, b.Right), b.Top
	case 1:
		return b.Right, e.rng.Range(b.Top, b.Bottom)
	case 2:
		return e.rng.Range(b.Left, b.Right), b.Bottom
	default:
		return b.Left, e.rng.Range(b.Top, b.Bottom)
	}
}
