package spawn

import (
	"slices"
	"sync/atomic"

	"github.com/zyedidia/generic/mapset"

	"github.com/lixenwraith/algebra-worms/status"
)

// SlotIndicator renders the spawning/locked marker on a console slot
type SlotIndicator interface {
	SetSlotSpawning(slot int, spawning bool)
}

// SlotIndicatorFunc adapts a function to SlotIndicator
type SlotIndicatorFunc func(slot int, spawning bool)

func (f SlotIndicatorFunc) SetSlotSpawning(slot int, spawning bool) { f(slot, spawning) }

// Coordinator tracks console slots with a spawn in flight
// A locked slot cannot start a second spawn until UnlockConsoleSlot
type Coordinator struct {
	locked    mapset.Set[int]
	indicator SlotIndicator
	statSlots *atomic.Int64
}

// NewCoordinator creates a coordinator; indicator may be nil
func NewCoordinator(indicator SlotIndicator, reg *status.Registry) *Coordinator {
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Coordinator{
		locked:    mapset.New[int](),
		indicator: indicator,
		statSlots: reg.Ints.Get("spawn.locked_slots"),
	}
}

// LockConsoleSlot reserves slot, false if it was already reserved
func (c *Coordinator) LockConsoleSlot(slot int) bool {
	if c.locked.Has(slot) {
		return false
	}
	c.locked.Put(slot)
	c.statSlots.Store(int64(c.locked.Size()))
	if c.indicator != nil {
		c.indicator.SetSlotSpawning(slot, true)
	}
	return true
}

// IsSlotLocked reports whether slot has a spawn in flight
func (c *Coordinator) IsSlotLocked(slot int) bool {
	return c.locked.Has(slot)
}

// UnlockConsoleSlot releases slot and clears its indicator
// Unlocking a free slot still clears the indicator
func (c *Coordinator) UnlockConsoleSlot(slot int) {
	c.locked.Remove(slot)
	c.statSlots.Store(int64(c.locked.Size()))
	if c.indicator != nil {
		c.indicator.SetSlotSpawning(slot, false)
	}
}

// LockedSlots lists reserved slots ascending
func (c *Coordinator) LockedSlots() []int {
	out := make([]int, 0, c.locked.Size())
	c.locked.Each(func(slot int) {
		out = append(out, slot)
	})
	slices.Sort(out)
	return out
}

// Reset releases every slot
func (c *Coordinator) Reset() {
	for _, slot := range c.LockedSlots() {
		c.UnlockConsoleSlot(slot)
	}
}
