package event

import (
	"sync/atomic"

	"github.com/lixenwraith/algebra-worms/parameter"
)

// Publisher accepts events for later dispatch
type Publisher interface {
	Push(ev GameEvent)
}

// EventQueue is a lock-free MPSC ring buffer for simulation events
// Push is safe from any goroutine; Consume belongs to the engine goroutine.
// A slot's published flag is set only after the event is written.
//
// When full, the oldest pending event is overwritten and counted in Dropped.
// Callers size the ring so one frame's worth of events fits, see NewEventQueue.
type EventQueue struct {
	events    []GameEvent
	published []atomic.Bool
	size      uint64
	mask      uint64
	head      atomic.Uint64
	tail      atomic.Uint64
	dropped   atomic.Uint64
}

// NewEventQueue creates a ring holding at least capacity events
// Capacity is rounded up to a power of two, never below parameter.EventQueueSize
func NewEventQueue(capacity int) *EventQueue {
	size := uint64(parameter.EventQueueSize)
	for size < uint64(max(capacity, 0)) {
		size <<= 1
	}
	return &EventQueue{
		events:    make([]GameEvent, size),
		published: make([]atomic.Bool, size),
		size:      size,
		mask:      size - 1,
	}
}

// Cap returns the ring size
func (eq *EventQueue) Cap() int {
	return int(eq.size)
}

// Push adds an event, O(1) amortized
func (eq *EventQueue) Push(ev GameEvent) {
	for {
		tail := eq.tail.Load()
		next := tail + 1
		if !eq.tail.CompareAndSwap(tail, next) {
			continue
		}

		idx := tail & eq.mask
		eq.events[idx] = ev
		eq.published[idx].Store(true)

		head := eq.head.Load()
		if next-head > eq.size && eq.head.CompareAndSwap(head, next-eq.size) {
			eq.dropped.Add(1)
		}
		return
	}
}

// Consume returns all pending events in FIFO order and advances head
func (eq *EventQueue) Consume() []GameEvent {
	for {
		currentHead := eq.head.Load()
		currentTail := eq.tail.Load()

		if currentTail == currentHead {
			return nil
		}

		available := currentTail - currentHead
		if available > eq.size {
			available = eq.size
			currentHead = currentTail - eq.size
		}

		result := make([]GameEvent, 0, available)
		for i := uint64(0); i < available; i++ {
			idx := (currentHead + i) & eq.mask
			if !eq.published[idx].Load() {
				break // Writer incomplete
			}
			result = append(result, eq.events[idx])
			eq.published[idx].Store(false)
		}

		if eq.head.CompareAndSwap(currentHead, currentHead+uint64(len(result))) {
			if len(result) == 0 {
				return nil
			}
			return result
		}
	}
}

// Len returns approximate pending event count
func (eq *EventQueue) Len() int {
	head := eq.head.Load()
	tail := eq.tail.Load()
	if tail <= head {
		return 0
	}
	return int(min(tail-head, eq.size))
}

// Dropped returns how many events were overwritten before consumption
func (eq *EventQueue) Dropped() uint64 {
	return eq.dropped.Load()
}
