// Package spawn serializes worm creation and reserves console origin slots
package spawn

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/scheduler"
	"github.com/lixenwraith/algebra-worms/status"
)

// ErrCapacity is returned when the live worm ceiling has been reached
var ErrCapacity = errors.New("spawn: max worms reached")

// Entry is one pending spawn request
type Entry struct {
	Type      string
	Data      any
	Timestamp time.Time
}

// Callback creates the worm for a dequeued entry
type Callback func(kind string, data any) error

// Config holds queue pacing and the concurrent worm ceiling
type Config struct {
	Delay    time.Duration `yaml:"delay" json:"delay"`
	MaxWorms int           `yaml:"max_worms" json:"maxWorms"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{Delay: parameter.SpawnQueueDelay, MaxWorms: parameter.SpawnMaxWorms}
}

// Status is a point-in-time queue reading
type Status struct {
	Depth      int
	Processing bool
}

// Queue is a FIFO drained one entry per frame, with Delay between entries
// Must be used from the scheduler's owner goroutine
type Queue struct {
	cfg    Config
	sched  scheduler.Scheduler
	logger *log.Logger

	entries    []Entry
	processing bool
	pending    scheduler.Handle

	statDepth   *atomic.Int64
	statSpawned *atomic.Int64
	statFailed  *atomic.Int64
}

// NewQueue creates an idle queue; logger nil uses log.Default
func NewQueue(cfg Config, sched scheduler.Scheduler, logger *log.Logger, reg *status.Registry) *Queue {
	if logger == nil {
		logger = log.Default()
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Queue{
		cfg:         cfg,
		sched:       sched,
		logger:      logger,
		statDepth:   reg.Ints.Get("spawn.queue_depth"),
		statSpawned: reg.Ints.Get("spawn.spawned"),
		statFailed:  reg.Ints.Get("spawn.failed"),
	}
}

// QueueSpawn appends a request
func (q *Queue) QueueSpawn(kind string, data any) {
	q.entries = append(q.entries, Entry{Type: kind, Data: data, Timestamp: q.sched.Now()})
	q.statDepth.Store(int64(len(q.entries)))
}

// ProcessQueue drains the queue through cb, one entry per invocation
// A call while a drain is already in flight is a no-op
func (q *Queue) ProcessQueue(cb Callback) {
	if q.processing || len(q.entries) == 0 {
		return
	}
	q.processing = true

	q.pending = q.sched.RequestFrame(func(time.Time) {
		q.pending = nil
		if len(q.entries) == 0 {
			q.processing = false
			return
		}

		entry := q.entries[0]
		q.entries[0] = Entry{}
		q.entries = q.entries[1:]
		q.statDepth.Store(int64(len(q.entries)))

		q.invoke(cb, entry)

		if len(q.entries) == 0 {
			q.processing = false
			return
		}
		// processing stays set through the delay so interleaved calls cannot double-drain
		q.pending = q.sched.After(q.cfg.Delay, func() {
			q.pending = nil
			q.processing = false
			q.ProcessQueue(cb)
		})
	})
}

// invoke isolates a failing callback so the rest of the queue still drains
func (q *Queue) invoke(cb Callback, e Entry) {
	defer func() {
		if r := recover(); r != nil {
			q.statFailed.Add(1)
			q.logger.Printf("spawn: %s callback panic: %v", e.Type, r)
		}
	}()
	if err := cb(e.Type, e.Data); err != nil {
		q.statFailed.Add(1)
		q.logger.Printf("spawn: %s callback failed: %v", e.Type, err)
		return
	}
	q.statSpawned.Add(1)
}

// CanSpawn reports whether another worm fits under MaxWorms
func (q *Queue) CanSpawn(count int) bool {
	return count < q.cfg.MaxWorms
}

// CheckCapacity is CanSpawn as an error
func (q *Queue) CheckCapacity(count int) error {
	if !q.CanSpawn(count) {
		return fmt.Errorf("%w (%d/%d)", ErrCapacity, count, q.cfg.MaxWorms)
	}
	return nil
}

// ClearQueue drops every pending entry and cancels any scheduled drain step
func (q *Queue) ClearQueue() {
	if q.pending != nil {
		q.pending.Cancel()
		q.pending = nil
	}
	clear(q.entries)
	q.entries = q.entries[:0]
	q.processing = false
	q.statDepth.Store(0)
}

// Len returns the pending entry count
func (q *Queue) Len() int {
	return len(q.entries)
}

// Status reports depth and whether a drain is in flight
func (q *Queue) Status() Status {
	return Status{Depth: len(q.entries), Processing: q.processing}
}
