// Package engine owns one worm simulation instance and drives it from animation frames
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/algebra-worms/behavior"
	"github.com/lixenwraith/algebra-worms/config"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/obstacle"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/scheduler"
	"github.com/lixenwraith/algebra-worms/spawn"
	"github.com/lixenwraith/algebra-worms/status"
	"github.com/lixenwraith/algebra-worms/symbol"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

var (
	ErrSlotBusy       = errors.New("engine: console slot already spawning")
	ErrNoTarget       = errors.New("engine: no worm at position")
	ErrUnknownPowerUp = errors.New("engine: unknown power-up")
	ErrUnknownWorm    = errors.New("engine: unknown worm")
)

// Deps are the host collaborators; every field is optional
type Deps struct {
	// Scheduler drives frames and timers, nil creates a real-time loop owned by the engine
	Scheduler scheduler.Scheduler
	// Poster runs input work on the scheduler's goroutine, defaults to the owned loop
	Poster scheduler.Poster
	// Clock defaults to the scheduler
	Clock  core.Clock
	Logger *log.Logger
	Status *status.Registry

	Obstacles obstacle.Source
	Slots     spawn.SlotIndicator
}

// Engine is a single simulation instance
// All methods other than HandlePointer, Post and Status must run on the scheduler goroutine
type Engine struct {
	cfg    config.Config
	sched  scheduler.Scheduler
	poster scheduler.Poster
	loop   *scheduler.Loop // set when the engine owns its scheduler
	clock  core.Clock
	logger *log.Logger
	status *status.Registry

	router  *event.Router
	pointer *cursor.Broadcaster
	unsub   func()

	tracker    *cursor.Tracker
	obstacles  *obstacle.Map
	pool       *symbol.Pool
	candidates *symbol.CandidateCache
	controller *behavior.Controller
	queue      *spawn.Queue
	coord      *spawn.Coordinator
	targeter   *powerup.Targeter
	nearMiss   *NearMissTracker
	worms      *worm.Collection

	ids    *core.IDGenerator
	rng    *vmath.FastRand
	bounds core.Rect

	frameHandle scheduler.Handle
	lastFrame   time.Time
	frames      uint64
	armed       powerup.Kind
	dispatching bool

	statActive   *atomic.Int64
	statFrames   *atomic.Int64
	statStolen   *atomic.Int64
	statEscaped  *atomic.Int64
	statPowerUps *atomic.Int64
	statDropped  *atomic.Int64
}

// New builds an engine from a validated configuration
// The quality tier is folded in here so components only ever see resolved values
func New(cfg config.Config, deps Deps) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	cfg = cfg.Resolved()

	e := &Engine{
		cfg:     cfg,
		logger:  deps.Logger,
		status:  deps.Status,
		pointer: cursor.NewBroadcaster(),
		worms:   worm.NewCollection(),
		pool:    symbol.NewPool(),
		ids:     core.NewIDGenerator("worm"),
	}
	if e.logger == nil {
		e.logger = log.Default()
	}
	if e.status == nil {
		e.status = status.NewRegistry()
	}

	e.clock = deps.Clock
	e.sched = deps.Scheduler
	e.poster = deps.Poster
	if e.sched == nil {
		if e.clock == nil {
			e.clock = core.SystemClock{}
		}
		e.loop = scheduler.NewLoop(e.clock, cfg.Engine.FrameInterval, e.logger)
		e.sched = e.loop
		if e.poster == nil {
			e.poster = e.loop
		}
	}
	if e.clock == nil {
		e.clock = e.sched
	}

	seed := cfg.Engine.Seed
	if seed == 0 {
		seed = uint64(e.clock.Now().UnixNano())
	}
	e.rng = vmath.NewFastRand(seed)

	// Room for every worm's events in one frame on top of input traffic
	e.router = event.NewRouter(event.NewEventQueue(parameter.EventQueueSize + cfg.Spawn.MaxWorms*parameter.EventsPerWormFrame))
	queue := e.router.Queue()

	e.tracker = cursor.NewTracker(cfg.Cursor, e.clock, queue, e.status)
	e.obstacles = obstacle.NewMap(cfg.Obstacle, deps.Obstacles, e.clock, e.status)
	e.candidates = symbol.NewCandidateCache(e.pool, e.clock, cfg.Engine.SymbolCacheDuration)
	e.controller = behavior.NewController(cfg.Behavior)
	e.queue = spawn.NewQueue(cfg.Spawn, e.sched, e.logger, e.status)
	e.coord = spawn.NewCoordinator(deps.Slots, e.status)
	e.targeter = powerup.NewTargeter(cfg.PowerUp)
	e.nearMiss = NewNearMissTracker(cfg.NearMiss, queue, e.status)

	e.statActive = e.status.Ints.Get("worm.active")
	e.statFrames = e.status.Ints.Get("engine.frames")
	e.statStolen = e.status.Ints.Get("symbol.stolen")
	e.statEscaped = e.status.Ints.Get("worm.escaped")
	e.statPowerUps = e.status.Ints.Get("powerup.used")
	e.statDropped = e.status.Ints.Get("event.dropped")

	e.router.Subscribe(e.handleTap, event.EventCursorTap)
	return e, nil
}

// Start attaches the cursor tracker and starts the owned loop
func (e *Engine) Start() {
	e.tracker.Start(e.pointer)
	e.unsub = e.pointer.Subscribe(func(cursor.PointerEvent) {
		e.Post(func() { e.flush() })
	})
	if e.loop != nil {
		e.loop.Start()
	}
}

// Stop detaches input and halts the owned loop
func (e *Engine) Stop() {
	e.tracker.Stop()
	if e.unsub != nil {
		e.unsub()
		e.unsub = nil
	}
	if e.loop != nil {
		e.loop.Stop()
	}
}

// Post runs fn on the engine goroutine; without a poster fn runs inline
func (e *Engine) Post(fn func()) {
	if e.poster != nil {
		e.poster.Post(fn)
		return
	}
	fn()
}

// HandlePointer feeds a raw pointer event, safe from any goroutine
func (e *Engine) HandlePointer(ev cursor.PointerEvent) {
	e.pointer.Emit(ev)
}

// Pointer is the feed the cursor tracker listens on
func (e *Engine) Pointer() *cursor.Broadcaster {
	return e.pointer
}

// Subscribe registers an outbound event observer
func (e *Engine) Subscribe(fn func(event.GameEvent), types ...event.EventType) (unsubscribe func()) {
	return e.router.Subscribe(fn, types...)
}

// Register adds an event.Handler
func (e *Engine) Register(h event.Handler) (unregister func()) {
	return e.router.Register(h)
}

// DispatchEvents delivers queued events to observers now
func (e *Engine) DispatchEvents() int {
	return e.flush()
}

// flush drains the event queue, including events raised by handlers while draining
// Calls made from inside a handler return immediately; the outer drain picks their events up
func (e *Engine) flush() int {
	if e.dispatching {
		return 0
	}
	e.dispatching = true
	defer func() { e.dispatching = false }()

	total := 0
	for {
		n := e.router.DispatchAll()
		if n == 0 {
			e.statDropped.Store(int64(e.router.Queue().Dropped()))
			return total
		}
		total += n
	}
}

// Config returns the resolved configuration
func (e *Engine) Config() config.Config {
	return e.cfg
}

// Status exposes the metrics registry
func (e *Engine) Status() *status.Registry {
	return e.status
}

// Cursor returns the tracker state
func (e *Engine) Cursor() cursor.State {
	return e.tracker.State()
}

// Worms returns the live worms in spawn order
func (e *Engine) Worms() []*worm.Worm {
	return e.worms.Active()
}

// Worm looks up a live worm
func (e *Engine) Worm(id string) (*worm.Worm, bool) {
	return e.worms.Get(id)
}

// SpawnStatus reports the queue reading
func (e *Engine) SpawnStatus() spawn.Status {
	return e.queue.Status()
}

// FramePending reports whether a frame callback is scheduled
func (e *Engine) FramePending() bool {
	return e.frameHandle != nil
}

// SetBounds sets the play area worms are clamped to
func (e *Engine) SetBounds(r core.Rect) {
	e.bounds = r
}

// Bounds returns the play area
func (e *Engine) Bounds() core.Rect {
	return e.bounds
}

// InvalidateObstacles forces the next frame to re-query obstacle rects
func (e *Engine) InvalidateObstacles() {
	e.obstacles.Invalidate()
}

func (e *Engine) publish(t event.EventType, payload any) {
	e.router.Queue().Push(event.GameEvent{Type: t, Payload: payload, Frame: int64(e.frames)})
}
