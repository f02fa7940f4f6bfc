package scheduler

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/parameter"
)

type frameRequest struct {
	fn        func(now time.Time)
	cancelled atomic.Bool
	done      atomic.Bool
}

func (r *frameRequest) Cancel() bool {
	if r.done.Load() {
		return false
	}
	return r.cancelled.CompareAndSwap(false, true)
}

type timerRequest struct {
	timer     *time.Timer
	cancelled atomic.Bool
	done      atomic.Bool
}

func (r *timerRequest) Cancel() bool {
	if r.done.Load() || !r.cancelled.CompareAndSwap(false, true) {
		return false
	}
	r.timer.Stop()
	return true
}

// Loop is the real-time owner goroutine: it runs posted tasks, timers and frame callbacks serially
// Frames tick on a fixed interval only while callbacks are pending, with drift correction
type Loop struct {
	clock    core.Clock
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	frames []*frameRequest

	tasks chan func()
	wake  chan struct{}

	nextDeadline time.Time
	frameCount   atomic.Uint64

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewLoop creates a loop ticking frames every interval (0 = parameter.FrameInterval)
func NewLoop(clock core.Clock, interval time.Duration, logger *log.Logger) *Loop {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if interval <= 0 {
		interval = parameter.FrameInterval
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		clock:    clock,
		interval: interval,
		logger:   logger,
		tasks:    make(chan func(), parameter.InputQueueSize),
		wake:     make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

// Now returns the loop clock time
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Frames returns the number of frames run so far
func (l *Loop) Frames() uint64 {
	return l.frameCount.Load()
}

// RequestFrame queues fn for the next frame tick
func (l *Loop) RequestFrame(fn func(now time.Time)) Handle {
	req := &frameRequest{fn: fn}
	l.mu.Lock()
	l.frames = append(l.frames, req)
	l.mu.Unlock()
	l.signal()
	return req
}

// After runs fn on the loop goroutine once d has elapsed
func (l *Loop) After(d time.Duration, fn func()) Handle {
	req := &timerRequest{}
	req.timer = time.AfterFunc(d, func() {
		if req.cancelled.Load() {
			return
		}
		l.Post(func() {
			if req.cancelled.Load() {
				return
			}
			req.done.Store(true)
			fn()
		})
	})
	return req
}

// Post enqueues fn for the loop goroutine, blocking while the task buffer is full
// Posting after Stop drops fn
func (l *Loop) Post(fn func()) {
	select {
	case l.tasks <- fn:
	case <-l.stopCh:
	}
}

// Start launches the owner goroutine
func (l *Loop) Start() {
	if l.running.CompareAndSwap(false, true) {
		l.wg.Add(1)
		core.Go(l.run)
	}
}

// Stop halts the loop and waits for the goroutine to exit
// Pending frames and tasks are dropped
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
		if l.running.CompareAndSwap(true, false) {
			l.wg.Wait()
		}
	})
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) pendingFrames() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.frames) > 0
}

func (l *Loop) run() {
	defer l.wg.Done()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	armed := false

	for {
		if !armed && l.pendingFrames() {
			now := l.clock.Now()
			if l.nextDeadline.Before(now) {
				// Idle loop: first frame after a gap fires one interval out
				l.nextDeadline = now.Add(l.interval)
			}
			timer.Reset(l.nextDeadline.Sub(now))
			armed = true
		}

		select {
		case <-l.stopCh:
			return
		case fn := <-l.tasks:
			l.safeRun(fn)
		case <-l.wake:
		case <-timer.C:
			armed = false
			l.runFrame()
		}
	}
}

// runFrame executes the frame callbacks pending at tick start
// Callbacks requesting a new frame land in the next tick, matching rAF semantics
func (l *Loop) runFrame() {
	l.mu.Lock()
	batch := l.frames
	l.frames = nil
	l.mu.Unlock()

	now := l.clock.Now()
	for _, req := range batch {
		if req.cancelled.Load() {
			continue
		}
		req.done.Store(true)
		l.safeRun(func() { req.fn(now) })
	}

	l.frameCount.Add(1)
	l.nextDeadline = l.nextDeadline.Add(l.interval)
	if now.Sub(l.nextDeadline) > l.interval*2 {
		l.nextDeadline = now.Add(l.interval)
	}
}

// safeRun isolates a panicking callback so one bad task cannot stop the loop
func (l *Loop) safeRun(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Printf("scheduler: callback panic: %v", r)
		}
	}()
	fn()
}
