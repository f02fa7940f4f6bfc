package engine

import (
	"time"

	"github.com/lixenwraith/algebra-worms/aggression"
	"github.com/lixenwraith/algebra-worms/behavior"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/symbol"
	"github.com/lixenwraith/algebra-worms/target"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

// ensureFrame schedules the next frame while any worm is alive
// With zero worms nothing is requested, so an idle engine does no per-frame work
func (e *Engine) ensureFrame() {
	if e.frameHandle != nil || e.worms.ActiveCount() == 0 {
		return
	}
	e.frameHandle = e.sched.RequestFrame(e.frame)
}

// cancelFrame drops a pending frame request
func (e *Engine) cancelFrame() {
	if e.frameHandle != nil {
		e.frameHandle.Cancel()
		e.frameHandle = nil
	}
	e.lastFrame = time.Time{}
}

// frame is the single owner of worm mutation for one tick
func (e *Engine) frame(now time.Time) {
	e.frameHandle = nil
	e.frames++
	e.statFrames.Add(1)

	dt := e.cfg.Engine.FrameInterval
	if !e.lastFrame.IsZero() {
		dt = now.Sub(e.lastFrame)
	}
	e.lastFrame = now

	obstacles := e.obstacles.Rects()
	cur := e.tracker.State()

	for _, w := range e.worms.Active() {
		if w.RushingToDevil && !w.DevilActive(now) {
			w.RushingToDevil = false
		}
		e.updateWorm(w, now, dt, cur, obstacles)
	}

	e.statActive.Store(int64(e.worms.ActiveCount()))
	e.flush()

	if e.worms.ActiveCount() > 0 {
		e.ensureFrame()
	} else {
		e.lastFrame = time.Time{}
	}
}

func (e *Engine) updateWorm(w *worm.Worm, now time.Time, dt time.Duration, cur cursor.State, obstacles []core.Rect) {
	var tgt *symbol.Symbol
	agg := aggression.Idle()

	if s, ok := target.Resolve(w, e.candidates.Get()); ok {
		tgt = &s
		c := s.Center()
		agg = aggression.Compute(vmath.Distance(w.X, w.Y, c.X, c.Y), e.cfg.Aggression)
	} else {
		w.ClearTarget()
	}

	e.controller.Update(w, behavior.Frame{
		Now:        now,
		DT:         dt,
		Cursor:     cur,
		Obstacles:  obstacles,
		Target:     tgt,
		Aggression: agg,
		RNG:        e.rng,
		Bounds:     e.bounds,
	})

	if tgt == nil {
		e.nearMiss.Forget(w.ID)
		return
	}

	c := tgt.Center()
	dist := vmath.Distance(w.X, w.Y, c.X, c.Y)
	if dist <= e.cfg.Worm.StealRadius && !w.Escaping(now) {
		e.steal(w, *tgt)
		return
	}
	e.nearMiss.Observe(w.ID, tgt.ID, dist)
}

// steal applies the explicit Stolen transition for a worm touching its target
func (e *Engine) steal(w *worm.Worm, s symbol.Symbol) {
	wasRevealed, err := e.pool.Steal(s.ID)
	e.candidates.Invalidate()
	w.ClearTarget()
	e.nearMiss.Forget(w.ID)
	if err != nil {
		// Cached candidate went stale between refreshes
		return
	}

	w.HasStolen = true
	e.statStolen.Add(1)
	e.publish(event.EventSymbolStolen, &event.SymbolStolenPayload{
		WormID:      w.ID,
		SymbolID:    s.ID,
		Text:        s.Text,
		WasRevealed: wasRevealed,
	})
}
