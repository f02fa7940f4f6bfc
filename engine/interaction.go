package engine

import (
	"fmt"

	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

// handleTap routes a pointer-down: an armed power-up fires, otherwise a tapped worm flees
func (e *Engine) handleTap(ev event.GameEvent) {
	p, ok := ev.Payload.(*event.CursorPayload)
	if !ok {
		return
	}

	if e.armed != "" {
		kind := e.armed
		e.armed = ""
		if _, err := e.UsePowerUp(kind, p.X, p.Y); err != nil {
			e.logger.Printf("engine: tap power-up %s: %v", kind, err)
		}
		return
	}

	if w := e.targeter.At(e.worms.All(), p.X, p.Y); w != nil {
		e.Escape(w, p.X, p.Y)
	}
}

// Escape starts the flee burst directly away from (fromX, fromY)
// For its duration cursor evasion and pursuit are suppressed
func (e *Engine) Escape(w *worm.Worm, fromX, fromY float64) {
	dx, dy := vmath.Normalize2D(w.X-fromX, w.Y-fromY)
	if dx == 0 && dy == 0 {
		dx, dy = vmath.RotateVector(1, 0, w.Heading)
	}
	speed := e.cfg.Worm.EscapeSpeed
	w.StartEscape(e.sched.Now(), e.cfg.Worm.EscapeDuration, dx*speed, dy*speed)
	e.statEscaped.Add(1)

	e.publish(event.EventWormEscaped, &event.WormEscapedPayload{WormID: w.ID, VX: w.EscapeVX, VY: w.EscapeVY})
	e.ensureFrame()
	e.flush()
}

// ArmPowerUp makes the next tap fire kind
func (e *Engine) ArmPowerUp(kind powerup.Kind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	e.armed = kind
	return nil
}

// Armed returns the power-up waiting for a tap, "" when none
func (e *Engine) Armed() powerup.Kind {
	return e.armed
}

// UsePowerUp fires kind at (x, y) and returns the affected worm ids
func (e *Engine) UsePowerUp(kind powerup.Kind, x, y float64) ([]string, error) {
	var hit []*worm.Worm
	switch kind {
	case powerup.KindSpider:
		if w := e.targeter.At(e.worms.All(), x, y); w != nil {
			hit = []*worm.Worm{w}
		}
	case powerup.KindChain:
		if origin := powerup.FindNearestWorm(e.worms.All(), x, y); origin != nil {
			hit = e.targeter.Chain(e.worms.All(), origin)
		}
	case powerup.KindDevil:
		hit = e.worms.Active()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPowerUp, kind)
	}
	if len(hit) == 0 {
		return nil, ErrNoTarget
	}

	ids := make([]string, len(hit))
	for i, w := range hit {
		ids[i] = w.ID
	}

	if kind == powerup.KindDevil {
		until := e.sched.Now().Add(e.targeter.Config().DevilDuration)
		for _, w := range hit {
			w.RushingToDevil = true
			w.DevilX, w.DevilY = x, y
			w.DevilUntil = until
		}
	} else {
		for _, w := range hit {
			e.RemoveWorm(w.ID, event.RemovalPowerUp)
		}
	}

	e.statPowerUps.Add(1)
	e.publish(event.EventPowerUpUsed, &event.PowerUpPayload{Kind: string(kind), X: x, Y: y, Targets: ids})
	e.flush()
	return ids, nil
}

// RemoveWorm takes a worm out of the live set
// Removing the last worm cancels the pending frame so no per-frame work runs with zero worms
func (e *Engine) RemoveWorm(id string, reason event.RemovalReason) error {
	w, ok := e.worms.Remove(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownWorm, id)
	}
	e.nearMiss.Forget(id)
	e.statActive.Store(int64(e.worms.ActiveCount()))
	e.publish(event.EventWormRemoved, &event.WormRemovedPayload{WormID: id, Reason: reason, X: w.X, Y: w.Y})

	if e.worms.ActiveCount() == 0 {
		e.cancelFrame()
	}
	e.flush()
	return nil
}

// CaptureWorm removes a worm the player caught
func (e *Engine) CaptureWorm(id string) error {
	return e.RemoveWorm(id, event.RemovalCaptured)
}

// ExplodeWorm removes a worm destroyed by an explosion
func (e *Engine) ExplodeWorm(id string) error {
	return e.RemoveWorm(id, event.RemovalExploded)
}

// ClearLevel removes every worm and abandons pending spawns and slot reservations
func (e *Engine) ClearLevel() {
	e.queue.ClearQueue()
	e.coord.Reset()
	e.nearMiss.Reset()
	for _, w := range e.worms.Clear() {
		e.publish(event.EventWormRemoved, &event.WormRemovedPayload{WormID: w.ID, Reason: event.RemovalLevelClear, X: w.X, Y: w.Y})
	}
	e.armed = ""
	e.cancelFrame()
	e.statActive.Store(0)
	e.publish(event.EventLevelCleared, nil)
	e.flush()
}
