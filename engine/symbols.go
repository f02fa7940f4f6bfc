package engine

import (
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/event"
	"github.com/lixenwraith/algebra-worms/symbol"
)

// LoadSymbols replaces the symbol arena
func (e *Engine) LoadSymbols(records []symbol.Symbol) {
	e.pool.Load(records)
	e.candidates.Invalidate()
	for _, w := range e.worms.All() {
		w.ClearTarget()
	}
}

// Symbols returns the arena records in order; callers must not retain the slice
func (e *Engine) Symbols() []symbol.Symbol {
	return e.pool.All()
}

// Symbol looks up one record
func (e *Engine) Symbol(id int) (symbol.Symbol, bool) {
	return e.pool.Get(id)
}

// RevealSymbol applies the explicit reveal transition
func (e *Engine) RevealSymbol(id int) error {
	if err := e.pool.Reveal(id); err != nil {
		return err
	}
	e.candidates.Invalidate()
	s, _ := e.pool.Get(id)
	e.publish(event.EventSymbolRevealed, &event.SymbolRevealedPayload{SymbolID: id, Text: s.Text})
	e.flush()
	return nil
}

// StealSymbol applies the explicit steal transition on behalf of the host
func (e *Engine) StealSymbol(id int) error {
	if _, err := e.pool.Steal(id); err != nil {
		return err
	}
	e.candidates.Invalidate()
	return nil
}

// CompleteRow retires a solved row from targeting
func (e *Engine) CompleteRow(row int) int {
	n := e.pool.CompleteRow(row)
	if n > 0 {
		e.candidates.Invalidate()
	}
	return n
}

// MoveSymbol relocates a symbol during UI animation; dt derives its velocity for intercept
func (e *Engine) MoveSymbol(id int, rect core.Rect, dt time.Duration) error {
	if err := e.pool.Move(id, rect, dt); err != nil {
		return err
	}
	e.candidates.Invalidate()
	return nil
}
