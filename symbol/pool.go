package symbol

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
)

var (
	// ErrUnknownSymbol is returned for ids not present in the pool
	ErrUnknownSymbol = errors.New("symbol: unknown id")

	// ErrInvalidTransition is returned when a steal or reveal does not apply to the current class
	ErrInvalidTransition = errors.New("symbol: invalid class transition")
)

// Pool is the indexed symbol arena
// Iteration order is insertion order; the resolver's first-seen tie-break depends on it
// Not safe for concurrent use, owned by the frame loop
type Pool struct {
	records []Symbol
	index   map[int]int
	nextID  int
	version uint64
}

// NewPool creates an empty arena
func NewPool() *Pool {
	return &Pool{index: make(map[int]int)}
}

// Load replaces the arena contents, assigning ids to records with ID 0
func (p *Pool) Load(records []Symbol) {
	p.records = p.records[:0]
	clear(p.index)
	for _, s := range records {
		p.Add(s)
	}
}

// Add appends a record and returns its id
func (p *Pool) Add(s Symbol) int {
	if s.ID == 0 {
		p.nextID++
		s.ID = p.nextID
	} else if s.ID > p.nextID {
		p.nextID = s.ID
	}
	if i, ok := p.index[s.ID]; ok {
		p.records[i] = s
	} else {
		p.index[s.ID] = len(p.records)
		p.records = append(p.records, s)
	}
	p.version++
	return s.ID
}

// Get returns a copy of the record
func (p *Pool) Get(id int) (Symbol, bool) {
	i, ok := p.index[id]
	if !ok {
		return Symbol{}, false
	}
	return p.records[i], true
}

// All returns the live backing slice in iteration order, callers must not retain it across mutations
func (p *Pool) All() []Symbol {
	return p.records
}

// Len returns the record count
func (p *Pool) Len() int {
	return len(p.records)
}

// Version increments on every mutation; snapshots carry it so clients can skip unchanged layouts
func (p *Pool) Version() uint64 {
	return p.version
}

// Steal moves a hidden or revealed symbol to Stolen and reports whether it had been revealed
func (p *Pool) Steal(id int) (wasRevealed bool, err error) {
	i, ok := p.index[id]
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrUnknownSymbol, id)
	}
	s := &p.records[i]
	if !s.Class.Targetable() {
		return false, fmt.Errorf("%w: steal from %s", ErrInvalidTransition, s.Class)
	}
	wasRevealed = s.Class == Revealed
	s.Class = Stolen
	p.version++
	return wasRevealed, nil
}

// Reveal moves a hidden or stolen symbol to Revealed
// Stolen symbols are restored when the player solves the step they belong to
func (p *Pool) Reveal(id int) error {
	i, ok := p.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSymbol, id)
	}
	s := &p.records[i]
	if s.Class != Hidden && s.Class != Stolen {
		return fmt.Errorf("%w: reveal from %s", ErrInvalidTransition, s.Class)
	}
	s.Class = Revealed
	p.version++
	return nil
}

// CompleteRow marks every non-space symbol on row as CompletedRow
func (p *Pool) CompleteRow(row int) int {
	n := 0
	for i := range p.records {
		s := &p.records[i]
		if s.Row == row && s.Class != Space && s.Class != CompletedRow {
			s.Class = CompletedRow
			n++
		}
	}
	if n > 0 {
		p.version++
	}
	return n
}

// Move relocates a symbol, deriving its velocity from the previous rect over dt
// A zero or negative dt resets velocity
func (p *Pool) Move(id int, rect core.Rect, dt time.Duration) error {
	i, ok := p.index[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSymbol, id)
	}
	s := &p.records[i]
	if dt > 0 {
		from, to := s.Rect.Center(), rect.Center()
		secs := dt.Seconds()
		s.VX = (to.X - from.X) / secs
		s.VY = (to.Y - from.Y) / secs
	} else {
		s.VX, s.VY = 0, 0
	}
	s.Rect = rect
	p.version++
	return nil
}

// Count returns how many records carry class c
func (p *Pool) Count(c Class) int {
	n := 0
	for _, s := range p.records {
		if s.Class == c {
			n++
		}
	}
	return n
}
