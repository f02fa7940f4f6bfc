package symbol

import (
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/parameter"
)

// Candidates is a filtered view of the arena split by class
type Candidates struct {
	Hidden   []Symbol
	Revealed []Symbol
}

// Empty reports no targetable symbols at all
func (c Candidates) Empty() bool {
	return len(c.Hidden) == 0 && len(c.Revealed) == 0
}

// CandidateCache serves a short-lived snapshot of targetable symbols
// Expires by wall clock; Invalidate must be called after steal/reveal/layout changes
type CandidateCache struct {
	pool     *Pool
	clock    core.Clock
	duration time.Duration

	cached   Candidates
	cachedAt time.Time
	valid    bool
	refresh  uint64
}

// NewCandidateCache wraps pool; duration 0 uses parameter.SymbolCacheDuration
// A nil pool yields no candidates
func NewCandidateCache(pool *Pool, clock core.Clock, duration time.Duration) *CandidateCache {
	if duration <= 0 {
		duration = parameter.SymbolCacheDuration
	}
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &CandidateCache{pool: pool, clock: clock, duration: duration}
}

// Get returns the cached candidates, rebuilding once the window has elapsed
func (c *CandidateCache) Get() Candidates {
	now := c.clock.Now()
	if c.valid && now.Sub(c.cachedAt) < c.duration {
		return c.cached
	}

	// Fresh slices: callers may still hold the previous snapshot
	c.cached = Candidates{}
	if c.pool != nil {
		for _, s := range c.pool.All() {
			switch s.Class {
			case Hidden:
				c.cached.Hidden = append(c.cached.Hidden, s)
			case Revealed:
				c.cached.Revealed = append(c.cached.Revealed, s)
			}
		}
	}
	c.cachedAt = now
	c.valid = true
	c.refresh++
	return c.cached
}

// Invalidate drops the snapshot so the next Get rebuilds
func (c *CandidateCache) Invalidate() {
	c.valid = false
}

// Refreshes counts rebuilds
func (c *CandidateCache) Refreshes() uint64 {
	return c.refresh
}
