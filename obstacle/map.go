// Package obstacle caches the padded UI chrome rectangles worms steer around
package obstacle

import (
	"slices"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/status"
)

// Config selects which elements count as obstacles and how stale they may be
type Config struct {
	Selectors     []string      `yaml:"selectors" json:"selectors"`
	CacheDuration time.Duration `yaml:"cache_duration" json:"cacheDuration"`
	Padding       float64       `yaml:"padding" json:"padding"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		Selectors:     slices.Clone(parameter.DefaultObstacleSelectors),
		CacheDuration: parameter.ObstacleCacheDuration,
		Padding:       parameter.ObstaclePadding,
	}
}

// Map is a time-windowed obstacle cache
// Callers tolerate staleness up to CacheDuration; Invalidate forces the next read to re-query
// Not safe for concurrent use, owned by the frame loop
type Map struct {
	cfg    Config
	source Source
	clock  core.Clock

	cached   []core.Rect
	cachedAt time.Time
	valid    bool

	statRefresh *atomic.Int64
	statCount   *atomic.Int64
}

// NewMap creates a cache over source; a nil source yields no obstacles
func NewMap(cfg Config, source Source, clock core.Clock, reg *status.Registry) *Map {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if reg == nil {
		reg = status.NewRegistry()
	}
	return &Map{
		cfg:         cfg,
		source:      source,
		clock:       clock,
		statRefresh: reg.Ints.Get("obstacle.refresh"),
		statCount:   reg.Ints.Get("obstacle.count"),
	}
}

// Rects returns the padded obstacle list
// Within the cache window the same slice is returned; callers must not modify it
func (m *Map) Rects() []core.Rect {
	now := m.clock.Now()
	if m.valid && now.Sub(m.cachedAt) < m.cfg.CacheDuration {
		return m.cached
	}

	var out []core.Rect
	if m.source != nil {
		for _, sel := range m.cfg.Selectors {
			for _, r := range m.source.QueryRects(sel) {
				if r.Empty() {
					continue
				}
				out = append(out, r.Pad(m.cfg.Padding))
			}
		}
	}

	m.cached = out
	m.cachedAt = now
	m.valid = true
	m.statRefresh.Add(1)
	m.statCount.Store(int64(len(out)))
	return out
}

// Invalidate drops the cached list
func (m *Map) Invalidate() {
	m.valid = false
}

