package obstacle

import (
	"maps"
	"slices"
	"sync"

	"github.com/lixenwraith/algebra-worms/core"
)

// Source resolves a selector to the rects of every matching UI element
// Unknown selectors return nil, not an error
type Source interface {
	QueryRects(selector string) []core.Rect
}

// SourceFunc adapts a function to Source
type SourceFunc func(selector string) []core.Rect

func (f SourceFunc) QueryRects(selector string) []core.Rect { return f(selector) }

// LayoutSource holds rects pushed by the host layout (browser client, terminal sandbox)
// Safe for concurrent Set and QueryRects
type LayoutSource struct {
	mu    sync.RWMutex
	rects map[string][]core.Rect
}

// NewLayoutSource creates an empty layout
func NewLayoutSource() *LayoutSource {
	return &LayoutSource{rects: make(map[string][]core.Rect)}
}

// Set replaces the rects reported for selector, nil removes it
func (s *LayoutSource) Set(selector string, rects []core.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rects == nil {
		delete(s.rects, selector)
		return
	}
	s.rects[selector] = slices.Clone(rects)
}

// Replace swaps the whole layout at once
func (s *LayoutSource) Replace(layout map[string][]core.Rect) {
	next := make(map[string][]core.Rect, len(layout))
	for k, v := range layout {
		next[k] = slices.Clone(v)
	}
	s.mu.Lock()
	s.rects = next
	s.mu.Unlock()
}

func (s *LayoutSource) QueryRects(selector string) []core.Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.rects[selector])
}

// Selectors lists the selectors currently holding rects, sorted
func (s *LayoutSource) Selectors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.rects))
}
