package core

import (
	"strconv"
	"sync/atomic"
)

// IDGenerator hands out process-unique string ids with a fixed prefix
// Ids are never reused within a generator, removal only frees the entity
type IDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewIDGenerator creates a generator producing "<prefix>-<n>" ids
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Next returns the next unique id
func (g *IDGenerator) Next() string {
	n := g.next.Add(1)
	return g.prefix + "-" + strconv.FormatUint(n, 36)
}
