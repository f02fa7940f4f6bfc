package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetricPointerCached verifies repeated Get returns the same pointer
func TestMetricPointerCached(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get("worm.active")
	b := r.Ints.Get("worm.active")
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Ints.Count())
}

func TestSnapshotFlattensAllKinds(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("spawn.queue_depth").Store(3)
	r.Bools.Get("spawn.processing").Store(true)
	r.Floats.Get("worm.mean_aggression").Set(0.25)

	snap := r.Snapshot()
	assert.Equal(t, int64(3), snap["spawn.queue_depth"])
	assert.Equal(t, true, snap["spawn.processing"])
	assert.Equal(t, 0.25, snap["worm.mean_aggression"])
}
