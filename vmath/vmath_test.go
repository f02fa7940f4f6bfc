package vmath

import (
	"math"
	"testing"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/stretchr/testify/assert"
)

func TestNormalize2DZeroSafe(t *testing.T) {
	nx, ny := Normalize2D(0, 0)
	assert.Equal(t, 0.0, nx)
	assert.Equal(t, 0.0, ny)

	nx, ny = Normalize2D(3, 4)
	assert.InDelta(t, 0.6, nx, 1e-9)
	assert.InDelta(t, 0.8, ny, 1e-9)
}

func TestAngleDiffWraps(t *testing.T) {
	d := AngleDiff(math.Pi-0.1, -math.Pi+0.1)
	assert.InDelta(t, 0.2, d, 1e-9)

	d = AngleDiff(0.5, 0.2)
	assert.InDelta(t, -0.3, d, 1e-9)
}

func TestRotateVectorQuarterTurn(t *testing.T) {
	x, y := RotateVector(1, 0, math.Pi/2)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 1, y, 1e-9)
}

func TestFastRandRange(t *testing.T) {
	r := NewFastRand(0)
	for i := 0; i < 1000; i++ {
		v := r.Range(-2, 3)
		assert.GreaterOrEqual(t, v, -2.0)
		assert.Less(t, v, 3.0)
	}
}

// TestSegmentRectEntry covers crossing, missing and starting-inside segments
func TestSegmentRectEntry(t *testing.T) {
	r := core.NewRect(10, -5, 10, 10)

	tEnter, hit := SegmentRectEntry(0, 0, 30, 0, r)
	assert.True(t, hit)
	assert.InDelta(t, 1.0/3.0, tEnter, 1e-9)

	_, hit = SegmentRectEntry(0, 20, 30, 20, r)
	assert.False(t, hit)

	_, hit = SegmentRectEntry(0, 0, 5, 0, r)
	assert.False(t, hit, "segment ends before the rect")

	tEnter, hit = SegmentRectEntry(15, 0, 40, 0, r)
	assert.True(t, hit)
	assert.Equal(t, 0.0, tEnter)
}
