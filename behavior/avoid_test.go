package behavior

import (
	"math"
	"testing"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/stretchr/testify/assert"
)

func TestDeflectClearPath(t *testing.T) {
	dx, dy, bent := Deflect(0, 0, 1, 0, 100, []core.Rect{core.NewRect(0, 50, 10, 10)}, 5, 1.6)
	assert.False(t, bent)
	assert.Equal(t, 1.0, dx)
	assert.Equal(t, 0.0, dy)
}

func TestDeflectTurnsTowardNearerEdge(t *testing.T) {
	// Rect sits mostly below the path, so the shorter way round is up (negative y)
	r := core.NewRect(40, -5, 20, 40)
	dx, dy, bent := Deflect(0, 0, 1, 0, 100, []core.Rect{r}, 0, 1.6)
	assert.True(t, bent)
	assert.Less(t, dy, 0.0)
	assert.InDelta(t, 1.0, vmath.Magnitude(dx, dy), 1e-9)

	// The new heading must clear the top corner of the rect
	clear := math.Atan2(dy, dx)
	corner := math.Atan2(r.Top, r.Left)
	assert.Less(t, clear, corner)
}

func TestDeflectIgnoresRectContainingWorm(t *testing.T) {
	_, dy, bent := Deflect(50, 0, 1, 0, 100, []core.Rect{core.NewRect(40, -10, 20, 20)}, 0, 1.6)
	assert.False(t, bent)
	assert.Equal(t, 0.0, dy)
}

func TestDeflectIgnoresRectContainingGoal(t *testing.T) {
	// Goal at (100,0) lies inside the inflated rect
	dx, dy, bent := Deflect(0, 0, 1, 0, 100, []core.Rect{core.NewRect(105, -50, 100, 100)}, 12, 1.6)
	assert.False(t, bent)
	assert.Equal(t, 1.0, dx)
	assert.Equal(t, 0.0, dy)
}

func TestDeflectCappedAtMaxAngle(t *testing.T) {
	// Wide wall right in front: clearing angle exceeds the cap
	dx, dy, bent := Deflect(0, 0, 1, 0, 100, []core.Rect{core.NewRect(5, -500, 10, 1000)}, 0, 0.3)
	assert.True(t, bent)
	assert.InDelta(t, 0.3, math.Abs(math.Atan2(dy, dx)), 1e-9)
}
