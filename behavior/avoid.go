package behavior

import (
	"math"

	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/vmath"
)

// Deflect bends a unit direction around the first obstacle on the segment (x,y)→(x+dir*reach)
// Each rect is inflated by radius; rects already containing the start point are ignored so a
// worm overlapping chrome can still leave it, and rects containing the end point are ignored so
// a goal hugging chrome stays reachable. The heading turns by the smaller of the two angles
// that clear the rect's silhouette, capped at maxAngle. Purely local, nothing carries over frames
func Deflect(x, y, dirX, dirY, reach float64, rects []core.Rect, radius, maxAngle float64) (float64, float64, bool) {
	if reach <= 0 || (dirX == 0 && dirY == 0) {
		return dirX, dirY, false
	}
	endX, endY := x+dirX*reach, y+dirY*reach

	hitT := math.Inf(1)
	var hit core.Rect
	for _, r := range rects {
		inflated := r.Pad(radius)
		if inflated.Contains(x, y) || inflated.Contains(endX, endY) {
			continue
		}
		if t, ok := vmath.SegmentRectEntry(x, y, endX, endY, inflated); ok && t < hitT {
			hitT, hit = t, inflated
		}
	}
	if math.IsInf(hitT, 1) {
		return dirX, dirY, false
	}

	heading := math.Atan2(dirY, dirX)
	left, right := 0.0, 0.0 // most positive and most negative corner offsets
	corners := [4][2]float64{
		{hit.Left, hit.Top}, {hit.Right, hit.Top},
		{hit.Left, hit.Bottom}, {hit.Right, hit.Bottom},
	}
	for _, c := range corners {
		d := vmath.AngleDiff(heading, math.Atan2(c[1]-y, c[0]-x))
		left = math.Max(left, d)
		right = math.Min(right, d)
	}

	turn := left + parameter.WormAvoidMargin
	if -right < left {
		turn = right - parameter.WormAvoidMargin
	}
	turn = vmath.Clamp(turn, -maxAngle, maxAngle)

	nx, ny := vmath.RotateVector(dirX, dirY, turn)
	return nx, ny, true
}
