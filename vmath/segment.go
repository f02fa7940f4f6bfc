package vmath

import "github.com/lixenwraith/algebra-worms/core"

// SegmentRectEntry clips segment (x1,y1)→(x2,y2) against r (Liang-Barsky)
// Returns the entry parameter t in [0, 1] and true when the segment touches r
// A start point already inside r reports t = 0
func SegmentRectEntry(x1, y1, x2, y2 float64, r core.Rect) (float64, bool) {
	dx := x2 - x1
	dy := y2 - y1

	tMin, tMax := 0.0, 1.0

	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x1 - r.Left, r.Right - x1, y1 - r.Top, r.Bottom - y1}

	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			// Parallel to this edge: outside means no hit at all
			if q[i] < 0 {
				return 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > tMax {
				return 0, false
			}
			if t > tMin {
				tMin = t
			}
		} else {
			if t < tMin {
				return 0, false
			}
			if t < tMax {
				tMax = t
			}
		}
	}

	return tMin, true
}
