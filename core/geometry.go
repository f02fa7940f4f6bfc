package core

// Point is a viewport position in pixels
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Rect is an axis-aligned viewport rectangle in pixels
// Right/Bottom are kept alongside Width/Height so consumers never recompute them per frame
type Rect struct {
	Left   float64 `json:"left" msgpack:"left"`
	Top    float64 `json:"top" msgpack:"top"`
	Right  float64 `json:"right" msgpack:"right"`
	Bottom float64 `json:"bottom" msgpack:"bottom"`
	Width  float64 `json:"width" msgpack:"width"`
	Height float64 `json:"height" msgpack:"height"`
}

// NewRect builds a rect from its top-left corner and size
func NewRect(left, top, width, height float64) Rect {
	return Rect{
		Left:   left,
		Top:    top,
		Right:  left + width,
		Bottom: top + height,
		Width:  width,
		Height: height,
	}
}

// Center returns the rect midpoint
func (r Rect) Center() Point {
	return Point{X: r.Left + r.Width/2, Y: r.Top + r.Height/2}
}

// Empty reports a zero or negative area rect
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Pad grows the rect outward by p on every side
func (r Rect) Pad(p float64) Rect {
	return NewRect(r.Left-p, r.Top-p, r.Width+2*p, r.Height+2*p)
}

// Contains reports whether (x, y) lies inside the rect, edges inclusive
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}
