package render

import (
	"math"

	"github.com/lixenwraith/algebra-worms/core"
)

// Viewport maps arena coordinates onto a grid of terminal cells
type Viewport struct {
	Arena      core.Rect
	Cols, Rows int
}

// NewViewport creates a viewport; degenerate sizes are raised to one cell
func NewViewport(arena core.Rect, cols, rows int) Viewport {
	return Viewport{Arena: arena, Cols: max(cols, 1), Rows: max(rows, 1)}
}

// CellSize returns the arena extent of one cell
func (v Viewport) CellSize() (w, h float64) {
	return v.Arena.Width / float64(v.Cols), v.Arena.Height / float64(v.Rows)
}

// ToCell projects an arena point, ok false when it falls outside the grid
func (v Viewport) ToCell(x, y float64) (col, row int, ok bool) {
	cw, ch := v.CellSize()
	if cw <= 0 || ch <= 0 {
		return 0, 0, false
	}
	col = int(math.Floor((x - v.Arena.Left) / cw))
	row = int(math.Floor((y - v.Arena.Top) / ch))
	ok = col >= 0 && col < v.Cols && row >= 0 && row < v.Rows
	return col, row, ok
}

// ToArena returns the arena center of a cell
func (v Viewport) ToArena(col, row int) (x, y float64) {
	cw, ch := v.CellSize()
	return v.Arena.Left + (float64(col)+0.5)*cw, v.Arena.Top + (float64(row)+0.5)*ch
}

// CellRect returns the arena rectangle covered by a block of cells
func (v Viewport) CellRect(col, row, cols, rows int) core.Rect {
	cw, ch := v.CellSize()
	return core.NewRect(v.Arena.Left+float64(col)*cw, v.Arena.Top+float64(row)*ch, float64(cols)*cw, float64(rows)*ch)
}
