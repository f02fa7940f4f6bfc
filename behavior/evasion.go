package behavior

import (
	"time"

	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

// Evasion decides whether the cursor repels a worm this frame
type Evasion struct {
	Range float64
}

// TryEvade returns the unit flee direction away from the cursor
// handled is false while the worm's escape burst runs, when the cursor is inactive,
// or when it is out of range; the caller then falls through to lower-precedence steering
func (e Evasion) TryEvade(w *worm.Worm, c cursor.State, now time.Time) (dirX, dirY float64, handled bool) {
	if w.Escaping(now) || !c.IsActive {
		return 0, 0, false
	}

	dx, dy := w.X-c.X, w.Y-c.Y
	if dx*dx+dy*dy > e.Range*e.Range {
		return 0, 0, false
	}

	dirX, dirY = vmath.Normalize2D(dx, dy)
	if dirX == 0 && dirY == 0 {
		// Cursor exactly on the worm: flee along the current heading
		dirX, dirY = vmath.RotateVector(1, 0, w.Heading)
	}
	return dirX, dirY, true
}
