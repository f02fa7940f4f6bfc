package parameter

import "time"

// Cursor Tracker
const (
	// CursorThrottle is the minimum gap between accepted pointer moves (~60Hz ceiling)
	CursorThrottle = 16 * time.Millisecond

	// CursorEvasionRange is the distance (px) inside which an active cursor repels worms
	CursorEvasionRange = 120.0
)
