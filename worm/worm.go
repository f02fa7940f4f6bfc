// Package worm defines the worm entity and the collection that owns it
package worm

import (
	"time"

	"github.com/lixenwraith/algebra-worms/aggression"
	"github.com/lixenwraith/algebra-worms/core"
)

// State is the behaviour selected for the last frame
type State uint8

const (
	StateWander State = iota
	StatePursue
	StateIntercept
	StateEvade
	StateEscape
	StateDevilRush
)

var stateNames = [...]string{
	StateWander:    "wander",
	StatePursue:    "pursue",
	StateIntercept: "intercept",
	StateEvade:     "evade",
	StateEscape:    "escape",
	StateDevilRush: "devil-rush",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Worm is a mutable simulation entity
// Owned by Collection and mutated only on the frame loop goroutine
type Worm struct {
	// Identity
	ID           string
	Kind         string
	Purple       bool
	CanStealBlue bool
	FromConsole  bool
	Slot         int // console origin slot, -1 when not from console

	// Kinematics, viewport px and px/sec
	X, Y         float64
	VX, VY       float64
	BaseSpeed    float64
	CurrentSpeed float64
	Heading      float64 // radians
	CrawlPhase   float64 // animation only

	// Targeting
	TargetText string // normalized, "" when unlocked
	TargetID   int    // symbol arena id, 0 when unlocked

	// Status
	Active          bool
	HasStolen       bool
	RushingToDevil  bool
	RushingToTarget bool
	DevilX, DevilY  float64
	DevilUntil      time.Time
	EscapeUntil     time.Time
	EscapeVX        float64
	EscapeVY        float64

	// Last frame readings, exposed in snapshots
	State      State
	Aggression aggression.Result
	SpawnedAt  time.Time
}

// Position returns the worm position as a point
func (w *Worm) Position() core.Point {
	return core.Point{X: w.X, Y: w.Y}
}

// Escaping reports whether the flee burst is still running at now
func (w *Worm) Escaping(now time.Time) bool {
	return now.Before(w.EscapeUntil)
}

// StartEscape arms the flee burst along (vx, vy)
func (w *Worm) StartEscape(now time.Time, d time.Duration, vx, vy float64) {
	w.EscapeUntil = now.Add(d)
	w.EscapeVX, w.EscapeVY = vx, vy
}

// DevilActive reports whether a devil rush is still pulling the worm
func (w *Worm) DevilActive(now time.Time) bool {
	return w.RushingToDevil && now.Before(w.DevilUntil)
}

// ClearTarget drops the sticky target lock
func (w *Worm) ClearTarget() {
	w.TargetText = ""
	w.TargetID = 0
	w.RushingToTarget = false
}
