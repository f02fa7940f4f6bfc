package behavior

import (
	"math"
	"time"

	"github.com/lixenwraith/algebra-worms/aggression"
	"github.com/lixenwraith/algebra-worms/core"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/symbol"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

// Frame is everything one worm update reads besides the worm itself
type Frame struct {
	Now        time.Time
	DT         time.Duration
	Cursor     cursor.State
	Obstacles  []core.Rect
	Target     *symbol.Symbol // nil when the worm has nothing to chase
	Aggression aggression.Result
	RNG        *vmath.FastRand // nil disables wander drift
	Bounds     core.Rect       // empty means unbounded
}

// Controller applies steering precedence and integrates motion
// Precedence, highest first: escape burst, cursor evasion, devil rush, pursue/intercept, wander
type Controller struct {
	cfg     Config
	evasion Evasion
}

// NewController creates a controller
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg, evasion: Evasion{Range: cfg.EvasionRange}}
}

// Config returns the active configuration
func (c *Controller) Config() Config {
	return c.cfg
}

// Evasion exposes the cursor evasion strategy
func (c *Controller) Evasion() Evasion {
	return c.evasion
}

// Update advances w by one frame and returns the state that drove it
func (c *Controller) Update(w *worm.Worm, f Frame) worm.State {
	dt := f.DT
	if c.cfg.FrameDeltaCap > 0 && dt > c.cfg.FrameDeltaCap {
		dt = c.cfg.FrameDeltaCap
	}
	secs := math.Max(0, dt.Seconds())

	var (
		dirX, dirY float64
		speed      float64
		state      worm.State
	)
	boosted := w.BaseSpeed * f.Aggression.SpeedMultiplier

	if w.Escaping(f.Now) {
		// Stored vector is a velocity, not a direction
		speed = vmath.Magnitude(w.EscapeVX, w.EscapeVY)
		dirX, dirY = vmath.Normalize2D(w.EscapeVX, w.EscapeVY)
		state = worm.StateEscape
	} else if ex, ey, ok := c.evasion.TryEvade(w, f.Cursor, f.Now); ok {
		dirX, dirY = ex, ey
		speed = boosted
		state = worm.StateEvade
	} else if w.DevilActive(f.Now) {
		dirX, dirY, speed = c.seek(w, w.DevilX, w.DevilY, boosted, f.Obstacles, true)
		state = worm.StateDevilRush
	} else if f.Target != nil {
		goal := f.Target.Center()
		state = worm.StatePursue
		if f.Aggression.UseIntercept && (f.Target.VX != 0 || f.Target.VY != 0) {
			goal = c.leadPoint(w, goal, f.Target.VX, f.Target.VY, boosted)
			state = worm.StateIntercept
		}
		dirX, dirY, speed = c.seek(w, goal.X, goal.Y, boosted, f.Obstacles, f.Aggression.UsePathfinding)
		w.RushingToTarget = true
	} else {
		w.RushingToTarget = false
		if f.RNG != nil && c.cfg.WanderDrift > 0 {
			w.Heading = vmath.NormalizeAngle(w.Heading + f.RNG.Range(-c.cfg.WanderDrift, c.cfg.WanderDrift)*secs)
		}
		dirX, dirY = vmath.RotateVector(1, 0, w.Heading)
		speed = w.BaseSpeed * c.cfg.WanderSpeedFactor
		state = worm.StateWander
	}

	c.integrate(w, dirX, dirY, speed, secs, f.Bounds)
	w.State = state
	w.Aggression = f.Aggression
	return state
}

// seek steers toward (gx, gy), deflecting around obstacles when allowed
// Inside the arrive radius the worm stops rather than orbiting the goal
func (c *Controller) seek(w *worm.Worm, gx, gy, speed float64, obstacles []core.Rect, pathfind bool) (float64, float64, float64) {
	dx, dy := gx-w.X, gy-w.Y
	dist := vmath.Magnitude(dx, dy)
	if dist <= c.cfg.ArriveRadius/2 {
		return 0, 0, 0
	}

	dirX, dirY := dx/dist, dy/dist
	if pathfind && c.cfg.AvoidObstacles && len(obstacles) > 0 {
		dirX, dirY, _ = Deflect(w.X, w.Y, dirX, dirY, dist, obstacles, c.cfg.WormRadius, c.cfg.MaxAvoidAngle)
	}
	return dirX, dirY, speed
}

// leadPoint extrapolates a moving target by the time the worm needs to reach it
func (c *Controller) leadPoint(w *worm.Worm, goal core.Point, vx, vy, speed float64) core.Point {
	if speed <= 0 {
		return goal
	}
	lead := vmath.Distance(w.X, w.Y, goal.X, goal.Y) / speed
	if limit := c.cfg.LeadTimeMax.Seconds(); limit > 0 && lead > limit {
		lead = limit
	}
	return core.Point{X: goal.X + vx*lead, Y: goal.Y + vy*lead}
}

func (c *Controller) integrate(w *worm.Worm, dirX, dirY, speed, secs float64, bounds core.Rect) {
	prevX, prevY := w.X, w.Y

	w.VX, w.VY = dirX*speed, dirY*speed
	w.CurrentSpeed = speed
	w.X += w.VX * secs
	w.Y += w.VY * secs

	if !bounds.Empty() {
		if w.X < bounds.Left || w.X > bounds.Right {
			w.X = vmath.Clamp(w.X, bounds.Left, bounds.Right)
			w.VX = -w.VX
		}
		if w.Y < bounds.Top || w.Y > bounds.Bottom {
			w.Y = vmath.Clamp(w.Y, bounds.Top, bounds.Bottom)
			w.VY = -w.VY
		}
	}

	if !vmath.Finite(w.X) || !vmath.Finite(w.Y) {
		w.X, w.Y = prevX, prevY
		w.VX, w.VY = 0, 0
		w.CurrentSpeed = 0
	}

	if w.VX != 0 || w.VY != 0 {
		w.Heading = math.Atan2(w.VY, w.VX)
	}
	w.CrawlPhase = math.Mod(w.CrawlPhase+c.cfg.CrawlPhaseRate*secs, 2*math.Pi)
}
