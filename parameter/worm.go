package parameter

import "time"

// Worm Entity
const (
	// WormBaseSpeed is the cruising speed in px/sec before aggression scaling
	WormBaseSpeed = 120.0

	// WormPurpleSpeedFactor scales purple worm base speed
	WormPurpleSpeedFactor = 1.15

	// WormRadius inflates obstacle rects during avoidance (px)
	WormRadius = 12.0

	// WormCrawlPhaseRate advances the animation phase per second (radians)
	WormCrawlPhaseRate = 8.0

	// WormWanderDrift is the max heading drift per second while idle (radians)
	WormWanderDrift = 1.2

	// WormWanderSpeedFactor scales speed while wandering
	WormWanderSpeedFactor = 0.5

	// WormEscapeDuration is the flee burst length after a click
	WormEscapeDuration = 800 * time.Millisecond

	// WormEscapeSpeed is the flee burst speed in px/sec
	WormEscapeSpeed = 480.0

	// WormStealRadius is the distance to target center that counts as contact (px)
	WormStealRadius = 15.0

	// WormMaxAvoidAngle bounds obstacle deflection per frame (radians)
	WormMaxAvoidAngle = 1.6

	// WormFrameDeltaCap bounds integration step after a stalled frame
	WormFrameDeltaCap = 100 * time.Millisecond
)

// Near-miss warning bands (px from target center)
const (
	NearMissRadius       = 100.0
	NearMissUrgentRadius = 60.0
	NearMissCritical     = 30.0
)

// Intercept lead extrapolation
const (
	// WormLeadTimeMax caps how far ahead a moving target is extrapolated
	WormLeadTimeMax = 1500 * time.Millisecond

	// WormAvoidMargin is added to the clearing angle so the path skims past the corner (radians)
	WormAvoidMargin = 0.05
)
