// Package scheduler provides the animation-frame and timer primitives the simulation runs on
// Every callback executes on a single owner goroutine, so simulation state needs no locks
package scheduler

import "time"

// Handle cancels a pending frame or timer callback
type Handle interface {
	// Cancel prevents the callback from running, returns false if it already ran or was cancelled
	Cancel() bool
}

// Scheduler is the host event loop as seen by simulation components
type Scheduler interface {
	// Now returns the scheduler's notion of current time
	Now() time.Time

	// RequestFrame runs fn once on the next animation frame
	RequestFrame(fn func(now time.Time)) Handle

	// After runs fn once after d has elapsed
	After(d time.Duration, fn func()) Handle
}

// Poster runs fn on the owner goroutine at the next opportunity
// Input arriving on other goroutines enters the simulation through Post
type Poster interface {
	Post(fn func())
}
