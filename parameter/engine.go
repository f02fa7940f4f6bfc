package parameter

import "time"

// Engine
const (
	// FrameInterval is the animation frame period (60Hz)
	FrameInterval = 16 * time.Millisecond

	// SymbolCacheDuration bounds staleness of the eligible-symbol snapshot
	SymbolCacheDuration = 100 * time.Millisecond

	// EventQueueSize is the smallest event ring, a power of 2 for mask indexing
	EventQueueSize = 256

	// EventsPerWormFrame bounds what one worm can raise in a frame:
	// steal, near-miss change, escape and removal
	EventsPerWormFrame = 4

	// InputQueueSize bounds pointer/layout messages waiting for the next tick
	InputQueueSize = 512
)
