package parameter

import "time"

// Spawn Queue
const (
	// SpawnQueueDelay is the gap between dequeued spawns when more remain
	SpawnQueueDelay = 50 * time.Millisecond

	// SpawnMaxWorms is the default concurrent worm ceiling (quality tiers override)
	SpawnMaxWorms = 999

	// ConsoleSlotCount is the number of console origins worms can emerge from
	ConsoleSlotCount = 9
)
