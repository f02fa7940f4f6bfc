package parameter

import "time"

// Obstacle Map
const (
	// ObstacleCacheDuration is the window a computed rect list is served unchanged
	ObstacleCacheDuration = 200 * time.Millisecond

	// ObstaclePadding grows every obstacle rect outward (px)
	ObstaclePadding = 10.0
)

// DefaultObstacleSelectors names the UI chrome regions worms steer around
var DefaultObstacleSelectors = []string{
	"#hint-button",
	"#help-button",
	".hud",
	"#symbol-console",
	".power-up-display",
}
