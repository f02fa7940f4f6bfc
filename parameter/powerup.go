package parameter

import "time"

// Power-up Targeting
const (
	// PowerUpHitThreshold is the click radius (px) for click-to-target power-ups
	PowerUpHitThreshold = 50.0

	// PowerUpChainKillCount is how many worms chain lightning removes
	PowerUpChainKillCount = 5
)

// PowerUpDevilDuration is how long a devil lure pulls every worm
const PowerUpDevilDuration = 5 * time.Second
