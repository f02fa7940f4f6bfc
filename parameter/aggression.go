package parameter

// Aggression Model
const (
	// AggressionMinDistance is the distance (px) at or below which aggression saturates at 1
	AggressionMinDistance = 50.0

	// AggressionMaxDistance is the distance (px) at or beyond which aggression is 0
	AggressionMaxDistance = 500.0

	// AggressionMaxSpeedBoost is the speed multiplier gain at full aggression
	// Applied as: speedMultiplier = 1 + level * AggressionMaxSpeedBoost
	AggressionMaxSpeedBoost = 1.5

	// AggressionPathfindingDistance enables obstacle steering at or below this distance
	AggressionPathfindingDistance = 300.0

	// AggressionInterceptDistance enables lead-point intercept at or below this distance
	AggressionInterceptDistance = 150.0
)
