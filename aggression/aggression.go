// Package aggression maps worm-to-target distance onto pursuit intensity
package aggression

import (
	"errors"
	"fmt"
	"math"

	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/vmath"
)

// ErrInvalidRange is returned by Validate when MaxDistance does not exceed MinDistance
var ErrInvalidRange = errors.New("aggression: max distance must exceed min distance")

// Config holds the interpolation band and behaviour gates
type Config struct {
	MinDistance         float64 `yaml:"min_distance" json:"minDistance"`
	MaxDistance         float64 `yaml:"max_distance" json:"maxDistance"`
	MaxSpeedBoost       float64 `yaml:"max_speed_boost" json:"maxSpeedBoost"`
	PathfindingDistance float64 `yaml:"pathfinding_distance" json:"pathfindingDistance"`
	InterceptDistance   float64 `yaml:"intercept_distance" json:"interceptDistance"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		MinDistance:         parameter.AggressionMinDistance,
		MaxDistance:         parameter.AggressionMaxDistance,
		MaxSpeedBoost:       parameter.AggressionMaxSpeedBoost,
		PathfindingDistance: parameter.AggressionPathfindingDistance,
		InterceptDistance:   parameter.AggressionInterceptDistance,
	}
}

// Validate rejects a non-positive interpolation span
// Compute assumes a validated config and does not re-check per frame
func (c Config) Validate() error {
	if !(c.MaxDistance > c.MinDistance) {
		return fmt.Errorf("%w (min=%v max=%v)", ErrInvalidRange, c.MinDistance, c.MaxDistance)
	}
	if c.MaxSpeedBoost < 0 || math.IsNaN(c.MaxSpeedBoost) {
		return fmt.Errorf("aggression: max speed boost must be >= 0, got %v", c.MaxSpeedBoost)
	}
	return nil
}

// Result is the per-frame aggression reading for one worm
type Result struct {
	Level           float64 // [0, 1], 1 at/below MinDistance
	SpeedMultiplier float64 // 1 + Level*MaxSpeedBoost
	UsePathfinding  bool
	UseIntercept    bool
}

// Compute derives aggression from distance to target
// Pure; gates are independent thresholds, intercept does not force pathfinding
func Compute(distance float64, cfg Config) Result {
	d := math.Max(0, distance)
	level := vmath.Clamp01(1 - (d-cfg.MinDistance)/(cfg.MaxDistance-cfg.MinDistance))

	return Result{
		Level:           level,
		SpeedMultiplier: 1 + level*cfg.MaxSpeedBoost,
		UsePathfinding:  distance <= cfg.PathfindingDistance,
		UseIntercept:    distance <= cfg.InterceptDistance,
	}
}

// Idle is the reading used for targetless worms
func Idle() Result {
	return Result{SpeedMultiplier: 1}
}
