// Package behavior runs the per-frame worm steering state machine
package behavior

import (
	"time"

	"github.com/lixenwraith/algebra-worms/parameter"
)

// Config holds steering tuning
type Config struct {
	EvasionRange      float64       `yaml:"evasion_range" json:"evasionRange"`
	WormRadius        float64       `yaml:"worm_radius" json:"wormRadius"`
	MaxAvoidAngle     float64       `yaml:"max_avoid_angle" json:"maxAvoidAngle"`
	WanderDrift       float64       `yaml:"wander_drift" json:"wanderDrift"`
	WanderSpeedFactor float64       `yaml:"wander_speed_factor" json:"wanderSpeedFactor"`
	CrawlPhaseRate    float64       `yaml:"crawl_phase_rate" json:"crawlPhaseRate"`
	ArriveRadius      float64       `yaml:"arrive_radius" json:"arriveRadius"`
	LeadTimeMax       time.Duration `yaml:"lead_time_max" json:"leadTimeMax"`
	FrameDeltaCap     time.Duration `yaml:"frame_delta_cap" json:"frameDeltaCap"`

	// AvoidObstacles is the quality-tier switch; pathfinding gates still apply when on
	AvoidObstacles bool `yaml:"avoid_obstacles" json:"avoidObstacles"`
}

// DefaultConfig returns the tuned defaults
func DefaultConfig() Config {
	return Config{
		EvasionRange:      parameter.CursorEvasionRange,
		WormRadius:        parameter.WormRadius,
		MaxAvoidAngle:     parameter.WormMaxAvoidAngle,
		WanderDrift:       parameter.WormWanderDrift,
		WanderSpeedFactor: parameter.WormWanderSpeedFactor,
		CrawlPhaseRate:    parameter.WormCrawlPhaseRate,
		ArriveRadius:      parameter.WormStealRadius,
		LeadTimeMax:       parameter.WormLeadTimeMax,
		FrameDeltaCap:     parameter.WormFrameDeltaCap,
		AvoidObstacles:    true,
	}
}
