package config

import "time"

// Tier names
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// QualityTier is a flat record of density and effects knobs
// The simulation only reads these, it never inspects the device itself
type QualityTier struct {
	MaxWorms            int           `yaml:"max_worms" json:"maxWorms"`
	ParticleCount       int           `yaml:"particle_count" json:"particleCount"`
	SpawnRateMultiplier float64       `yaml:"spawn_rate_multiplier" json:"spawnRateMultiplier"`
	TrailLength         int           `yaml:"trail_length" json:"trailLength"`
	ObstacleAvoidance   bool          `yaml:"obstacle_avoidance" json:"obstacleAvoidance"`
	NearMissWarnings    bool          `yaml:"near_miss_warnings" json:"nearMissWarnings"`
	FrameInterval       time.Duration `yaml:"frame_interval" json:"frameInterval"`
}

// DefaultTiers returns the built-in low/medium/high table
func DefaultTiers() map[string]QualityTier {
	return map[string]QualityTier{
		TierLow: {
			MaxWorms:            30,
			ParticleCount:       10,
			SpawnRateMultiplier: 0.6,
			TrailLength:         0,
			ObstacleAvoidance:   false,
			NearMissWarnings:    false,
			FrameInterval:       33 * time.Millisecond,
		},
		TierMedium: {
			MaxWorms:            100,
			ParticleCount:       30,
			SpawnRateMultiplier: 0.85,
			TrailLength:         4,
			ObstacleAvoidance:   true,
			NearMissWarnings:    true,
			FrameInterval:       16 * time.Millisecond,
		},
		TierHigh: {
			MaxWorms:            999,
			ParticleCount:       60,
			SpawnRateMultiplier: 1.0,
			TrailLength:         8,
			ObstacleAvoidance:   true,
			NearMissWarnings:    true,
			FrameInterval:       16 * time.Millisecond,
		},
	}
}

// DeviceProfile is what the host reports about the device
type DeviceProfile struct {
	CPUCores      int     `yaml:"cpu_cores" json:"cpuCores"`
	MemoryGB      float64 `yaml:"memory_gb" json:"memoryGb"`
	Mobile        bool    `yaml:"mobile" json:"mobile"`
	ReducedMotion bool    `yaml:"reduced_motion" json:"reducedMotion"`
}

// DetectTier buckets a device into a tier name
func DetectTier(p DeviceProfile) string {
	switch {
	case p.ReducedMotion, p.MemoryGB > 0 && p.MemoryGB < 2, p.Mobile && p.CPUCores <= 4:
		return TierLow
	case !p.Mobile && p.CPUCores >= 8 && p.MemoryGB >= 8:
		return TierHigh
	default:
		return TierMedium
	}
}

// SelectedTier returns the configured tier, detecting it when unset
func (c Config) SelectedTier() (string, QualityTier) {
	name := c.Tier
	if name == "" {
		name = DetectTier(c.Device)
	}
	tier, ok := c.Quality[name]
	if !ok {
		name = TierMedium
		tier = DefaultTiers()[TierMedium]
	}
	return name, tier
}

// Resolved folds the selected tier into the component configs
// Tier limits only ever tighten the explicit settings
func (c Config) Resolved() Config {
	name, tier := c.SelectedTier()
	out := c
	out.Tier = name

	if tier.MaxWorms > 0 && tier.MaxWorms < out.Spawn.MaxWorms {
		out.Spawn.MaxWorms = tier.MaxWorms
	}
	if tier.SpawnRateMultiplier > 0 {
		out.Spawn.Delay = time.Duration(float64(out.Spawn.Delay) / tier.SpawnRateMultiplier)
	}
	out.Behavior.AvoidObstacles = out.Behavior.AvoidObstacles && tier.ObstacleAvoidance
	out.NearMiss.Enabled = out.NearMiss.Enabled && tier.NearMissWarnings
	if tier.FrameInterval > 0 {
		out.Engine.FrameInterval = tier.FrameInterval
	}
	return out
}
