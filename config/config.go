// Package config aggregates every simulation knob, loads it from YAML and the environment,
// and validates it once before the engine starts
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/lixenwraith/algebra-worms/aggression"
	"github.com/lixenwraith/algebra-worms/behavior"
	"github.com/lixenwraith/algebra-worms/cursor"
	"github.com/lixenwraith/algebra-worms/obstacle"
	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/powerup"
	"github.com/lixenwraith/algebra-worms/spawn"
)

var (
	ErrInvalidAggression = errors.New("config: invalid aggression")
	ErrInvalidDuration   = errors.New("config: duration must be positive")
	ErrInvalidNearMiss   = errors.New("config: near-miss radii must satisfy critical < urgent < radius")
	ErrUnknownTier       = errors.New("config: unknown quality tier")
	ErrInvalidCodec      = errors.New("config: codec must be json or msgpack")
)

// Worm holds per-entity kinematics
type Worm struct {
	BaseSpeed         float64       `yaml:"base_speed" json:"baseSpeed"`
	PurpleSpeedFactor float64       `yaml:"purple_speed_factor" json:"purpleSpeedFactor"`
	EscapeDuration    time.Duration `yaml:"escape_duration" json:"escapeDuration"`
	EscapeSpeed       float64       `yaml:"escape_speed" json:"escapeSpeed"`
	StealRadius       float64       `yaml:"steal_radius" json:"stealRadius"`
}

// NearMiss holds the warning bands around a targeted symbol
type NearMiss struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	Radius         float64 `yaml:"radius" json:"radius"`
	UrgentRadius   float64 `yaml:"urgent_radius" json:"urgentRadius"`
	CriticalRadius float64 `yaml:"critical_radius" json:"criticalRadius"`
}

// Engine holds frame loop tuning
type Engine struct {
	FrameInterval       time.Duration `yaml:"frame_interval" json:"frameInterval"`
	SymbolCacheDuration time.Duration `yaml:"symbol_cache_duration" json:"symbolCacheDuration"`
	Seed                uint64        `yaml:"seed" json:"seed"` // 0 seeds from the clock
}

// Audio holds cue playback settings
type Audio struct {
	Enabled      bool               `yaml:"enabled" json:"enabled"`
	MasterVolume float64            `yaml:"master_volume" json:"masterVolume"`
	CueVolumes   map[string]float64 `yaml:"cue_volumes" json:"cueVolumes"`
}

// Network holds the websocket server settings
type Network struct {
	Addr             string        `yaml:"addr" json:"addr"`
	Codec            string        `yaml:"codec" json:"codec"` // default codec when the client does not ask
	SnapshotInterval time.Duration `yaml:"snapshot_interval" json:"snapshotInterval"`
	WriteTimeout     time.Duration `yaml:"write_timeout" json:"writeTimeout"`
	MaxSessions      int           `yaml:"max_sessions" json:"maxSessions"`
}

// Config is the complete, injected configuration surface
type Config struct {
	Tier    string                 `yaml:"tier" json:"tier"` // "" selects by device detection
	Quality map[string]QualityTier `yaml:"quality" json:"quality"`
	Device  DeviceProfile          `yaml:"device" json:"device"`

	Aggression aggression.Config `yaml:"aggression" json:"aggression"`
	Cursor     cursor.Config     `yaml:"cursor" json:"cursor"`
	Obstacle   obstacle.Config   `yaml:"obstacle" json:"obstacle"`
	Spawn      spawn.Config      `yaml:"spawn" json:"spawn"`
	PowerUp    powerup.Config    `yaml:"powerup" json:"powerup"`
	Behavior   behavior.Config   `yaml:"behavior" json:"behavior"`
	Worm       Worm              `yaml:"worm" json:"worm"`
	NearMiss   NearMiss          `yaml:"near_miss" json:"nearMiss"`
	Engine     Engine            `yaml:"engine" json:"engine"`
	Audio      Audio             `yaml:"audio" json:"audio"`
	Network    Network           `yaml:"network" json:"network"`
}

// Default returns a fully populated configuration
func Default() Config {
	return Config{
		Quality:    DefaultTiers(),
		Device:     DeviceProfile{CPUCores: 4, MemoryGB: 4},
		Aggression: aggression.DefaultConfig(),
		Cursor:     cursor.DefaultConfig(),
		Obstacle:   obstacle.DefaultConfig(),
		Spawn:      spawn.DefaultConfig(),
		PowerUp:    powerup.DefaultConfig(),
		Behavior:   behavior.DefaultConfig(),
		Worm: Worm{
			BaseSpeed:         parameter.WormBaseSpeed,
			PurpleSpeedFactor: parameter.WormPurpleSpeedFactor,
			EscapeDuration:    parameter.WormEscapeDuration,
			EscapeSpeed:       parameter.WormEscapeSpeed,
			StealRadius:       parameter.WormStealRadius,
		},
		NearMiss: NearMiss{
			Enabled:        true,
			Radius:         parameter.NearMissRadius,
			UrgentRadius:   parameter.NearMissUrgentRadius,
			CriticalRadius: parameter.NearMissCritical,
		},
		Engine: Engine{
			FrameInterval:       parameter.FrameInterval,
			SymbolCacheDuration: parameter.SymbolCacheDuration,
		},
		Audio: Audio{
			Enabled:      true,
			MasterVolume: 0.5,
			CueVolumes:   map[string]float64{},
		},
		Network: Network{
			Addr:             ":8080",
			Codec:            "json",
			SnapshotInterval: parameter.SnapshotInterval,
			WriteTimeout:     parameter.WriteTimeout,
			MaxSessions:      parameter.MaxSessions,
		},
	}
}

// Validate rejects configurations the simulation cannot run with
// Per-frame code assumes a validated config and never re-checks
func (c Config) Validate() error {
	var errs []error

	if err := c.Aggression.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidAggression, err))
	}

	durations := map[string]time.Duration{
		"obstacle.cache_duration":      c.Obstacle.CacheDuration,
		"engine.frame_interval":        c.Engine.FrameInterval,
		"engine.symbol_cache_duration": c.Engine.SymbolCacheDuration,
		"worm.escape_duration":         c.Worm.EscapeDuration,
		"network.snapshot_interval":    c.Network.SnapshotInterval,
		"network.write_timeout":        c.Network.WriteTimeout,
	}
	for name, d := range durations {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%v", ErrInvalidDuration, name, d))
		}
	}
	if c.Cursor.Throttle < 0 || c.Spawn.Delay < 0 {
		errs = append(errs, fmt.Errorf("%w: cursor.throttle and spawn.delay must be >= 0", ErrInvalidDuration))
	}

	if c.Spawn.MaxWorms <= 0 {
		errs = append(errs, fmt.Errorf("config: spawn.max_worms must be positive, got %d", c.Spawn.MaxWorms))
	}
	if c.Worm.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("config: worm.base_speed must be positive, got %v", c.Worm.BaseSpeed))
	}
	if c.PowerUp.HitThreshold <= 0 || c.PowerUp.ChainKillCount <= 0 {
		errs = append(errs, errors.New("config: powerup threshold and chain kill count must be positive"))
	}

	nm := c.NearMiss
	if !(nm.CriticalRadius < nm.UrgentRadius && nm.UrgentRadius < nm.Radius) {
		errs = append(errs, fmt.Errorf("%w (%v, %v, %v)", ErrInvalidNearMiss, nm.CriticalRadius, nm.UrgentRadius, nm.Radius))
	}

	if c.Tier != "" {
		if _, ok := c.Quality[c.Tier]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownTier, c.Tier))
		}
	}
	for name, tier := range c.Quality {
		if tier.MaxWorms <= 0 {
			errs = append(errs, fmt.Errorf("config: quality.%s.max_worms must be positive", name))
		}
		if tier.SpawnRateMultiplier <= 0 {
			errs = append(errs, fmt.Errorf("config: quality.%s.spawn_rate_multiplier must be positive", name))
		}
	}

	if c.Network.MaxSessions <= 0 {
		errs = append(errs, fmt.Errorf("config: network.max_sessions must be positive, got %d", c.Network.MaxSessions))
	}
	switch c.Network.Codec {
	case "json", "msgpack":
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidCodec, c.Network.Codec))
	}

	return errors.Join(errs...)
}
