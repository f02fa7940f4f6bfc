// Package powerup resolves which worms a power-up hits
package powerup

import (
	"sort"
	"time"

	"github.com/lixenwraith/algebra-worms/parameter"
	"github.com/lixenwraith/algebra-worms/vmath"
	"github.com/lixenwraith/algebra-worms/worm"
)

// Kind names a power-up
type Kind string

const (
	KindSpider Kind = "spider" // converts the clicked worm
	KindChain  Kind = "chain"  // chain lightning from the nearest worm
	KindDevil  Kind = "devil"  // lures every worm to a point
)

// Valid reports a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindSpider, KindChain, KindDevil:
		return true
	}
	return false
}

// Config holds targeting thresholds
type Config struct {
	HitThreshold   float64       `yaml:"hit_threshold" json:"hitThreshold"`
	ChainKillCount int           `yaml:"chain_kill_count" json:"chainKillCount"`
	ExcludeOrigin  bool          `yaml:"exclude_origin" json:"excludeOrigin"`
	DevilDuration  time.Duration `yaml:"devil_duration" json:"devilDuration"`
}

// DefaultConfig returns the tuned defaults, chain lightning counts its origin
func DefaultConfig() Config {
	return Config{
		HitThreshold:   parameter.PowerUpHitThreshold,
		ChainKillCount: parameter.PowerUpChainKillCount,
		DevilDuration:  parameter.PowerUpDevilDuration,
	}
}

// FindWormAtPosition returns the first active worm, in spawn order, strictly within threshold of (x, y)
// First match, not nearest match
func FindWormAtPosition(worms []*worm.Worm, x, y, threshold float64) *worm.Worm {
	limit := threshold * threshold
	for _, w := range worms {
		if !w.Active {
			continue
		}
		if vmath.DistanceSq(w.X, w.Y, x, y) < limit {
			return w
		}
	}
	return nil
}

// FindNearestWorm returns the closest active worm or nil
func FindNearestWorm(worms []*worm.Worm, x, y float64) *worm.Worm {
	var best *worm.Worm
	bestDist := 0.0
	for _, w := range worms {
		if !w.Active {
			continue
		}
		d := vmath.DistanceSq(w.X, w.Y, x, y)
		if best == nil || d < bestDist {
			best, bestDist = w, d
		}
	}
	return best
}

// ChainLightningTargets ranks active worms by distance from origin and returns the first killCount
// The origin, at distance 0, heads the list unless excludeOrigin is set
func ChainLightningTargets(worms []*worm.Worm, origin *worm.Worm, killCount int, excludeOrigin bool) []*worm.Worm {
	if origin == nil || killCount <= 0 {
		return nil
	}

	ranked := make([]*worm.Worm, 0, len(worms))
	for _, w := range worms {
		if !w.Active || (excludeOrigin && w == origin) {
			continue
		}
		ranked = append(ranked, w)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return vmath.DistanceSq(ranked[i].X, ranked[i].Y, origin.X, origin.Y) <
			vmath.DistanceSq(ranked[j].X, ranked[j].Y, origin.X, origin.Y)
	})

	if len(ranked) > killCount {
		ranked = ranked[:killCount]
	}
	return ranked
}

// Targeter binds the finders to a config
type Targeter struct {
	cfg Config
}

// NewTargeter creates a targeter
func NewTargeter(cfg Config) *Targeter {
	return &Targeter{cfg: cfg}
}

// Config returns the active configuration
func (t *Targeter) Config() Config {
	return t.cfg
}

// At is FindWormAtPosition with the configured threshold
func (t *Targeter) At(worms []*worm.Worm, x, y float64) *worm.Worm {
	return FindWormAtPosition(worms, x, y, t.cfg.HitThreshold)
}

// Chain is ChainLightningTargets with the configured count and origin policy
func (t *Targeter) Chain(worms []*worm.Worm, origin *worm.Worm) []*worm.Worm {
	return ChainLightningTargets(worms, origin, t.cfg.ChainKillCount, t.cfg.ExcludeOrigin)
}
