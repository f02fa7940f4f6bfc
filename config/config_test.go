package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidateRejectsInvertedAggression(t *testing.T) {
	cfg := Default()
	cfg.Aggression.MinDistance = 500
	cfg.Aggression.MaxDistance = 500
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidAggression)
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.Obstacle.CacheDuration = 0
	cfg.NearMiss.CriticalRadius = 200
	cfg.Tier = "ultra"
	cfg.Network.Codec = "xml"

	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidDuration)
	assert.ErrorIs(t, err, ErrInvalidNearMiss)
	assert.ErrorIs(t, err, ErrUnknownTier)
	assert.ErrorIs(t, err, ErrInvalidCodec)
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
tier: low
aggression:
  max_distance: 800
obstacle:
  cache_duration: 250ms
  selectors: ["#console"]
spawn:
  max_worms: 12
`))
	require.NoError(t, err)
	assert.Equal(t, "low", cfg.Tier)
	assert.Equal(t, 800.0, cfg.Aggression.MaxDistance)
	assert.Equal(t, Default().Aggression.MinDistance, cfg.Aggression.MinDistance)
	assert.Equal(t, 250*time.Millisecond, cfg.Obstacle.CacheDuration)
	assert.Equal(t, []string{"#console"}, cfg.Obstacle.Selectors)
	assert.Equal(t, 12, cfg.Spawn.MaxWorms)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("aggression:\n  bogus: 1\n"))
	assert.Error(t, err)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default().Spawn, cfg.Spawn)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvQuality:      "HIGH",
		EnvMaxWorms:     "42",
		EnvMasterVolume: "150",
		EnvCodec:        "msgpack",
		EnvSpawnDelay:   "80ms",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	require.NoError(t, ApplyEnv(&cfg, lookup))
	assert.Equal(t, "high", cfg.Tier)
	assert.Equal(t, 42, cfg.Spawn.MaxWorms)
	assert.Equal(t, 1.0, cfg.Audio.MasterVolume)
	assert.Equal(t, "msgpack", cfg.Network.Codec)
	assert.Equal(t, 80*time.Millisecond, cfg.Spawn.Delay)

	env[EnvMaxWorms] = "lots"
	assert.Error(t, ApplyEnv(&cfg, lookup))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worms.yaml")
	require.NoError(t, os.WriteFile(path, []byte("spawn:\n  max_worms: 7\n"), 0o644))

	t.Setenv(EnvMaxWorms, "")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Spawn.MaxWorms)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default().Obstacle, cfg.Obstacle)
}

func TestDetectTier(t *testing.T) {
	assert.Equal(t, TierLow, DetectTier(DeviceProfile{CPUCores: 16, MemoryGB: 16, ReducedMotion: true}))
	assert.Equal(t, TierLow, DetectTier(DeviceProfile{CPUCores: 4, MemoryGB: 4, Mobile: true}))
	assert.Equal(t, TierHigh, DetectTier(DeviceProfile{CPUCores: 8, MemoryGB: 16}))
	assert.Equal(t, TierMedium, DetectTier(DeviceProfile{CPUCores: 4, MemoryGB: 8}))
}

func TestResolvedTightensFromTier(t *testing.T) {
	cfg := Default()
	cfg.Tier = TierLow
	r := cfg.Resolved()

	assert.Equal(t, 30, r.Spawn.MaxWorms)
	assert.False(t, r.Behavior.AvoidObstacles)
	assert.False(t, r.NearMiss.Enabled)
	assert.Equal(t, 33*time.Millisecond, r.Engine.FrameInterval)
	assert.Greater(t, r.Spawn.Delay, cfg.Spawn.Delay)

	cfg.Tier = TierHigh
	cfg.Spawn.MaxWorms = 5
	assert.Equal(t, 5, cfg.Resolved().Spawn.MaxWorms, "tier never loosens an explicit limit")
}
