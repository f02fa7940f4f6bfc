package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file
const (
	EnvQuality      = "ALGEBRA_WORMS_QUALITY"
	EnvMaxWorms     = "ALGEBRA_WORMS_MAX_WORMS"
	EnvAudioEnabled = "ALGEBRA_WORMS_AUDIO_ENABLED"
	EnvMasterVolume = "ALGEBRA_WORMS_MASTER_VOLUME" // 0-100
	EnvAddr         = "ALGEBRA_WORMS_ADDR"
	EnvCodec        = "ALGEBRA_WORMS_CODEC"
	EnvSpawnDelay   = "ALGEBRA_WORMS_SPAWN_DELAY"
	EnvSeed         = "ALGEBRA_WORMS_SEED"
)

// Load reads path over the defaults, applies environment overrides and validates
// An empty path skips the file
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if cfg, err = Parse(data); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults, unknown keys are rejected
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Marshal renders cfg as YAML, used to write a starter file
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}

// ApplyEnv overlays environment variables read through lookup
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	if v, ok := lookup(EnvQuality); ok && v != "" {
		cfg.Tier = strings.ToLower(v)
	}
	if v, ok := lookup(EnvMaxWorms); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvMaxWorms, err))
		} else {
			cfg.Spawn.MaxWorms = n
		}
	}
	if v, ok := lookup(EnvAudioEnabled); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvAudioEnabled, err))
		} else {
			cfg.Audio.Enabled = b
		}
	}
	if v, ok := lookup(EnvMasterVolume); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvMasterVolume, err))
		} else {
			cfg.Audio.MasterVolume = min(max(float64(n)/100.0, 0), 1)
		}
	}
	if v, ok := lookup(EnvAddr); ok && v != "" {
		cfg.Network.Addr = v
	}
	if v, ok := lookup(EnvCodec); ok && v != "" {
		cfg.Network.Codec = strings.ToLower(v)
	}
	if v, ok := lookup(EnvSpawnDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvSpawnDelay, err))
		} else {
			cfg.Spawn.Delay = d
		}
	}
	if v, ok := lookup(EnvSeed); ok && v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: %s: %w", EnvSeed, err))
		} else {
			cfg.Engine.Seed = n
		}
	}

	return errors.Join(errs...)
}
