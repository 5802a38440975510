package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, when path is non-empty
//  3. env vars with prefix MATCHSIM_ (MATCHSIM_DT -> dt, ...)
//
// The result is validated; no partial config is ever returned.
func Load(path string) (*Config, error) {
	cfg := *New()

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}

	envProvider := env.Provider("MATCHSIM_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "matchsim_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate enforces the construction-time contract: dimension, clock and
// policy parameters must be sane and each team must field exactly seven
// players with a goalkeeper.
func (c *Config) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.PitchWidth <= 0 || c.PitchLength <= 0 {
		return fail("pitch dimensions must be positive, got %gx%g", c.PitchWidth, c.PitchLength)
	}
	if c.DT <= 0 {
		return fail("dt must be positive, got %g", c.DT)
	}
	if c.RealismLevel != RealismToy && c.RealismLevel != RealismEmpirical {
		return fail("unknown realism_level %q", c.RealismLevel)
	}
	if c.MaxGameTime <= 0 {
		return fail("max_game_time must be positive, got %g", c.MaxGameTime)
	}
	if c.MaxTicksWithoutChange <= 0 {
		return fail("max_ticks_without_change must be positive, got %d", c.MaxTicksWithoutChange)
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fail("epsilon must be in [0,1], got %g", c.Epsilon)
	}
	if c.DribbleAngles < 1 || len(c.DribbleDistances) == 0 {
		return fail("dribble candidate grid must not be empty")
	}
	for _, d := range c.DribbleDistances {
		if d <= 0 {
			return fail("dribble distance must be positive, got %g", d)
		}
	}
	if c.CaptureRadius <= 0 || c.PressureRadius <= 0 {
		return fail("capture and pressure radii must be positive")
	}
	if c.ShotMissFloor < 0 || c.ShotMissFloor > 1 {
		return fail("shot_miss_floor must be in [0,1], got %g", c.ShotMissFloor)
	}
	if _, err := time.Parse(time.RFC3339, c.KickoffTime); err != nil {
		return fail("kickoff_time: %v", err)
	}
	for _, key := range []string{"team_0", "team_1"} {
		slots, ok := c.Formations[key]
		if !ok {
			return fail("missing formation for %s", key)
		}
		if len(slots) != 7 {
			return fail("%s formation must list 7 players, got %d", key, len(slots))
		}
		keepers := 0
		for _, s := range slots {
			switch s.Role {
			case "goalkeeper":
				keepers++
			case "defender", "midfielder", "forward":
			default:
				return fail("%s formation has unknown role %q", key, s.Role)
			}
			if s.X < 0 || s.X > c.PitchWidth || s.Y < 0 || s.Y > c.PitchLength {
				return fail("%s formation places %s at (%g,%g), outside the pitch", key, s.Role, s.X, s.Y)
			}
		}
		if keepers != 1 {
			return fail("%s formation must have exactly one goalkeeper, got %d", key, keepers)
		}
	}
	return nil
}
