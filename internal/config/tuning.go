// Package config loads optional JSON tuning overrides for the reward
// engine. Every scalar field is a pointer: fields omitted from the file
// keep the engine defaults, so partial configs are safe.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/overdrive-rl/shaping/internal/reward"
)

// TuningConfig is the root override file. Weights are keyed by entry name;
// an unknown name is an error so a typo does not silently fall back to the
// default.
type TuningConfig struct {
	// Weights overrides per-entry weights by entry name.
	Weights map[string]float64 `json:"weights,omitempty"`

	// Zero-sum shaping overrides, applied to every zero-sum entry.
	TeamSpirit *float64 `json:"team_spirit,omitempty"`
	OppScale   *float64 `json:"opp_scale,omitempty"`

	// Most-tuned detector thresholds.
	ShotHorizon       *float64 `json:"shot_horizon,omitempty"`        // seconds
	DoubleTouchWindow *float64 `json:"double_touch_window,omitempty"` // seconds
	KickoffMaxTime    *float64 `json:"kickoff_max_time,omitempty"`    // seconds
	WavedashCooldown  *float64 `json:"wavedash_cooldown,omitempty"`   // seconds
}

// LoadTuningConfig loads a TuningConfig from a JSON file. A missing file is
// not an error: it returns an empty config so callers run on defaults.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if os.IsNotExist(err) {
		return &TuningConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the override values are usable.
func (c *TuningConfig) Validate() error {
	if c.TeamSpirit != nil && (*c.TeamSpirit < 0 || *c.TeamSpirit > 1) {
		return fmt.Errorf("team_spirit must be between 0 and 1, got %f", *c.TeamSpirit)
	}
	if c.OppScale != nil && *c.OppScale < 0 {
		return fmt.Errorf("opp_scale must be non-negative, got %f", *c.OppScale)
	}
	durations := []struct {
		name string
		v    *float64
	}{
		{"shot_horizon", c.ShotHorizon},
		{"double_touch_window", c.DoubleTouchWindow},
		{"kickoff_max_time", c.KickoffMaxTime},
		{"wavedash_cooldown", c.WavedashCooldown},
	}
	for _, d := range durations {
		if d.v != nil && *d.v <= 0 {
			return fmt.Errorf("%s must be positive, got %f", d.name, *d.v)
		}
	}
	return nil
}

// Apply merges the overrides into an entry list in place and returns it.
// A weight name that matches no entry is an error.
func (c *TuningConfig) Apply(entries []reward.Entry) ([]reward.Entry, error) {
	if len(c.Weights) > 0 {
		byName := make(map[string]int, len(entries))
		for i := range entries {
			byName[entries[i].Name] = i
		}
		for name, w := range c.Weights {
			i, ok := byName[name]
			if !ok {
				return nil, fmt.Errorf("weight override for unknown entry %q", name)
			}
			entries[i].Weight = w
		}
	}

	for i := range entries {
		if zs := entries[i].ZeroSum; zs != nil {
			if c.TeamSpirit != nil {
				zs.TeamSpirit = *c.TeamSpirit
			}
			if c.OppScale != nil {
				zs.OppScale = *c.OppScale
			}
		}
		switch d := entries[i].Detector.(type) {
		case *reward.Shot:
			if c.ShotHorizon != nil {
				d.Horizon = *c.ShotHorizon
			}
		case *reward.DoubleTouch:
			if c.DoubleTouchWindow != nil {
				d.Window = *c.DoubleTouchWindow
			}
		case *reward.KickoffSpeedFlip:
			if c.KickoffMaxTime != nil {
				d.MaxKickoffTime = *c.KickoffMaxTime
			}
		case *reward.Wavedash:
			if c.WavedashCooldown != nil {
				d.Cooldown = *c.WavedashCooldown
			}
		}
	}
	return entries, nil
}
