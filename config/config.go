// Package config loads game settings from an optional YAML file
// layered over compiled-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NightBounds mirrors clock.NightBounds for the settings file.
type NightBounds struct {
	From  int `yaml:"from"`
	Until int `yaml:"until"`
}

// CombatTuning holds the combat balance knobs.
type CombatTuning struct {
	DamageMin  int     `yaml:"damage_min"`
	DamageMax  int     `yaml:"damage_max"`
	FleeChance float64 `yaml:"flee_chance"`
}

// TimedTuning parameterizes one hourly timed action.
type TimedTuning struct {
	EnergyPerHour  int    `yaml:"energy_per_hour"`
	CopperPerHour  int    `yaml:"copper_per_hour,omitempty"`
	CatchPerHour   int    `yaml:"catch_per_hour,omitempty"`
	CatchItem      string `yaml:"catch_item,omitempty"`
	RestorePerHour int    `yaml:"restore_per_hour,omitempty"`
}

// Config is the full settings document.
type Config struct {
	TickPeriodMS int     `yaml:"tick_period_ms"`
	MaxWeight    float64 `yaml:"max_weight"`
	StartCopper  int     `yaml:"start_copper"`
	MaxEnergy    int     `yaml:"max_energy"`
	MaxHealth    int     `yaml:"max_health"`

	// Two authored night conventions; locations listed under
	// wilds_locations use the wilds bounds, everything else the
	// village bounds.
	NightVillage   NightBounds `yaml:"night_village"`
	NightWilds     NightBounds `yaml:"night_wilds"`
	WildsLocations []string    `yaml:"wilds_locations"`

	Combat  CombatTuning `yaml:"combat"`
	Labor   TimedTuning  `yaml:"labor"`
	Fishing TimedTuning  `yaml:"fishing"`
	Rest    TimedTuning  `yaml:"rest"`
	Travel  TimedTuning  `yaml:"travel"`
}

// Default returns the reference balance.
func Default() Config {
	return Config{
		TickPeriodMS: 1000,
		MaxWeight:    50,
		StartCopper:  150,
		MaxEnergy:    100,
		MaxHealth:    100,
		NightVillage: NightBounds{From: 20, Until: 5},
		NightWilds:   NightBounds{From: 18, Until: 6},
		Combat:       CombatTuning{DamageMin: 5, DamageMax: 14, FleeChance: 0.5},
		Labor:        TimedTuning{EnergyPerHour: 10, CopperPerHour: 12},
		Fishing:      TimedTuning{EnergyPerHour: 8, CatchPerHour: 1, CatchItem: "trout"},
		Rest:         TimedTuning{RestorePerHour: 15},
		Travel:       TimedTuning{EnergyPerHour: 5},
	}
}

// Load reads a settings file over the defaults. A missing path is not
// an error; the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing settings %s: %w", path, err)
	}
	return cfg, nil
}

// IsWilds reports whether a location uses the wilds night convention.
func (c Config) IsWilds(locationID string) bool {
	for _, id := range c.WildsLocations {
		if id == locationID {
			return true
		}
	}
	return false
}
