package config

import "sort"

// Presets are named tuning bundles layered over DefaultConfig.
var Presets = map[string]func(*Config){
	// classic is the default tuning.
	"classic": func(c *Config) {},

	// frenzy spawns fast, merges freely, and shrinks the collector
	// continuously.
	"frenzy": func(c *Config) {
		c.Spawn.OrbInterval = 0.35
		c.Spawn.InitialOrbs = 24
		c.Merge.MaxMergedOrbs = 8
		c.Merge.Cooldown = 0.8
		c.Growth.PassiveRate = 1.5
	},

	// zen removes the passive shrink and the oversized threat; slow
	// drifting orbs only.
	"zen": func(c *Config) {
		c.Spawn.OrbInterval = 1.5
		c.Spawn.OversizedChance = 0
		c.Spawn.DriftSpeed = 12.0
		c.Growth.PassiveRate = 0
		c.Session.GracePeriod = 1.0
	},
}

// GetPreset returns the named preset applied to defaults, or nil if
// the name is unknown.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

// ListPresets returns preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
