package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuned gameplay constants. The growth coefficients and forgiveness
// curve were tuned by play-testing; do not round them.
const (
	DefaultGrowthC1        = 0.01467428
	DefaultGrowthC2        = 0.05135996
	DefaultSizePenaltyStep = 600.0
	DefaultMinDiameter     = 30.0
)

type Config struct {
	Gravity GravityConfig `yaml:"gravity"`
	Growth  GrowthConfig  `yaml:"growth"`
	Merge   MergeConfig   `yaml:"merge"`
	Deflect DeflectConfig `yaml:"deflect"`
	PowerUp PowerUpConfig `yaml:"powerup"`
	Session SessionConfig `yaml:"session"`
	Spawn   SpawnConfig   `yaml:"spawn"`
}

type GravityConfig struct {
	G                   float64 `yaml:"g"`
	CollectorCutoff     float64 `yaml:"collector_cutoff"`
	OrbCutoff           float64 `yaml:"orb_cutoff"`
	CollectorMultiplier float64 `yaml:"collector_multiplier"`
	OrbMultiplier       float64 `yaml:"orb_multiplier"`
}

type GrowthConfig struct {
	C1               float64 `yaml:"c1"`
	C2               float64 `yaml:"c2"`
	SizePenaltyStep  float64 `yaml:"size_penalty_step"`
	ForgivenessStep  float64 `yaml:"forgiveness_step"`
	ForgivenessCap   float64 `yaml:"forgiveness_cap"`
	ForgivenessBonus float64 `yaml:"forgiveness_bonus"`
	MinDiameter      float64 `yaml:"min_diameter"`
	WrongClassMult   float64 `yaml:"wrong_class_mult"`
	PassiveRate      float64 `yaml:"passive_rate"`
}

type MergeConfig struct {
	MaxMergedOrbs   int     `yaml:"max_merged_orbs"`
	Cooldown        float64 `yaml:"cooldown"`
	MinMergeSize    float64 `yaml:"min_merge_size"`
	MaxMergesPerOrb int     `yaml:"max_merges_per_orb"`
	ExclusionRadius float64 `yaml:"exclusion_radius"`
	VelocityDamping float64 `yaml:"velocity_damping"`
	PointsFactor    float64 `yaml:"points_factor"`
}

type DeflectConfig struct {
	SpeedMultiplier  float64 `yaml:"speed_multiplier"`
	EscapeMultiplier float64 `yaml:"escape_multiplier"`
	Inheritance      float64 `yaml:"inheritance"`
	Duration         float64 `yaml:"duration"`
}

type PowerUpConfig struct {
	RainbowDuration float64 `yaml:"rainbow_duration"`
	FreezeDuration  float64 `yaml:"freeze_duration"`
}

type SessionConfig struct {
	StartDiameter     float64 `yaml:"start_diameter"`
	CollectorMassMult float64 `yaml:"collector_mass_mult"`
	FollowRate        float64 `yaml:"follow_rate"`
	GracePeriod       float64 `yaml:"grace_period"`
	PruneRadius       float64 `yaml:"prune_radius"`
	MaxTickDelta      float64 `yaml:"max_tick_delta"`
	ScoreSizeStep     float64 `yaml:"score_size_step"`
}

// SpawnConfig tunes the reference spawn driver used by the CLI
// harness. The simulation core itself never reads these.
type SpawnConfig struct {
	OrbInterval     float64 `yaml:"orb_interval"`
	PickupInterval  float64 `yaml:"pickup_interval"`
	ClassRotation   float64 `yaml:"class_rotation"`
	SpawnRadius     float64 `yaml:"spawn_radius"`
	MinDiameterFrac float64 `yaml:"min_diameter_frac"`
	MaxDiameterFrac float64 `yaml:"max_diameter_frac"`
	OversizedChance float64 `yaml:"oversized_chance"`
	InitialOrbs     int     `yaml:"initial_orbs"`
	DriftSpeed      float64 `yaml:"drift_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Gravity: GravityConfig{
			G:                   120.0,
			CollectorCutoff:     420.0,
			OrbCutoff:           160.0,
			CollectorMultiplier: 1.0,
			OrbMultiplier:       0.35,
		},
		Growth: GrowthConfig{
			C1:               DefaultGrowthC1,
			C2:               DefaultGrowthC2,
			SizePenaltyStep:  DefaultSizePenaltyStep,
			ForgivenessStep:  200.0,
			ForgivenessCap:   0.5,
			ForgivenessBonus: 0.1,
			MinDiameter:      DefaultMinDiameter,
			WrongClassMult:   0.8,
			PassiveRate:      0.0,
		},
		Merge: MergeConfig{
			MaxMergedOrbs:   5,
			Cooldown:        2.0,
			MinMergeSize:    20.0,
			MaxMergesPerOrb: 2,
			ExclusionRadius: 150.0,
			VelocityDamping: 0.7,
			PointsFactor:    1.5,
		},
		Deflect: DeflectConfig{
			SpeedMultiplier:  1.15,
			EscapeMultiplier: 1.05,
			Inheritance:      0.3,
			Duration:         2.5,
		},
		PowerUp: PowerUpConfig{
			RainbowDuration: 6.0,
			FreezeDuration:  4.0,
		},
		Session: SessionConfig{
			StartDiameter:     60.0,
			CollectorMassMult: 1.2,
			FollowRate:        6.0,
			GracePeriod:       0.5,
			PruneRadius:       1200.0,
			MaxTickDelta:      0.1,
			ScoreSizeStep:     200.0,
		},
		Spawn: SpawnConfig{
			OrbInterval:     0.8,
			PickupInterval:  15.0,
			ClassRotation:   8.0,
			SpawnRadius:     700.0,
			MinDiameterFrac: 0.25,
			MaxDiameterFrac: 0.85,
			OversizedChance: 0.04,
			InitialOrbs:     12,
			DriftSpeed:      25.0,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects out-of-range constants. A bad value here is a
// startup contract violation, not a runtime error path.
func (c *Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Gravity.G > 0, "gravity.g must be positive"},
		{c.Gravity.CollectorCutoff > 0, "gravity.collector_cutoff must be positive"},
		{c.Gravity.OrbCutoff > 0, "gravity.orb_cutoff must be positive"},
		{c.Gravity.OrbCutoff <= c.Gravity.CollectorCutoff, "gravity.orb_cutoff must not exceed collector cutoff"},
		{c.Growth.C1 > 0 && c.Growth.C2 > 0, "growth coefficients must be positive"},
		{c.Growth.SizePenaltyStep > 0, "growth.size_penalty_step must be positive"},
		{c.Growth.MinDiameter > 0, "growth.min_diameter must be positive"},
		{c.Growth.WrongClassMult > 0 && c.Growth.WrongClassMult < 1, "growth.wrong_class_mult must be in (0,1)"},
		{c.Growth.PassiveRate >= 0, "growth.passive_rate must not be negative"},
		{c.Merge.MaxMergedOrbs > 0, "merge.max_merged_orbs must be positive"},
		{c.Merge.Cooldown >= 0, "merge.cooldown must not be negative"},
		{c.Merge.MinMergeSize > 0, "merge.min_merge_size must be positive"},
		{c.Merge.MaxMergesPerOrb > 0, "merge.max_merges_per_orb must be positive"},
		{c.Merge.ExclusionRadius >= 0, "merge.exclusion_radius must not be negative"},
		{c.Merge.VelocityDamping > 0 && c.Merge.VelocityDamping <= 1, "merge.velocity_damping must be in (0,1]"},
		{c.Deflect.Duration > 0, "deflect.duration must be positive"},
		{c.Deflect.SpeedMultiplier > 0, "deflect.speed_multiplier must be positive"},
		{c.PowerUp.RainbowDuration > 0, "powerup.rainbow_duration must be positive"},
		{c.PowerUp.FreezeDuration > 0, "powerup.freeze_duration must be positive"},
		{c.Session.StartDiameter > c.Growth.MinDiameter, "session.start_diameter must exceed min_diameter"},
		{c.Session.GracePeriod >= 0, "session.grace_period must not be negative"},
		{c.Session.PruneRadius > 0, "session.prune_radius must be positive"},
		{c.Session.MaxTickDelta > 0, "session.max_tick_delta must be positive"},
	}
	for _, ch := range checks {
		if !ch.ok {
			return fmt.Errorf("config: %s", ch.msg)
		}
	}
	return nil
}
