// Package growth implements the collector diameter curves: growth on
// correct consumption, shrink on wrong-class penalty, and the optional
// continuous passive shrink.
package growth

import (
	"math"

	"github.com/san-kum/accretion/internal/config"
)

type Model struct {
	c1               float64
	c2               float64
	sizePenaltyStep  float64
	forgivenessStep  float64
	forgivenessCap   float64
	forgivenessBonus float64
	minDiameter      float64
	passiveRate      float64
	maxTickDelta     float64
}

func New(cfg config.GrowthConfig, maxTickDelta float64) *Model {
	return &Model{
		c1:               cfg.C1,
		c2:               cfg.C2,
		sizePenaltyStep:  cfg.SizePenaltyStep,
		forgivenessStep:  cfg.ForgivenessStep,
		forgivenessCap:   cfg.ForgivenessCap,
		forgivenessBonus: cfg.ForgivenessBonus,
		minDiameter:      cfg.MinDiameter,
		passiveRate:      cfg.PassiveRate,
		maxTickDelta:     maxTickDelta,
	}
}

func (m *Model) MinDiameter() float64 { return m.minDiameter }

// Grow returns the collector diameter after consuming an orb. Growth
// scales with the orb's relative size and is dampened as the collector
// gets larger, so percentage growth has diminishing returns.
func (m *Model) Grow(collectorDiameter, orbDiameter float64) float64 {
	relativeSize := orbDiameter / collectorDiameter
	baseGrowth := m.c1 + relativeSize*m.c2
	sizePenalty := 1 / (1 + collectorDiameter/m.sizePenaltyStep)
	adjustedGrowth := baseGrowth * sizePenalty
	return collectorDiameter * (1 + adjustedGrowth)
}

// Shrink returns the collector diameter after a wrong-class penalty.
// Larger collectors are forgiven more: the multiplier moves toward 1
// as diameter grows, capped by the forgiveness curve. The result never
// drops below the minimum diameter.
func (m *Model) Shrink(collectorDiameter, baseMultiplier float64) float64 {
	forgivenessFactor := math.Min(collectorDiameter/m.forgivenessStep, m.forgivenessCap)
	adjustedMultiplier := baseMultiplier + m.forgivenessBonus*forgivenessFactor
	return math.Max(m.minDiameter, collectorDiameter*adjustedMultiplier)
}

// PassiveShrink reduces diameter by rate*dt, clamped at the minimum.
// Delta spikes (app backgrounded, debugger pauses) are skipped rather
// than applied as a catastrophic single-frame shrink.
func (m *Model) PassiveShrink(collectorDiameter, dt float64) float64 {
	if m.passiveRate <= 0 || dt <= 0 || dt > m.maxTickDelta {
		return collectorDiameter
	}
	return math.Max(m.minDiameter, collectorDiameter-m.passiveRate*dt)
}

// PassiveEnabled reports whether the continuous shrink mode is on.
func (m *Model) PassiveEnabled() bool {
	return m.passiveRate > 0
}
