package entity

import "github.com/san-kum/accretion/internal/geom"

// Collector is the player-controlled absorbing body. One exists per
// session.
type Collector struct {
	Pos       geom.Vec2
	TargetPos geom.Vec2

	Diameter float64

	// TargetClass is the orb class the collector currently seeks. It
	// changes on a rotation timer owned outside the core.
	TargetClass Class

	// MassMult scales the area-derived mass; configured at session start.
	MassMult float64
}

func (c *Collector) Radius() float64 {
	return c.Diameter / 2
}

func (c *Collector) Mass() float64 {
	r := c.Diameter / 2
	return r * r * c.MassMult
}

// CanConsume reports whether the orb passes the size gate. Class and
// power-up state never relax this rule.
func (c *Collector) CanConsume(o *Orb) bool {
	return o.Diameter < c.Diameter
}
