package entity

import "github.com/san-kum/accretion/internal/geom"

// Orb is a drifting consumable body.
type Orb struct {
	Pos geom.Vec2
	Vel geom.Vec2

	Diameter   float64
	Class      Class
	BasePoints int

	// MergeCount is the number of fusions this orb has participated in.
	MergeCount int

	// Merged marks an orb produced by a fusion; the merge ledger is
	// decremented when such an orb is removed.
	Merged bool

	// Processed is the per-tick idempotency guard: set the instant a
	// contact event consumes the orb so a duplicate event in the same
	// tick is a no-op.
	Processed bool

	// Orbital marks an orb under deflection control. While set, the orb
	// is excluded from collector gravity and collisions with its
	// deflection partner are suspended.
	Orbital        bool
	OrbitalPartner Handle
	OrbitalUntil   float64
}

func (o *Orb) Radius() float64 {
	return o.Diameter / 2
}

// Mass derives from cross-sectional area scaled by the class density.
func (o *Orb) Mass() float64 {
	r := o.Diameter / 2
	return r * r * o.Class.MassMultiplier()
}
