// Package gravity applies attraction forces between the collector and
// orbs and between orb pairs. Forces are one-sided: for orb pairs only
// the lighter body accelerates toward the heavier, which keeps large
// orbs visually stable; collector gravity always acts on the orb.
package gravity

import (
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
)

type Field struct {
	g             float64
	collectorCut2 float64
	orbCut2       float64
	collectorMult float64
	orbMult       float64

	// scratch buffer for the pairwise pass, reused across ticks
	pass []*entity.Orb
}

func NewField(cfg config.GravityConfig) *Field {
	return &Field{
		g:             cfg.G,
		collectorCut2: cfg.CollectorCutoff * cfg.CollectorCutoff,
		orbCut2:       cfg.OrbCutoff * cfg.OrbCutoff,
		collectorMult: cfg.CollectorMultiplier,
		orbMult:       cfg.OrbMultiplier,
	}
}

// Apply accumulates gravitational acceleration into orb velocities for
// one tick. Orbs marked orbital are excluded from collector gravity.
func (f *Field) Apply(c *entity.Collector, arena *entity.Arena, dt float64) {
	f.applyCollector(c, arena, dt)
	f.applyPairwise(arena, dt)
}

func (f *Field) applyCollector(c *entity.Collector, arena *entity.Arena, dt float64) {
	cMass := c.Mass()
	arena.ForEach(func(_ entity.Handle, o *entity.Orb) {
		if o.Orbital {
			return
		}
		delta := c.Pos.Sub(o.Pos)
		distSq := delta.LengthSq()
		if distSq == 0 || distSq > f.collectorCut2 {
			return
		}
		force := f.g * f.collectorMult * cMass * o.Mass() / distSq
		accel := force / o.Mass()
		dist := math.Sqrt(distSq)
		o.Vel.X += delta.X / dist * accel * dt
		o.Vel.Y += delta.Y / dist * accel * dt
	})
}

// applyPairwise runs the O(n^2) orb loop. Most pairs are out of range,
// so the squared-distance rejection happens before any square root.
func (f *Field) applyPairwise(arena *entity.Arena, dt float64) {
	f.pass = f.pass[:0]
	arena.ForEach(func(_ entity.Handle, o *entity.Orb) {
		f.pass = append(f.pass, o)
	})

	for i := 0; i < len(f.pass); i++ {
		a := f.pass[i]
		for j := i + 1; j < len(f.pass); j++ {
			b := f.pass[j]

			delta := b.Pos.Sub(a.Pos)
			distSq := delta.LengthSq()
			if distSq == 0 || distSq > f.orbCut2 {
				continue
			}

			// Only the lighter orb is pulled toward the heavier.
			lighter, heavier := a, b
			if a.Mass() > b.Mass() {
				lighter, heavier = b, a
			}

			force := f.g * f.orbMult * a.Mass() * b.Mass() / distSq
			accel := force / lighter.Mass()
			dist := math.Sqrt(distSq)

			dir := heavier.Pos.Sub(lighter.Pos)
			lighter.Vel.X += dir.X / dist * accel * dt
			lighter.Vel.Y += dir.Y / dist * accel * dt
		}
	}
}
