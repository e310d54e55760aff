package spawn

import (
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/powerup"
)

// World is the slice of the session surface the driver feeds.
type World interface {
	Now() float64
	Collector() *entity.Collector
	OrbCount() int
	SpawnOrb(entity.Orb) entity.Handle
	SpawnPickup(kind powerup.Kind, pos geom.Vec2)
	SetTargetClass(c entity.Class)
}

// Driver is the reference spawn policy for the CLI harness. It keeps
// the field populated on three independent timers: orb spawns, pickup
// drops, and target class rotation. A fixed seed makes runs
// reproducible.
type Driver struct {
	cfg *config.Config
	rng *rand.Rand

	nextOrbAt      float64
	nextPickupAt   float64
	nextRotationAt float64
	target         entity.Class
}

func New(cfg *config.Config, seed int64) *Driver {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Driver{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Prime seeds the field with the initial orb population and picks the
// first target class. Call once before the tick loop.
func (d *Driver) Prime(w World) {
	for i := 0; i < d.cfg.Spawn.InitialOrbs; i++ {
		w.SpawnOrb(d.makeOrb(w))
	}
	d.rotateTarget(w)
	now := w.Now()
	d.nextOrbAt = now + d.cfg.Spawn.OrbInterval
	d.nextPickupAt = now + d.cfg.Spawn.PickupInterval
	d.nextRotationAt = now + d.cfg.Spawn.ClassRotation
}

// Advance fires any timers that have elapsed. Safe to call every tick.
func (d *Driver) Advance(w World) {
	now := w.Now()
	for now >= d.nextOrbAt {
		w.SpawnOrb(d.makeOrb(w))
		d.nextOrbAt += d.cfg.Spawn.OrbInterval
	}
	if now >= d.nextPickupAt {
		w.SpawnPickup(d.pickupKind(), d.pickupPos(w))
		d.nextPickupAt = now + d.cfg.Spawn.PickupInterval
	}
	if now >= d.nextRotationAt {
		d.rotateTarget(w)
		d.nextRotationAt = now + d.cfg.Spawn.ClassRotation
	}
}

// Target reports the class the driver last assigned.
func (d *Driver) Target() entity.Class { return d.target }

func (d *Driver) makeOrb(w World) entity.Orb {
	c := w.Collector()
	sc := d.cfg.Spawn

	frac := sc.MinDiameterFrac + d.rng.Float64()*(sc.MaxDiameterFrac-sc.MinDiameterFrac)
	if d.rng.Float64() < sc.OversizedChance {
		frac = 1.1 + d.rng.Float64()*0.3
	}
	diameter := c.Diameter * frac

	angle := d.rng.Float64() * 2 * math.Pi
	pos := c.Pos.Add(geom.Vec2{
		X: math.Cos(angle) * sc.SpawnRadius,
		Y: math.Sin(angle) * sc.SpawnRadius,
	})

	// Drift loosely inward with lateral jitter so orbs cross the
	// collector's gravity well instead of beelining into it.
	inward := c.Pos.Sub(pos).Normalize()
	jitter := inward.Perpendicular().Scale((d.rng.Float64() - 0.5) * 1.2)
	vel := inward.Add(jitter).Normalize().Scale(sc.DriftSpeed * (0.6 + d.rng.Float64()*0.8))

	return entity.Orb{
		Pos:      pos,
		Vel:      vel,
		Diameter: diameter,
		Class:    d.randomClass(),
	}
}

func (d *Driver) randomClass() entity.Class {
	classes := entity.Classes()
	// Bias a third of spawns toward the current target so matching
	// orbs stay findable.
	if d.rng.Float64() < 0.33 {
		return d.target
	}
	return classes[d.rng.Intn(len(classes))]
}

func (d *Driver) pickupKind() powerup.Kind {
	if d.rng.Float64() < 0.5 {
		return powerup.Rainbow
	}
	return powerup.Freeze
}

func (d *Driver) pickupPos(w World) geom.Vec2 {
	c := w.Collector()
	angle := d.rng.Float64() * 2 * math.Pi
	dist := d.cfg.Spawn.SpawnRadius * (0.3 + d.rng.Float64()*0.4)
	return c.Pos.Add(geom.Vec2{
		X: math.Cos(angle) * dist,
		Y: math.Sin(angle) * dist,
	})
}

func (d *Driver) rotateTarget(w World) {
	classes := entity.Classes()
	next := classes[d.rng.Intn(len(classes))]
	for next == d.target && len(classes) > 1 {
		next = classes[d.rng.Intn(len(classes))]
	}
	d.target = next
	w.SetTargetClass(next)
}
