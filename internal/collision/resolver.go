// Package collision decides the outcome of every contact event: the
// collector consuming or rejecting an orb, orb pairs fusing or being
// deflected, and power-up pickups.
package collision

import (
	"math"

	"github.com/san-kum/accretion/internal/deflect"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/events"
	"github.com/san-kum/accretion/internal/growth"
	"github.com/san-kum/accretion/internal/merge"
	"github.com/san-kum/accretion/internal/powerup"
)

// Deps wires the resolver's collaborators. All are injected; the
// resolver holds no global state.
type Deps struct {
	Growth    *growth.Model
	Merges    *merge.Engine
	Deflector *deflect.Deflector
	Power     *powerup.State
	Sink      events.Sink

	// GracePeriod is the window after a correct consumption during
	// which a wrong-class contact costs nothing.
	GracePeriod float64

	// WrongClassMult is the base shrink multiplier for penalties.
	WrongClassMult float64

	// ScoreSizeStep controls the score size multiplier:
	// points = basePoints * (1 + collectorDiameter/ScoreSizeStep).
	ScoreSizeStep float64
}

type Resolver struct {
	deps Deps

	lastCorrectAt float64
	terminal      bool
	reason        events.Reason
}

func NewResolver(deps Deps) *Resolver {
	return &Resolver{
		deps:          deps,
		lastCorrectAt: math.Inf(-1),
	}
}

// Terminal reports whether the session has ended and why. Once
// terminal, every resolve call is a no-op.
func (r *Resolver) Terminal() (events.Reason, bool) {
	return r.reason, r.terminal
}

// ForceGameOver latches the terminal state from outside the contact
// path; the passive-shrink driver uses it for the Collapsed outcome.
func (r *Resolver) ForceGameOver(reason events.Reason) {
	r.latchTerminal(reason)
}

func (r *Resolver) latchTerminal(reason events.Reason) {
	if r.terminal {
		return
	}
	r.terminal = true
	r.reason = reason
	r.deps.Sink.GameOver(reason)
}

// CollectorOrb resolves one contact between the collector and an orb.
// A handle that no longer resolves, or an orb already processed this
// tick, is silently ignored.
func (r *Resolver) CollectorOrb(c *entity.Collector, arena *entity.Arena, h entity.Handle, now float64) {
	if r.terminal {
		return
	}
	orb := arena.Get(h)
	if orb == nil || orb.Processed {
		return
	}

	// Size gate: an oversized orb destabilizes the collector no matter
	// its class or any active power-up.
	if orb.Diameter >= c.Diameter {
		orb.Processed = true
		r.latchTerminal(events.ReasonDestabilized)
		return
	}

	// Class gate, relaxed under Rainbow.
	if orb.Class == c.TargetClass || r.deps.Power.RainbowActive() {
		c.Diameter = r.deps.Growth.Grow(c.Diameter, orb.Diameter)
		r.lastCorrectAt = now

		orb.Processed = true
		consumed := *orb
		arena.Kill(h)
		r.deps.Sink.OrbConsumed(consumed, true, r.scoreFor(c.Diameter, consumed.BasePoints))
		return
	}

	// Wrong class. Inside the grace window the contact costs nothing;
	// the orb is still consumed.
	orb.Processed = true
	consumed := *orb
	arena.Kill(h)

	if now-r.lastCorrectAt <= r.deps.GracePeriod {
		r.deps.Sink.OrbConsumed(consumed, false, 0)
		return
	}

	c.Diameter = r.deps.Growth.Shrink(c.Diameter, r.deps.WrongClassMult)
	r.deps.Sink.OrbConsumed(consumed, false, 0)

	if c.Diameter <= r.deps.Growth.MinDiameter() {
		r.latchTerminal(events.ReasonTooSmall)
	}
}

// OrbOrb resolves a contact between two orbs: fusion if the merge
// safeguards allow it, orbital deflection of the smaller orb
// otherwise. Collisions between an orbital orb and its deflection
// partner are suspended.
func (r *Resolver) OrbOrb(c *entity.Collector, arena *entity.Arena, h1, h2 entity.Handle, now float64) {
	if r.terminal {
		return
	}
	a := arena.Get(h1)
	b := arena.Get(h2)
	if a == nil || b == nil || a.Processed || b.Processed {
		return
	}
	if (a.Orbital && a.OrbitalPartner == h2) || (b.Orbital && b.OrbitalPartner == h1) {
		return
	}

	fused, err := r.deps.Merges.Try(a, b, c.Pos, now)
	if err == nil {
		a.Processed = true
		b.Processed = true
		parentA, parentB := *a, *b
		arena.Kill(h1)
		arena.Kill(h2)
		arena.Insert(fused)
		r.deps.Sink.MergeSucceeded(parentA, parentB, fused)
		return
	}

	smaller, larger := a, b
	largerHandle := h2
	if a.Diameter > b.Diameter {
		smaller, larger = b, a
		largerHandle = h1
	}
	if smaller.Orbital {
		return
	}
	r.deps.Deflector.Capture(smaller, larger, largerHandle, now)
}

// Pickup activates a power-up. Pickups bypass gravity, size, and class
// rules entirely.
func (r *Resolver) Pickup(kind powerup.Kind, now float64) {
	if r.terminal || kind == powerup.None {
		return
	}
	r.deps.Power.Activate(kind, now)
	r.deps.Sink.PowerUpActivated(PowerUpEventKind(kind))
}

func (r *Resolver) scoreFor(collectorDiameter float64, basePoints int) int {
	mult := 1 + collectorDiameter/r.deps.ScoreSizeStep
	return int(math.Round(float64(basePoints) * mult))
}

// PowerUpEventKind maps the power-up machine's kind onto the event
// vocabulary.
func PowerUpEventKind(k powerup.Kind) events.PowerUpKind {
	switch k {
	case powerup.Rainbow:
		return events.PowerUpRainbow
	case powerup.Freeze:
		return events.PowerUpFreeze
	}
	return events.PowerUpNone
}
