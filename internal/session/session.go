// Package session owns one game run: the collector, the orb arena, and
// the per-tick control flow. Everything runs synchronously inside
// Step; no goroutine touches entity state.
package session

import (
	"github.com/san-kum/accretion/internal/collision"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/deflect"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/events"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/gravity"
	"github.com/san-kum/accretion/internal/growth"
	"github.com/san-kum/accretion/internal/merge"
	"github.com/san-kum/accretion/internal/powerup"
)

// Pickup is a floating power-up waiting to be collected. Pickups are
// exempt from gravity and from the size and class gates.
type Pickup struct {
	Pos      geom.Vec2
	Kind     powerup.Kind
	Diameter float64
}

// Observer is notified once per completed tick.
type Observer interface {
	OnTick(now float64, c *entity.Collector, orbCount int)
}

type Session struct {
	cfg *config.Config

	collector entity.Collector
	arena     *entity.Arena
	pickups   []Pickup

	field     *gravity.Field
	growth    *growth.Model
	ledger    merge.Ledger
	power     *powerup.State
	deflector *deflect.Deflector
	resolver  *collision.Resolver
	sink      events.Sink

	now    float64
	ticks  int
	paused bool

	observers []Observer

	// per-tick scratch, reused to avoid churn
	pass         []passEntry
	collContacts []entity.Handle
	pairContacts [][2]entity.Handle
}

type passEntry struct {
	h   entity.Handle
	orb *entity.Orb
}

// New builds a session from a validated configuration. Out-of-range
// constants are a startup contract violation.
func New(cfg *config.Config, sink events.Sink) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if sink == nil {
		sink = events.NopSink{}
	}

	growthModel := growth.New(cfg.Growth, cfg.Session.MaxTickDelta)
	power := powerup.New(cfg.PowerUp.RainbowDuration, cfg.PowerUp.FreezeDuration)
	deflector := deflect.New(cfg.Gravity, cfg.Deflect)

	s := &Session{
		cfg:       cfg,
		arena:     entity.NewArena(64),
		field:     gravity.NewField(cfg.Gravity),
		growth:    growthModel,
		power:     power,
		deflector: deflector,
		sink:      sink,
		collector: entity.Collector{
			Diameter:    cfg.Session.StartDiameter,
			TargetClass: entity.ClassCrimson,
			MassMult:    cfg.Session.CollectorMassMult,
		},
	}

	s.resolver = collision.NewResolver(collision.Deps{
		Growth:         growthModel,
		Merges:         merge.NewEngine(cfg.Merge, &s.ledger),
		Deflector:      deflector,
		Power:          power,
		Sink:           sink,
		GracePeriod:    cfg.Session.GracePeriod,
		WrongClassMult: cfg.Growth.WrongClassMult,
		ScoreSizeStep:  cfg.Session.ScoreSizeStep,
	})

	return s, nil
}

func (s *Session) Now() float64                    { return s.now }
func (s *Session) Ticks() int                      { return s.ticks }
func (s *Session) Collector() *entity.Collector    { return &s.collector }
func (s *Session) OrbCount() int                   { return s.arena.Len() }
func (s *Session) Ledger() *merge.Ledger           { return &s.ledger }
func (s *Session) Pickups() []Pickup               { return s.pickups }
func (s *Session) Terminal() (events.Reason, bool) { return s.resolver.Terminal() }

// ActivePowerUp reports the current effect and its remaining seconds.
func (s *Session) ActivePowerUp() (powerup.Kind, float64) {
	return s.power.Active(), s.power.Remaining(s.now)
}

// ForEachOrb visits each live orb. Mutating the arena from the
// callback is not allowed.
func (s *Session) ForEachOrb(fn func(entity.Handle, *entity.Orb)) {
	s.arena.ForEach(fn)
}

// Pause freezes tick advancement. The session clock stops, so power-up
// and deflection expiries hold; wall-clock time never leaks in.
func (s *Session) Pause()       { s.paused = true }
func (s *Session) Resume()      { s.paused = false }
func (s *Session) Paused() bool { return s.paused }

// SpawnOrb injects an orb record created by the external spawn policy.
func (s *Session) SpawnOrb(o entity.Orb) entity.Handle {
	if _, terminal := s.resolver.Terminal(); terminal {
		return entity.NoHandle
	}
	if o.BasePoints == 0 {
		o.BasePoints = o.Class.BasePoints()
	}
	h := s.arena.Insert(o)
	s.sink.OrbSpawned(o)
	return h
}

// SpawnPickup places a power-up pickup into the field.
func (s *Session) SpawnPickup(kind powerup.Kind, pos geom.Vec2) {
	if kind == powerup.None {
		return
	}
	s.pickups = append(s.pickups, Pickup{Pos: pos, Kind: kind, Diameter: 24})
}

// SetTargetPosition updates where the collector steers toward. Input
// capture lives outside the core; only the target position arrives.
func (s *Session) SetTargetPosition(pos geom.Vec2) {
	s.collector.TargetPos = pos
}

// SetTargetClass applies a target-class rotation decided externally.
func (s *Session) SetTargetClass(c entity.Class) {
	s.collector.TargetClass = c
}

// Step advances the simulation one tick. The order is fixed: timed
// expiries, forces, integration, contact resolution, pruning, sweep.
// Steps while paused or after a terminal outcome are no-ops.
func (s *Session) Step(dt float64) {
	if s.paused || dt <= 0 {
		return
	}
	if _, terminal := s.resolver.Terminal(); terminal {
		return
	}
	// A backgrounded host can hand us seconds of elapsed time; clamp so
	// a single frame never jumps the simulation.
	if dt > s.cfg.Session.MaxTickDelta {
		dt = s.cfg.Session.MaxTickDelta
	}

	s.now += dt
	s.ticks++

	if kind, ok := s.power.Expire(s.now); ok {
		s.sink.PowerUpExpired(collision.PowerUpEventKind(kind))
	}
	s.releaseExpiredOrbits()

	frozen := s.power.FreezeActive()
	if !frozen {
		s.field.Apply(&s.collector, s.arena, dt)
	}
	s.integrate(dt, frozen)

	if s.growth.PassiveEnabled() {
		s.collector.Diameter = s.growth.PassiveShrink(s.collector.Diameter, dt)
		if s.collector.Diameter <= s.growth.MinDiameter() {
			s.resolver.ForceGameOver(events.ReasonCollapsed)
		}
	}

	s.resolveContacts()
	s.resolvePickups()
	s.prune()

	s.arena.Sweep(func(o *entity.Orb) {
		s.ledger.NoteRemoved(o)
	})

	for _, ob := range s.observers {
		ob.OnTick(s.now, &s.collector, s.arena.Len())
	}
}

func (s *Session) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *Session) releaseExpiredOrbits() {
	s.arena.ForEach(func(_ entity.Handle, o *entity.Orb) {
		if deflect.Expired(o, s.now) {
			s.deflector.Release(o, s.arena.Get(o.OrbitalPartner))
		}
	})
}

func (s *Session) integrate(dt float64, frozen bool) {
	// The collector tracks its target position with exponential
	// smoothing; raw input jumps never teleport it.
	t := s.cfg.Session.FollowRate * dt
	if t > 1 {
		t = 1
	}
	s.collector.Pos = s.collector.Pos.Lerp(s.collector.TargetPos, t)

	if frozen {
		return
	}
	s.arena.ForEach(func(_ entity.Handle, o *entity.Orb) {
		o.Pos = o.Pos.Add(o.Vel.Scale(dt))
	})
}

// resolveContacts detects all overlaps first and resolves them after,
// so the contact list is built against a stable entity set. Resolution
// works through handles; inserts during resolution (fused orbs) cannot
// invalidate it.
func (s *Session) resolveContacts() {
	s.pass = s.pass[:0]
	s.arena.ForEach(func(h entity.Handle, o *entity.Orb) {
		s.pass = append(s.pass, passEntry{h: h, orb: o})
	})

	s.collContacts = s.collContacts[:0]
	s.pairContacts = s.pairContacts[:0]

	for _, e := range s.pass {
		r := (s.collector.Diameter + e.orb.Diameter) / 2
		if e.orb.Pos.DistanceSqTo(s.collector.Pos) <= r*r {
			s.collContacts = append(s.collContacts, e.h)
		}
	}

	for i := 0; i < len(s.pass); i++ {
		for j := i + 1; j < len(s.pass); j++ {
			a, b := s.pass[i], s.pass[j]
			r := (a.orb.Diameter + b.orb.Diameter) / 2
			if a.orb.Pos.DistanceSqTo(b.orb.Pos) <= r*r {
				s.pairContacts = append(s.pairContacts, [2]entity.Handle{a.h, b.h})
			}
		}
	}

	for _, h := range s.collContacts {
		s.resolver.CollectorOrb(&s.collector, s.arena, h, s.now)
	}
	for _, pair := range s.pairContacts {
		s.resolver.OrbOrb(&s.collector, s.arena, pair[0], pair[1], s.now)
	}
}

func (s *Session) resolvePickups() {
	kept := s.pickups[:0]
	for _, p := range s.pickups {
		r := (s.collector.Diameter + p.Diameter) / 2
		if p.Pos.DistanceSqTo(s.collector.Pos) <= r*r {
			s.resolver.Pickup(p.Kind, s.now)
			continue
		}
		kept = append(kept, p)
	}
	s.pickups = kept
}

// prune removes orbs that drifted out of play range. Removal defers to
// the end-of-tick sweep like every other removal.
func (s *Session) prune() {
	limitSq := s.cfg.Session.PruneRadius * s.cfg.Session.PruneRadius
	s.arena.ForEach(func(h entity.Handle, o *entity.Orb) {
		if o.Pos.DistanceSqTo(s.collector.Pos) > limitSq {
			pruned := *o
			s.arena.Kill(h)
			s.sink.OrbPruned(pruned)
		}
	})
}
