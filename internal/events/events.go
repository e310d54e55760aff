// Package events defines the outbound interface of the simulation core.
// Rendering, audio, haptics, and score UI live outside this module and
// subscribe through a Sink injected into the session; the core holds no
// global managers.
package events

import "github.com/san-kum/accretion/internal/entity"

// Reason tags a terminal session outcome.
type Reason int

const (
	// ReasonDestabilized: the collector contacted an orb at least its
	// own size.
	ReasonDestabilized Reason = iota
	// ReasonTooSmall: a wrong-class penalty shrank the collector to the
	// minimum diameter.
	ReasonTooSmall
	// ReasonCollapsed: passive shrink ground the collector down to the
	// minimum diameter.
	ReasonCollapsed
)

func (r Reason) String() string {
	switch r {
	case ReasonDestabilized:
		return "destabilized"
	case ReasonTooSmall:
		return "too_small"
	case ReasonCollapsed:
		return "collapsed"
	}
	return "unknown"
}

// PowerUpKind mirrors the power-up state machine kinds for event
// consumers that do not import the powerup package.
type PowerUpKind int

const (
	PowerUpNone PowerUpKind = iota
	PowerUpRainbow
	PowerUpFreeze
)

func (k PowerUpKind) String() string {
	switch k {
	case PowerUpRainbow:
		return "rainbow"
	case PowerUpFreeze:
		return "freeze"
	}
	return "none"
}

// Sink receives simulation events. Implementations must not call back
// into the session; events fire synchronously inside the tick.
type Sink interface {
	// OrbConsumed fires when the collector removes an orb. correct
	// reports whether the class gate passed; points is the awarded
	// score (zero for incorrect or grace-period consumptions).
	OrbConsumed(orb entity.Orb, correct bool, points int)

	// MergeSucceeded fires after two orbs fuse into result.
	MergeSucceeded(parentA, parentB, result entity.Orb)

	// GameOver fires exactly once, when the session latches terminal.
	GameOver(reason Reason)

	PowerUpActivated(kind PowerUpKind)
	PowerUpExpired(kind PowerUpKind)

	// OrbSpawned and OrbPruned let the harness mirror population
	// changes (spawn effects, off-screen cleanup).
	OrbSpawned(orb entity.Orb)
	OrbPruned(orb entity.Orb)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) OrbConsumed(entity.Orb, bool, int)                 {}
func (NopSink) MergeSucceeded(entity.Orb, entity.Orb, entity.Orb) {}
func (NopSink) GameOver(Reason)                                   {}
func (NopSink) PowerUpActivated(PowerUpKind)                      {}
func (NopSink) PowerUpExpired(PowerUpKind)                        {}
func (NopSink) OrbSpawned(entity.Orb)                             {}
func (NopSink) OrbPruned(entity.Orb)                              {}

// Multi fans events out to several sinks in order.
func Multi(sinks ...Sink) Sink {
	return multiSink(sinks)
}

type multiSink []Sink

func (m multiSink) OrbConsumed(o entity.Orb, correct bool, points int) {
	for _, s := range m {
		s.OrbConsumed(o, correct, points)
	}
}

func (m multiSink) MergeSucceeded(a, b, r entity.Orb) {
	for _, s := range m {
		s.MergeSucceeded(a, b, r)
	}
}

func (m multiSink) GameOver(reason Reason) {
	for _, s := range m {
		s.GameOver(reason)
	}
}

func (m multiSink) PowerUpActivated(k PowerUpKind) {
	for _, s := range m {
		s.PowerUpActivated(k)
	}
}

func (m multiSink) PowerUpExpired(k PowerUpKind) {
	for _, s := range m {
		s.PowerUpExpired(k)
	}
}

func (m multiSink) OrbSpawned(o entity.Orb) {
	for _, s := range m {
		s.OrbSpawned(o)
	}
}

func (m multiSink) OrbPruned(o entity.Orb) {
	for _, s := range m {
		s.OrbPruned(o)
	}
}
