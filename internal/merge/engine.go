// Package merge fuses orb pairs into larger orbs under a set of
// resource safeguards, and tracks the session-wide fusion ledger.
package merge

import (
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/geom"
)

// Ledger holds the session-wide fusion counters. It resets with the
// session.
type Ledger struct {
	ActiveMerged int
	LastMergeAt  float64

	started bool
}

// NoteRemoved decrements the active count when a fused orb leaves the
// simulation (consumed or pruned).
func (l *Ledger) NoteRemoved(o *entity.Orb) {
	if o.Merged && l.ActiveMerged > 0 {
		l.ActiveMerged--
	}
}

func (l *Ledger) Reset() {
	l.ActiveMerged = 0
	l.LastMergeAt = 0
	l.started = false
}

type Engine struct {
	cfg    config.MergeConfig
	ledger *Ledger
}

func NewEngine(cfg config.MergeConfig, ledger *Ledger) *Engine {
	return &Engine{cfg: cfg, ledger: ledger}
}

func (e *Engine) Ledger() *Ledger { return e.ledger }

// Try attempts fusion of two contacting orbs. The safeguards run in a
// fixed order; the first failure declines the fusion with its reason.
// On accept the ledger is updated and the fused orb is returned; the
// caller removes the parents and inserts the result.
func (e *Engine) Try(a, b *entity.Orb, collectorPos geom.Vec2, now float64) (entity.Orb, error) {
	if e.ledger.ActiveMerged >= e.cfg.MaxMergedOrbs {
		return entity.Orb{}, ErrLedgerFull
	}
	if e.ledger.started && now-e.ledger.LastMergeAt <= e.cfg.Cooldown {
		return entity.Orb{}, ErrCooldown
	}
	if a.Diameter < e.cfg.MinMergeSize || b.Diameter < e.cfg.MinMergeSize {
		return entity.Orb{}, ErrTooSmall
	}
	if a.MergeCount >= e.cfg.MaxMergesPerOrb || b.MergeCount >= e.cfg.MaxMergesPerOrb {
		return entity.Orb{}, ErrMergeCapped
	}
	exclusionSq := e.cfg.ExclusionRadius * e.cfg.ExclusionRadius
	if a.Pos.DistanceSqTo(collectorPos) <= exclusionSq || b.Pos.DistanceSqTo(collectorPos) <= exclusionSq {
		return entity.Orb{}, ErrNearCollector
	}

	fused := e.fuse(a, b)

	e.ledger.ActiveMerged++
	e.ledger.LastMergeAt = now
	e.ledger.started = true

	return fused, nil
}

// fuse builds the child orb. Diameter is the quadrature sum of the
// parent radii so cross-sectional area is conserved; a plain diameter
// sum would inflate total mass on every fusion.
func (e *Engine) fuse(a, b *entity.Orb) entity.Orb {
	ra := a.Diameter / 2
	rb := b.Diameter / 2
	newDiameter := 2 * math.Sqrt(ra*ra+rb*rb)

	maxCount := a.MergeCount
	if b.MergeCount > maxCount {
		maxCount = b.MergeCount
	}

	return entity.Orb{
		Pos:        a.Pos.Lerp(b.Pos, 0.5),
		Vel:        a.Vel.Add(b.Vel).Scale(0.5).Scale(e.cfg.VelocityDamping),
		Diameter:   newDiameter,
		Class:      entity.ClassForDiameter(newDiameter),
		BasePoints: int(math.Round(float64(a.BasePoints+b.BasePoints) * e.cfg.PointsFactor)),
		MergeCount: maxCount + 1,
		Merged:     true,
	}
}
