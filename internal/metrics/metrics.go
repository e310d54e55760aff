// Package metrics aggregates per-session statistics from simulation
// events and per-tick observations.
package metrics

import (
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/events"
)

// Tracker collects the standard session metrics. It plugs into the
// session as both an event sink and a tick observer.
type Tracker struct {
	score        int
	correct      int
	missed       int
	merges       int
	pruned       int
	peakDiameter float64
	survival     float64
	gameOver     bool
	reason       events.Reason
}

func NewTracker() *Tracker {
	return &Tracker{}
}

// events.Sink

func (t *Tracker) OrbConsumed(_ entity.Orb, correct bool, points int) {
	if correct {
		t.correct++
		t.score += points
	} else {
		t.missed++
	}
}

func (t *Tracker) MergeSucceeded(_, _, _ entity.Orb) { t.merges++ }

func (t *Tracker) GameOver(reason events.Reason) {
	t.gameOver = true
	t.reason = reason
}

func (t *Tracker) PowerUpActivated(events.PowerUpKind) {}
func (t *Tracker) PowerUpExpired(events.PowerUpKind)   {}
func (t *Tracker) OrbSpawned(entity.Orb)               {}
func (t *Tracker) OrbPruned(entity.Orb)                { t.pruned++ }

// session.Observer

func (t *Tracker) OnTick(now float64, c *entity.Collector, _ int) {
	t.survival = now
	if c.Diameter > t.peakDiameter {
		t.peakDiameter = c.Diameter
	}
}

func (t *Tracker) Score() int            { return t.score }
func (t *Tracker) Correct() int          { return t.correct }
func (t *Tracker) Missed() int           { return t.missed }
func (t *Tracker) Merges() int           { return t.merges }
func (t *Tracker) Pruned() int           { return t.pruned }
func (t *Tracker) PeakDiameter() float64 { return t.peakDiameter }
func (t *Tracker) SurvivalTime() float64 { return t.survival }

// Outcome reports the terminal reason, if the session ended.
func (t *Tracker) Outcome() (events.Reason, bool) {
	return t.reason, t.gameOver
}

// Values returns all metrics keyed by name, in the shape the run store
// persists.
func (t *Tracker) Values() map[string]float64 {
	return map[string]float64{
		"score":         float64(t.score),
		"correct":       float64(t.correct),
		"missed":        float64(t.missed),
		"merges":        float64(t.merges),
		"pruned":        float64(t.pruned),
		"peak_diameter": t.peakDiameter,
		"survival_time": t.survival,
	}
}

func (t *Tracker) Reset() {
	*t = Tracker{}
}
