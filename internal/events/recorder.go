package events

import "github.com/san-kum/accretion/internal/entity"

// EventKind discriminates Recorder entries.
type EventKind int

const (
	KindOrbConsumed EventKind = iota
	KindMergeSucceeded
	KindGameOver
	KindPowerUpActivated
	KindPowerUpExpired
	KindOrbSpawned
	KindOrbPruned
)

// Record is one captured event.
type Record struct {
	Kind    EventKind
	Orb     entity.Orb
	ParentB entity.Orb
	Result  entity.Orb
	Correct bool
	Points  int
	Reason  Reason
	PowerUp PowerUpKind
}

// Recorder is a Sink that appends every event to an in-memory log.
// Used by tests and by the run store when persisting a session.
type Recorder struct {
	Records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OrbConsumed(o entity.Orb, correct bool, points int) {
	r.Records = append(r.Records, Record{Kind: KindOrbConsumed, Orb: o, Correct: correct, Points: points})
}

func (r *Recorder) MergeSucceeded(a, b, result entity.Orb) {
	r.Records = append(r.Records, Record{Kind: KindMergeSucceeded, Orb: a, ParentB: b, Result: result})
}

func (r *Recorder) GameOver(reason Reason) {
	r.Records = append(r.Records, Record{Kind: KindGameOver, Reason: reason})
}

func (r *Recorder) PowerUpActivated(k PowerUpKind) {
	r.Records = append(r.Records, Record{Kind: KindPowerUpActivated, PowerUp: k})
}

func (r *Recorder) PowerUpExpired(k PowerUpKind) {
	r.Records = append(r.Records, Record{Kind: KindPowerUpExpired, PowerUp: k})
}

func (r *Recorder) OrbSpawned(o entity.Orb) {
	r.Records = append(r.Records, Record{Kind: KindOrbSpawned, Orb: o})
}

func (r *Recorder) OrbPruned(o entity.Orb) {
	r.Records = append(r.Records, Record{Kind: KindOrbPruned, Orb: o})
}

// ByKind returns the captured records of one kind, in order.
func (r *Recorder) ByKind(kind EventKind) []Record {
	var out []Record
	for _, rec := range r.Records {
		if rec.Kind == kind {
			out = append(out, rec)
		}
	}
	return out
}

// Count returns how many events of the given kind were captured.
func (r *Recorder) Count(kind EventKind) int {
	n := 0
	for _, rec := range r.Records {
		if rec.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.Records = r.Records[:0]
}
