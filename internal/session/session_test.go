package session

import (
	"math"
	"testing"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/events"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/powerup"
)

const dt = 0.05

func newSession(t *testing.T) (*Session, *events.Recorder) {
	t.Helper()
	return newSessionWith(t, config.DefaultConfig())
}

func newSessionWith(t *testing.T, cfg *config.Config) (*Session, *events.Recorder) {
	t.Helper()
	rec := events.NewRecorder()
	s, err := New(cfg, rec)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	return s, rec
}

func TestConsumeMatchingOrb(t *testing.T) {
	s, rec := newSession(t)

	// Default collector: diameter 60 at the origin, seeking crimson.
	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 10, Y: 0}, Diameter: 30, Class: entity.ClassCrimson})
	s.Step(dt)

	if s.OrbCount() != 0 {
		t.Fatalf("orb not consumed: %d remain", s.OrbCount())
	}
	if s.Collector().Diameter <= 60 {
		t.Errorf("collector did not grow: %f", s.Collector().Diameter)
	}

	consumed := rec.ByKind(events.KindOrbConsumed)
	if len(consumed) != 1 || !consumed[0].Correct || consumed[0].Points <= 0 {
		t.Errorf("consumption event wrong: %+v", consumed)
	}
}

func TestGravityPullsOrbToCollector(t *testing.T) {
	s, _ := newSession(t)

	h := s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 300, Y: 0}, Diameter: 20, Class: entity.ClassAmber})

	var xBefore float64
	s.ForEachOrb(func(hh entity.Handle, o *entity.Orb) {
		if hh == h {
			xBefore = o.Pos.X
		}
	})

	for i := 0; i < 10; i++ {
		s.Step(dt)
	}

	found := false
	s.ForEachOrb(func(hh entity.Handle, o *entity.Orb) {
		if hh != h {
			return
		}
		found = true
		if o.Pos.X >= xBefore {
			t.Errorf("orb not drawn inward: x %f -> %f", xBefore, o.Pos.X)
		}
		if o.Vel.X >= 0 {
			t.Errorf("orb velocity not aimed at collector: %v", o.Vel)
		}
	})
	if !found {
		t.Fatal("orb disappeared")
	}
}

func TestMergeProducesQuadratureOrb(t *testing.T) {
	s, rec := newSession(t)

	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 500, Y: 0}, Diameter: 80, Class: entity.ClassViridian})
	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 565, Y: 0}, Diameter: 60, Class: entity.ClassAmber})

	s.Step(dt)

	merges := rec.ByKind(events.KindMergeSucceeded)
	if len(merges) != 1 {
		t.Fatalf("got %d merge events, want 1", len(merges))
	}
	if math.Abs(merges[0].Result.Diameter-100) > 1e-9 {
		t.Errorf("fused diameter = %f, want 100", merges[0].Result.Diameter)
	}
	if s.OrbCount() != 1 {
		t.Errorf("orb count = %d, want 1 (fused orb)", s.OrbCount())
	}
	if s.Ledger().ActiveMerged != 1 {
		t.Errorf("active merged = %d, want 1", s.Ledger().ActiveMerged)
	}
}

func TestPruneDecrementsLedgerForMergedOrb(t *testing.T) {
	s, rec := newSession(t)

	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 500, Y: 0}, Diameter: 80, Class: entity.ClassViridian})
	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 565, Y: 0}, Diameter: 60, Class: entity.ClassAmber})
	s.Step(dt)

	// Push the fused orb out of play range.
	s.ForEachOrb(func(_ entity.Handle, o *entity.Orb) {
		o.Pos = geom.Vec2{X: 5000, Y: 0}
	})
	s.Step(dt)

	if s.Ledger().ActiveMerged != 0 {
		t.Errorf("ledger not decremented on prune: %d", s.Ledger().ActiveMerged)
	}
	if rec.Count(events.KindOrbPruned) != 1 {
		t.Errorf("prune events = %d, want 1", rec.Count(events.KindOrbPruned))
	}
	if s.OrbCount() != 0 {
		t.Errorf("orb count = %d, want 0", s.OrbCount())
	}
}

func TestOrbitalDeflectionLifecycle(t *testing.T) {
	cfg := config.DefaultConfig()
	s, rec := newSessionWith(t, cfg)

	// Cap out the merge count of both orbs so the fusion is always
	// declined and the contact must route to the deflector.
	capped := cfg.Merge.MaxMergesPerOrb
	large := s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 800, Y: 0}, Diameter: 70, Class: entity.ClassCrimson, MergeCount: capped})
	small := s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 850, Y: 0}, Diameter: 40, Class: entity.ClassCrimson, MergeCount: capped})

	s.Step(dt)

	var until float64
	s.ForEachOrb(func(h entity.Handle, o *entity.Orb) {
		if h != small {
			return
		}
		if !o.Orbital {
			t.Fatal("smaller orb not deflected")
		}
		if o.OrbitalPartner != large {
			t.Error("wrong deflection partner")
		}
		if o.Vel.Length() == 0 {
			t.Error("no orbital velocity assigned")
		}
		until = o.OrbitalUntil
	})
	if want := s.Now() + cfg.Deflect.Duration; math.Abs(until-want) > 1e-9 {
		t.Errorf("orbital until = %f, want %f", until, want)
	}

	// Park the orbiting orb away from its partner so the overlap (and
	// any re-capture) cannot recur before the orbit expires.
	s.ForEachOrb(func(h entity.Handle, o *entity.Orb) {
		if h == small {
			o.Pos = geom.Vec2{X: 0, Y: 900}
			o.Vel = geom.Vec2{}
		}
	})

	for s.Now() < until+dt {
		s.Step(dt)
	}

	s.ForEachOrb(func(h entity.Handle, o *entity.Orb) {
		if h != small {
			return
		}
		if o.Orbital {
			t.Error("orb still orbital after duration")
		}
		if o.Vel.Length() == 0 {
			t.Error("no escape impulse applied on release")
		}
	})

	if rec.Count(events.KindMergeSucceeded) != 0 {
		t.Error("capped orbs merged anyway")
	}
}

func TestFreezeSuspendsOrbIntegration(t *testing.T) {
	s, rec := newSession(t)

	h := s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 600, Y: 0}, Vel: geom.Vec2{X: -40, Y: 0}, Diameter: 20, Class: entity.ClassAmber})
	s.SpawnPickup(powerup.Freeze, geom.Vec2{})

	s.Step(dt) // collects the pickup at the collector's position
	if kind, _ := s.ActivePowerUp(); kind != powerup.Freeze {
		t.Fatalf("freeze not active: %v", kind)
	}

	pos := func() geom.Vec2 {
		var p geom.Vec2
		s.ForEachOrb(func(hh entity.Handle, o *entity.Orb) {
			if hh == h {
				p = o.Pos
			}
		})
		return p
	}

	frozenAt := pos()
	for i := 0; i < 20; i++ {
		s.Step(dt)
	}
	if p := pos(); p != frozenAt {
		t.Errorf("orb moved while frozen: %v -> %v", frozenAt, p)
	}

	// Run past the freeze duration; motion resumes.
	cfg := config.DefaultConfig()
	for s.Now() < cfg.PowerUp.FreezeDuration+1 {
		s.Step(dt)
	}
	if kind, _ := s.ActivePowerUp(); kind != powerup.None {
		t.Fatal("freeze never expired")
	}
	if rec.Count(events.KindPowerUpExpired) != 1 {
		t.Errorf("expiry events = %d, want 1", rec.Count(events.KindPowerUpExpired))
	}
	if p := pos(); p == frozenAt {
		t.Error("orb still frozen after expiry")
	}
}

func TestPauseFreezesClockAndTimers(t *testing.T) {
	s, _ := newSession(t)

	s.SpawnPickup(powerup.Rainbow, geom.Vec2{})
	s.Step(dt)

	_, remainingBefore := s.ActivePowerUp()
	clockBefore := s.Now()

	s.Pause()
	for i := 0; i < 100; i++ {
		s.Step(dt)
	}

	if s.Now() != clockBefore {
		t.Errorf("clock advanced while paused: %f -> %f", clockBefore, s.Now())
	}
	if _, r := s.ActivePowerUp(); r != remainingBefore {
		t.Errorf("power-up timer drained while paused: %f -> %f", remainingBefore, r)
	}

	s.Resume()
	s.Step(dt)
	if s.Now() <= clockBefore {
		t.Error("clock did not resume")
	}
}

func TestDeltaSpikeClamped(t *testing.T) {
	s, _ := newSession(t)

	// Host was backgrounded: a huge frame delta arrives.
	s.Step(10.0)

	if s.Now() > config.DefaultConfig().Session.MaxTickDelta+1e-12 {
		t.Errorf("delta spike leaked into the clock: %f", s.Now())
	}
}

func TestTerminalStopsTicking(t *testing.T) {
	s, rec := newSession(t)

	// gameOver by contact with an oversized orb.
	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{}, Diameter: 200, Class: entity.ClassCrimson})
	s.Step(dt)

	reason, terminal := s.Terminal()
	if !terminal || reason != events.ReasonDestabilized {
		t.Fatalf("terminal = %v %v, want destabilized", reason, terminal)
	}

	frozen := s.Now()
	for i := 0; i < 10; i++ {
		s.Step(dt)
	}
	if s.Now() != frozen {
		t.Error("session kept ticking after game over")
	}
	if rec.Count(events.KindGameOver) != 1 {
		t.Errorf("game over events = %d, want 1", rec.Count(events.KindGameOver))
	}
}

func TestPassiveShrinkCollapse(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Growth.PassiveRate = 50.0 // aggressive, collapses in under a second
	s, rec := newSessionWith(t, cfg)

	for i := 0; i < 100; i++ {
		s.Step(dt)
	}

	reason, terminal := s.Terminal()
	if !terminal || reason != events.ReasonCollapsed {
		t.Fatalf("terminal = %v %v, want collapsed", reason, terminal)
	}
	if d := s.Collector().Diameter; d != cfg.Growth.MinDiameter {
		t.Errorf("collector diameter = %f, want clamp at %f", d, cfg.Growth.MinDiameter)
	}
	if rec.Count(events.KindGameOver) != 1 {
		t.Errorf("game over events = %d, want 1", rec.Count(events.KindGameOver))
	}
}

func TestCollectorFollowsTarget(t *testing.T) {
	s, _ := newSession(t)

	s.SetTargetPosition(geom.Vec2{X: 200, Y: 0})
	for i := 0; i < 40; i++ {
		s.Step(dt)
	}

	x := s.Collector().Pos.X
	if x <= 0 || x > 200 {
		t.Errorf("collector at %f, want between 0 and 200", x)
	}
	if x < 150 {
		t.Errorf("collector barely moved: %f", x)
	}
}

func TestTargetClassRotation(t *testing.T) {
	s, rec := newSession(t)

	s.SetTargetClass(entity.ClassViolet)
	s.SpawnOrb(entity.Orb{Pos: geom.Vec2{X: 10, Y: 0}, Diameter: 30, Class: entity.ClassCrimson})
	s.Step(dt)

	consumed := rec.ByKind(events.KindOrbConsumed)
	if len(consumed) != 1 || consumed[0].Correct {
		t.Errorf("crimson orb should mismatch violet target: %+v", consumed)
	}
	if s.Collector().Diameter >= 60 {
		t.Errorf("no penalty applied: %f", s.Collector().Diameter)
	}
}
