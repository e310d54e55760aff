package collision_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/accretion/internal/collision"
	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/deflect"
	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/events"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/growth"
	"github.com/san-kum/accretion/internal/merge"
	"github.com/san-kum/accretion/internal/powerup"
)

var _ = Describe("Resolver", func() {
	var (
		cfg       *config.Config
		resolver  *collision.Resolver
		recorder  *events.Recorder
		power     *powerup.State
		ledger    *merge.Ledger
		collector *entity.Collector
		arena     *entity.Arena
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		recorder = events.NewRecorder()
		power = powerup.New(cfg.PowerUp.RainbowDuration, cfg.PowerUp.FreezeDuration)
		ledger = &merge.Ledger{}

		resolver = collision.NewResolver(collision.Deps{
			Growth:         growth.New(cfg.Growth, cfg.Session.MaxTickDelta),
			Merges:         merge.NewEngine(cfg.Merge, ledger),
			Deflector:      deflect.New(cfg.Gravity, cfg.Deflect),
			Power:          power,
			Sink:           recorder,
			GracePeriod:    cfg.Session.GracePeriod,
			WrongClassMult: cfg.Growth.WrongClassMult,
			ScoreSizeStep:  cfg.Session.ScoreSizeStep,
		})

		collector = &entity.Collector{
			Diameter:    100,
			TargetClass: entity.ClassAmber,
			MassMult:    cfg.Session.CollectorMassMult,
		}
		arena = entity.NewArena(16)
	})

	insert := func(o entity.Orb) entity.Handle {
		return arena.Insert(o)
	}

	Describe("collector contacts", func() {
		It("consumes a matching orb and grows the collector", func() {
			h := insert(entity.Orb{Diameter: 50, Class: entity.ClassAmber, BasePoints: 15})

			resolver.CollectorOrb(collector, arena, h, 1.0)

			Expect(collector.Diameter).To(BeNumerically("~", 103.459, 0.001))
			Expect(arena.Get(h)).To(BeNil(), "consumed orb removed")

			consumed := recorder.ByKind(events.KindOrbConsumed)
			Expect(consumed).To(HaveLen(1))
			Expect(consumed[0].Correct).To(BeTrue())
			Expect(consumed[0].Points).To(BeNumerically(">", 0))
		})

		It("ends the session when the orb is at least collector-sized", func() {
			h := insert(entity.Orb{Diameter: 120, Class: entity.ClassAmber})

			resolver.CollectorOrb(collector, arena, h, 1.0)

			reason, terminal := resolver.Terminal()
			Expect(terminal).To(BeTrue())
			Expect(reason).To(Equal(events.ReasonDestabilized))
			Expect(collector.Diameter).To(Equal(100.0), "no growth or shrink applied")
			Expect(recorder.Count(events.KindGameOver)).To(Equal(1))
		})

		It("never consumes an oversized orb even under rainbow", func() {
			power.Activate(powerup.Rainbow, 0)
			h := insert(entity.Orb{Diameter: 100, Class: entity.ClassViolet})

			resolver.CollectorOrb(collector, arena, h, 1.0)

			_, terminal := resolver.Terminal()
			Expect(terminal).To(BeTrue(), "size gate is never relaxed")
		})

		It("consumes any class while rainbow is active", func() {
			power.Activate(powerup.Rainbow, 0)
			h := insert(entity.Orb{Diameter: 40, Class: entity.ClassViolet, BasePoints: 60})

			resolver.CollectorOrb(collector, arena, h, 1.0)

			Expect(collector.Diameter).To(BeNumerically(">", 100))
			consumed := recorder.ByKind(events.KindOrbConsumed)
			Expect(consumed).To(HaveLen(1))
			Expect(consumed[0].Correct).To(BeTrue())
		})

		It("shrinks the collector on a wrong-class contact", func() {
			collector.Diameter = 40
			h := insert(entity.Orb{Diameter: 20, Class: entity.ClassViolet})

			resolver.CollectorOrb(collector, arena, h, 10.0)

			// forgiveness = min(40/200, 0.5) = 0.2 so multiplier 0.82.
			Expect(collector.Diameter).To(BeNumerically("~", 32.8, 1e-9))
			_, terminal := resolver.Terminal()
			Expect(terminal).To(BeFalse(), "32.8 is above the minimum diameter")
		})

		It("waives the penalty inside the grace period", func() {
			good := insert(entity.Orb{Diameter: 50, Class: entity.ClassAmber, BasePoints: 15})
			resolver.CollectorOrb(collector, arena, good, 1.0)
			grown := collector.Diameter

			bad := insert(entity.Orb{Diameter: 30, Class: entity.ClassViolet})
			resolver.CollectorOrb(collector, arena, bad, 1.3)

			Expect(collector.Diameter).To(Equal(grown), "no shrink inside grace window")
			Expect(arena.Get(bad)).To(BeNil(), "orb still consumed")
		})

		It("applies the penalty once the grace period has lapsed", func() {
			good := insert(entity.Orb{Diameter: 50, Class: entity.ClassAmber, BasePoints: 15})
			resolver.CollectorOrb(collector, arena, good, 1.0)
			grown := collector.Diameter

			bad := insert(entity.Orb{Diameter: 30, Class: entity.ClassViolet})
			resolver.CollectorOrb(collector, arena, bad, 2.0)

			Expect(collector.Diameter).To(BeNumerically("<", grown))
		})

		It("latches TooSmall when a penalty hits the minimum diameter", func() {
			collector.Diameter = 31
			h := insert(entity.Orb{Diameter: 20, Class: entity.ClassViolet})

			resolver.CollectorOrb(collector, arena, h, 10.0)

			reason, terminal := resolver.Terminal()
			Expect(terminal).To(BeTrue())
			Expect(reason).To(Equal(events.ReasonTooSmall))
			Expect(collector.Diameter).To(Equal(30.0))
		})

		It("ignores duplicate contact events for a processed orb", func() {
			h := insert(entity.Orb{Diameter: 50, Class: entity.ClassAmber, BasePoints: 15})

			resolver.CollectorOrb(collector, arena, h, 1.0)
			resolver.CollectorOrb(collector, arena, h, 1.0)

			Expect(recorder.Count(events.KindOrbConsumed)).To(Equal(1))
		})

		It("ignores all contacts after the session ends", func() {
			big := insert(entity.Orb{Diameter: 200})
			resolver.CollectorOrb(collector, arena, big, 1.0)

			h := insert(entity.Orb{Diameter: 50, Class: entity.ClassAmber, BasePoints: 15})
			resolver.CollectorOrb(collector, arena, h, 2.0)

			Expect(recorder.Count(events.KindOrbConsumed)).To(BeZero())
			Expect(recorder.Count(events.KindGameOver)).To(Equal(1))
		})
	})

	Describe("orb pair contacts", func() {
		pairFarFromCollector := func() (entity.Handle, entity.Handle) {
			h1 := insert(entity.Orb{Pos: geom.Vec2{X: 500, Y: 0}, Diameter: 80, Class: entity.ClassViridian, BasePoints: 25})
			h2 := insert(entity.Orb{Pos: geom.Vec2{X: 565, Y: 0}, Diameter: 60, Class: entity.ClassAmber, BasePoints: 15})
			return h1, h2
		}

		It("fuses orbs when every safeguard passes", func() {
			h1, h2 := pairFarFromCollector()

			resolver.OrbOrb(collector, arena, h1, h2, 5.0)

			Expect(arena.Get(h1)).To(BeNil())
			Expect(arena.Get(h2)).To(BeNil())
			Expect(ledger.ActiveMerged).To(Equal(1))

			merges := recorder.ByKind(events.KindMergeSucceeded)
			Expect(merges).To(HaveLen(1))
			Expect(merges[0].Result.Diameter).To(BeNumerically("~", 100.0, 1e-9))
		})

		It("deflects the smaller orb when the merge is declined", func() {
			// Second contact within the cooldown window.
			h1, h2 := pairFarFromCollector()
			resolver.OrbOrb(collector, arena, h1, h2, 5.0)

			h3 := insert(entity.Orb{Pos: geom.Vec2{X: 800, Y: 0}, Diameter: 70, Class: entity.ClassViridian})
			h4 := insert(entity.Orb{Pos: geom.Vec2{X: 860, Y: 0}, Diameter: 40, Class: entity.ClassAmber})

			resolver.OrbOrb(collector, arena, h3, h4, 5.5)

			smaller := arena.Get(h4)
			Expect(smaller).NotTo(BeNil(), "declined merge never removes orbs")
			Expect(smaller.Orbital).To(BeTrue())
			Expect(smaller.OrbitalPartner).To(Equal(h3))
			Expect(smaller.Vel.Length()).To(BeNumerically(">", 0))

			Expect(arena.Get(h3).Orbital).To(BeFalse(), "larger orb unaffected")
			Expect(recorder.Count(events.KindMergeSucceeded)).To(Equal(1))
		})

		It("suspends collisions between a deflected orb and its partner", func() {
			h1, h2 := pairFarFromCollector()
			resolver.OrbOrb(collector, arena, h1, h2, 5.0)

			h3 := insert(entity.Orb{Pos: geom.Vec2{X: 800, Y: 0}, Diameter: 70, Class: entity.ClassViridian})
			h4 := insert(entity.Orb{Pos: geom.Vec2{X: 860, Y: 0}, Diameter: 40, Class: entity.ClassAmber})
			resolver.OrbOrb(collector, arena, h3, h4, 5.5)

			velBefore := arena.Get(h4).Vel
			resolver.OrbOrb(collector, arena, h3, h4, 5.6)

			Expect(arena.Get(h4).Vel).To(Equal(velBefore), "partner contact is a no-op")
		})

		It("declines fusion near the collector", func() {
			h1 := insert(entity.Orb{Pos: geom.Vec2{X: 60, Y: 0}, Diameter: 80, Class: entity.ClassViridian})
			h2 := insert(entity.Orb{Pos: geom.Vec2{X: 120, Y: 0}, Diameter: 60, Class: entity.ClassAmber})

			resolver.OrbOrb(collector, arena, h1, h2, 5.0)

			Expect(recorder.Count(events.KindMergeSucceeded)).To(BeZero())
			Expect(arena.Get(h2).Orbital).To(BeTrue(), "deflection fallback engaged")
		})
	})

	Describe("power-up pickups", func() {
		It("activates the effect and emits the event", func() {
			resolver.Pickup(powerup.Freeze, 3.0)

			Expect(power.FreezeActive()).To(BeTrue())
			activated := recorder.ByKind(events.KindPowerUpActivated)
			Expect(activated).To(HaveLen(1))
			Expect(activated[0].PowerUp).To(Equal(events.PowerUpFreeze))
		})

		It("replaces an active effect with the new pickup", func() {
			resolver.Pickup(powerup.Rainbow, 3.0)
			resolver.Pickup(powerup.Freeze, 4.0)

			Expect(power.FreezeActive()).To(BeTrue())
			Expect(power.RainbowActive()).To(BeFalse())
		})

		It("ignores pickups after the session ends", func() {
			resolver.ForceGameOver(events.ReasonCollapsed)
			resolver.Pickup(powerup.Rainbow, 3.0)

			Expect(power.Active()).To(Equal(powerup.None))
		})
	})

	Describe("forced game over", func() {
		It("latches the collapsed reason exactly once", func() {
			resolver.ForceGameOver(events.ReasonCollapsed)
			resolver.ForceGameOver(events.ReasonTooSmall)

			reason, terminal := resolver.Terminal()
			Expect(terminal).To(BeTrue())
			Expect(reason).To(Equal(events.ReasonCollapsed))
			Expect(recorder.Count(events.KindGameOver)).To(Equal(1))
		})
	})
})
