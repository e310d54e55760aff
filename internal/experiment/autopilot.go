package experiment

import (
	"math"

	"github.com/san-kum/accretion/internal/entity"
	"github.com/san-kum/accretion/internal/geom"
	"github.com/san-kum/accretion/internal/session"
)

// Steer is a greedy autopilot: chase the nearest consumable orb of the
// target class, fall back to any consumable orb, and back away when
// nothing safe is in range.
func Steer(sess *session.Session) {
	c := sess.Collector()

	var best, bestAny geom.Vec2
	bestDist, bestAnyDist := math.Inf(1), math.Inf(1)
	var threat geom.Vec2
	threatDist := math.Inf(1)

	sess.ForEachOrb(func(_ entity.Handle, o *entity.Orb) {
		d := c.Pos.DistanceSqTo(o.Pos)
		if !c.CanConsume(o) {
			if d < threatDist {
				threatDist, threat = d, o.Pos
			}
			return
		}
		if d < bestAnyDist {
			bestAnyDist, bestAny = d, o.Pos
		}
		if o.Class == c.TargetClass && d < bestDist {
			bestDist, best = d, o.Pos
		}
	})

	switch {
	case !math.IsInf(bestDist, 1):
		sess.SetTargetPosition(best)
	case !math.IsInf(bestAnyDist, 1):
		sess.SetTargetPosition(bestAny)
	case !math.IsInf(threatDist, 1):
		away := c.Pos.Sub(threat).Normalize().Scale(200)
		sess.SetTargetPosition(c.Pos.Add(away))
	}
}
