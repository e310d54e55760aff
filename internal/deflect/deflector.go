// Package deflect implements the orbital fallback used when a fusion
// is declined. Silently ignoring the contact looks broken, so the
// smaller orb is flung into a temporary orbit around its partner and
// released outward once the orbit times out.
package deflect

import (
	"math"

	"github.com/san-kum/accretion/internal/config"
	"github.com/san-kum/accretion/internal/entity"
)

type Deflector struct {
	g                float64
	speedMultiplier  float64
	escapeMultiplier float64
	inheritance      float64
	duration         float64
}

func New(gravityCfg config.GravityConfig, cfg config.DeflectConfig) *Deflector {
	return &Deflector{
		g:                gravityCfg.G,
		speedMultiplier:  cfg.SpeedMultiplier,
		escapeMultiplier: cfg.EscapeMultiplier,
		inheritance:      cfg.Inheritance,
		duration:         cfg.Duration,
	}
}

func (d *Deflector) Duration() float64 { return d.duration }

// Capture puts orb into orbit around partner. The orb gets a tangential
// velocity at circular-orbit speed plus a fraction of the partner's own
// velocity, and is marked orbital until now+duration. While orbital it
// is excluded from collector gravity and from collisions with partner.
func (d *Deflector) Capture(orb, partner *entity.Orb, partnerHandle entity.Handle, now float64) {
	radial := orb.Pos.Sub(partner.Pos)
	dist := radial.Length()
	if dist == 0 {
		// Coincident centers have no defined tangent; mark orbital so
		// the pair stops re-colliding and let the release impulse
		// separate them.
		orb.Orbital = true
		orb.OrbitalPartner = partnerHandle
		orb.OrbitalUntil = now + d.duration
		return
	}

	speed := math.Sqrt(d.g*partner.Mass()/dist) * d.speedMultiplier

	tangent := radial.Perpendicular().Normalize()
	// Keep whatever angular direction the orb already has.
	if orb.Vel.Dot(tangent) < 0 {
		tangent = tangent.Scale(-1)
	}

	orb.Vel = tangent.Scale(speed).Add(partner.Vel.Scale(d.inheritance))
	orb.Orbital = true
	orb.OrbitalPartner = partnerHandle
	orb.OrbitalUntil = now + d.duration
}

// Release ends the orbit: the orb receives an outward impulse at escape
// speed and returns to normal gravity and collision behavior. partner
// may be nil if it was removed mid-orbit; the orb is then released with
// no impulse.
func (d *Deflector) Release(orb, partner *entity.Orb) {
	orb.Orbital = false
	orb.OrbitalPartner = entity.NoHandle
	orb.OrbitalUntil = 0

	if partner == nil {
		return
	}

	away := orb.Pos.Sub(partner.Pos)
	dist := away.Length()
	if dist == 0 {
		return
	}

	escape := math.Sqrt(2*d.g*partner.Mass()/dist) * d.escapeMultiplier
	orb.Vel = orb.Vel.Add(away.Normalize().Scale(escape))
}

// Expired reports whether the orb's orbit has timed out.
func Expired(orb *entity.Orb, now float64) bool {
	return orb.Orbital && now >= orb.OrbitalUntil
}
