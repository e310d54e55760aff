// Package powerup holds the small Idle/Rainbow/Freeze effect machine.
// Expiry is evaluated by comparing the session clock against a stored
// timestamp once per tick; there are no timers.
package powerup

type Kind int

const (
	None Kind = iota
	// Rainbow relaxes the class-match consumption rule. The size rule
	// is never relaxed.
	Rainbow
	// Freeze suspends velocity integration for all orbs.
	Freeze
)

func (k Kind) String() string {
	switch k {
	case Rainbow:
		return "rainbow"
	case Freeze:
		return "freeze"
	}
	return "none"
}

// State tracks the single active effect. Picking up a second power-up
// while one is active replaces both kind and timer.
type State struct {
	kind      Kind
	expiresAt float64

	rainbowDuration float64
	freezeDuration  float64
}

func New(rainbowDuration, freezeDuration float64) *State {
	return &State{
		rainbowDuration: rainbowDuration,
		freezeDuration:  freezeDuration,
	}
}

// Activate starts the effect at now, replacing any active effect.
// Activating None clears the state.
func (s *State) Activate(k Kind, now float64) {
	s.kind = k
	switch k {
	case Rainbow:
		s.expiresAt = now + s.rainbowDuration
	case Freeze:
		s.expiresAt = now + s.freezeDuration
	default:
		s.kind = None
		s.expiresAt = 0
	}
}

// Expire clears the effect if its timestamp has passed, returning the
// expired kind. Call once per tick.
func (s *State) Expire(now float64) (Kind, bool) {
	if s.kind == None || now < s.expiresAt {
		return None, false
	}
	expired := s.kind
	s.kind = None
	s.expiresAt = 0
	return expired, true
}

func (s *State) Active() Kind { return s.kind }

func (s *State) RainbowActive() bool { return s.kind == Rainbow }

func (s *State) FreezeActive() bool { return s.kind == Freeze }

// Remaining reports seconds left on the active effect, zero when idle.
func (s *State) Remaining(now float64) float64 {
	if s.kind == None || s.expiresAt <= now {
		return 0
	}
	return s.expiresAt - now
}
