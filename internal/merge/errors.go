package merge

import "errors"

// Safeguard failures. Each maps to one of the five preconditions; a
// declined fusion routes the contact to the orbital deflector instead.
var (
	// ErrLedgerFull indicates the active merged-orb cap is reached.
	ErrLedgerFull = errors.New("merge: active merged orb cap reached")

	// ErrCooldown indicates the fusion cooldown has not elapsed.
	ErrCooldown = errors.New("merge: cooldown not elapsed")

	// ErrTooSmall indicates one of the orbs is below the minimum size.
	ErrTooSmall = errors.New("merge: orb below minimum merge size")

	// ErrMergeCapped indicates one of the orbs has fused too many times.
	ErrMergeCapped = errors.New("merge: orb merge count exhausted")

	// ErrNearCollector indicates an orb is inside the exclusion radius
	// around the collector.
	ErrNearCollector = errors.New("merge: orb inside collector exclusion radius")
)
