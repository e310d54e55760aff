package entity

// Handle identifies an orb slot in an Arena. The generation field
// detects stale handles after a slot is recycled.
type Handle struct {
	idx int
	gen uint32
}

// NoHandle is the zero Handle; it never resolves to a live orb.
var NoHandle = Handle{idx: -1}

// Arena is a slot-backed orb store. Removal is two-phase: Kill marks a
// slot dead immediately (lookups start failing), Sweep recycles dead
// slots after the tick's iteration passes have finished. This keeps
// the orb set stable while force application and contact resolution
// iterate it.
type Arena struct {
	slots []slot
	free  []int
	alive int
}

type slot struct {
	orb  Orb
	gen  uint32
	live bool
	dead bool
}

func NewArena(capacity int) *Arena {
	return &Arena{
		slots: make([]slot, 0, capacity),
		free:  make([]int, 0, capacity),
	}
}

// Insert stores the orb and returns its handle.
func (a *Arena) Insert(o Orb) Handle {
	a.alive++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.orb = o
		s.live = true
		s.dead = false
		return Handle{idx: idx, gen: s.gen}
	}
	a.slots = append(a.slots, slot{orb: o, gen: 1, live: true})
	return Handle{idx: len(a.slots) - 1, gen: 1}
}

// Get resolves a handle to its orb, or nil if the handle is stale or
// the orb has been killed this tick.
func (a *Arena) Get(h Handle) *Orb {
	if h.idx < 0 || h.idx >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.idx]
	if !s.live || s.dead || s.gen != h.gen {
		return nil
	}
	return &s.orb
}

// Kill marks the orb dead. The slot is not recycled until Sweep runs.
func (a *Arena) Kill(h Handle) {
	if h.idx < 0 || h.idx >= len(a.slots) {
		return
	}
	s := &a.slots[h.idx]
	if !s.live || s.dead || s.gen != h.gen {
		return
	}
	s.dead = true
	a.alive--
}

// Sweep recycles all dead slots, invoking onRemove for each orb before
// its slot is freed. Call once per tick after all iteration passes.
func (a *Arena) Sweep(onRemove func(*Orb)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live || !s.dead {
			continue
		}
		if onRemove != nil {
			onRemove(&s.orb)
		}
		s.live = false
		s.dead = false
		s.gen++
		a.free = append(a.free, i)
	}
}

// ForEach visits every live orb. Kill during iteration is allowed; the
// killed orb simply stops resolving. Insert during iteration may or may
// not be visited and should be avoided inside force passes.
func (a *Arena) ForEach(fn func(Handle, *Orb)) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live || s.dead {
			continue
		}
		fn(Handle{idx: i, gen: s.gen}, &s.orb)
	}
}

// Handles returns the handles of all live orbs, in slot order.
func (a *Arena) Handles() []Handle {
	out := make([]Handle, 0, a.alive)
	a.ForEach(func(h Handle, _ *Orb) {
		out = append(out, h)
	})
	return out
}

// Len is the number of live, unkilled orbs.
func (a *Arena) Len() int {
	return a.alive
}
