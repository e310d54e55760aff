package powerup

import "testing"

func TestActivateAndExpire(t *testing.T) {
	s := New(6.0, 4.0)

	s.Activate(Rainbow, 10.0)
	if !s.RainbowActive() {
		t.Fatal("rainbow not active after activation")
	}
	if r := s.Remaining(10.0); r != 6.0 {
		t.Errorf("remaining = %f, want 6", r)
	}

	if _, ok := s.Expire(15.9); ok {
		t.Error("expired early")
	}
	kind, ok := s.Expire(16.0)
	if !ok || kind != Rainbow {
		t.Errorf("Expire(16) = %v, %v; want rainbow, true", kind, ok)
	}
	if s.Active() != None {
		t.Error("state not cleared after expiry")
	}
}

func TestSecondPickupReplacesFirst(t *testing.T) {
	s := New(6.0, 4.0)

	s.Activate(Rainbow, 0)
	s.Activate(Freeze, 2.0)

	if !s.FreezeActive() || s.RainbowActive() {
		t.Fatalf("active = %v, want freeze only", s.Active())
	}
	// Timer restarted from the second pickup.
	if r := s.Remaining(2.0); r != 4.0 {
		t.Errorf("remaining = %f, want 4", r)
	}

	// The replaced rainbow must not expire; only the freeze does.
	kind, ok := s.Expire(6.0)
	if !ok || kind != Freeze {
		t.Errorf("Expire = %v, %v; want freeze, true", kind, ok)
	}
}

func TestSameKindPickupResetsTimer(t *testing.T) {
	s := New(6.0, 4.0)

	s.Activate(Freeze, 0)
	s.Activate(Freeze, 3.0)

	if _, ok := s.Expire(4.0); ok {
		t.Error("timer not reset by re-pickup")
	}
	if _, ok := s.Expire(7.0); !ok {
		t.Error("effect never expired")
	}
}

func TestIdleNeverExpires(t *testing.T) {
	s := New(6.0, 4.0)

	if _, ok := s.Expire(100); ok {
		t.Error("idle state reported an expiry")
	}
	if s.Remaining(100) != 0 {
		t.Error("idle state reported remaining time")
	}
}
