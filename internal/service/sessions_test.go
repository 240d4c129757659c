package service

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestSessionIssueLookup(t *testing.T) {
	reg := NewSessionRegistry(time.Hour)
	clock := newFakeClock()
	reg.SetClock(clock.Now)

	s, err := reg.Issue(42)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if s.Token == "" {
		t.Fatal("expected non-empty token")
	}
	if !s.ExpiresAt.Equal(clock.Now().Add(time.Hour)) {
		t.Errorf("got expiry %v", s.ExpiresAt)
	}

	id, ok := reg.Lookup(s.Token)
	if !ok || id != 42 {
		t.Errorf("Lookup = (%d, %v), want (42, true)", id, ok)
	}

	if _, ok := reg.Lookup("unknown"); ok {
		t.Error("unknown token should not resolve")
	}
}

func TestSessionTokensUnique(t *testing.T) {
	reg := NewSessionRegistry(0)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s, err := reg.Issue(1)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		if seen[s.Token] {
			t.Fatalf("duplicate token %q", s.Token)
		}
		seen[s.Token] = true
	}
	if reg.Len() != 100 {
		t.Errorf("Len = %d, want 100", reg.Len())
	}
}

func TestSessionExpiryIsLazy(t *testing.T) {
	reg := NewSessionRegistry(time.Hour)
	clock := newFakeClock()
	reg.SetClock(clock.Now)

	s, _ := reg.Issue(1)

	clock.Advance(59 * time.Minute)
	if _, ok := reg.Lookup(s.Token); !ok {
		t.Fatal("token should still be valid")
	}

	clock.Advance(time.Minute)
	if reg.Len() != 1 {
		t.Fatalf("expired entry should linger until looked up, Len = %d", reg.Len())
	}
	if _, ok := reg.Lookup(s.Token); ok {
		t.Error("token at expiry should be invalid")
	}
	if reg.Len() != 0 {
		t.Errorf("expired entry should be evicted on lookup, Len = %d", reg.Len())
	}
}

func TestSessionRevoke(t *testing.T) {
	reg := NewSessionRegistry(time.Hour)
	s, _ := reg.Issue(1)

	reg.Revoke(s.Token)
	if _, ok := reg.Lookup(s.Token); ok {
		t.Error("revoked token should not resolve")
	}

	// Idempotent and safe for unknown tokens.
	reg.Revoke(s.Token)
	reg.Revoke("never-issued")
}

func TestSessionSweep(t *testing.T) {
	reg := NewSessionRegistry(time.Hour)
	clock := newFakeClock()
	reg.SetClock(clock.Now)

	old, _ := reg.Issue(1)
	clock.Advance(30 * time.Minute)
	fresh, _ := reg.Issue(2)
	clock.Advance(45 * time.Minute)

	if n := reg.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if _, ok := reg.Lookup(old.Token); ok {
		t.Error("old token should be gone")
	}
	if id, ok := reg.Lookup(fresh.Token); !ok || id != 2 {
		t.Error("fresh token should survive sweep")
	}
}

func TestSessionConcurrentAccess(t *testing.T) {
	reg := NewSessionRegistry(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s, err := reg.Issue(id)
				if err != nil {
					t.Errorf("Issue: %v", err)
					return
				}
				if got, ok := reg.Lookup(s.Token); !ok || got != id {
					t.Errorf("Lookup = (%d, %v), want (%d, true)", got, ok, id)
				}
				reg.Revoke(s.Token)
				reg.Sweep()
			}
		}(int64(i))
	}
	wg.Wait()

	if reg.Len() != 0 {
		t.Errorf("Len = %d, want 0", reg.Len())
	}
}

func TestJanitorSweeps(t *testing.T) {
	reg := NewSessionRegistry(time.Millisecond)
	if _, err := reg.Issue(1); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	j := NewJanitor(reg, 5*time.Millisecond, nil)
	j.Start()
	defer j.Shutdown()

	deadline := time.Now().Add(2 * time.Second)
	for reg.Len() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("janitor did not sweep expired session")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestJanitorDisabled(t *testing.T) {
	j := NewJanitor(NewSessionRegistry(0), 0, nil)
	if j != nil {
		t.Fatal("expected nil janitor for zero interval")
	}
	// Nil receiver methods are no-ops.
	j.Start()
	j.Shutdown()
}
