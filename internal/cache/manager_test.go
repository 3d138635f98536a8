package cache

import (
	"testing"
	"time"
)

func TestManagerSweepsExpiredEntries(t *testing.T) {
	c := NewLRUCache[int](10, 10*time.Millisecond)
	m := NewManager()
	m.Register(c)

	c.Set("a", 1)
	c.Set("b", 2)

	m.StartCleanup(5 * time.Millisecond)
	defer m.Stop()

	deadline := time.Now().Add(time.Second)
	for c.Size() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("Size() = %d after sweep deadline, want 0", c.Size())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManagerStopWaitsForSweeper(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](10, time.Minute))

	m.StartCleanup(time.Millisecond)
	m.Stop()

	// Stop blocks until the sweep goroutine exits; reaching here
	// without a hang is the assertion.
}

func TestManagerSweepsMultipleCaches(t *testing.T) {
	a := NewLRUCache[int](10, 5*time.Millisecond)
	b := NewLRUCache[string](10, 5*time.Millisecond)

	m := NewManager()
	m.Register(a)
	m.Register(b)

	a.Set("x", 1)
	b.Set("y", "2")
	time.Sleep(10 * time.Millisecond)

	// Drive one sweep pass directly to keep the test deterministic.
	for _, c := range []Cleaner{a, b} {
		if removed := c.CleanExpired(); removed != 1 {
			t.Errorf("CleanExpired() = %d, want 1", removed)
		}
	}
}
