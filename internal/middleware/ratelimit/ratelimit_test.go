package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 3})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("request over the per-minute budget should be denied")
	}
}

func TestLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	defer rl.Stop()

	if !rl.Allow("10.0.0.1") {
		t.Error("first client should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("second client should be allowed independently")
	}
	if rl.ActiveClients() != 2 {
		t.Errorf("ActiveClients() = %d, want 2", rl.ActiveClients())
	}
}

func TestLimiterZeroConfigFallsBackToDefaults(t *testing.T) {
	rl := NewLimiter(Config{})
	defer rl.Stop()

	if rl.requestsPerMinute != 60 {
		t.Errorf("requestsPerMinute = %d, want 60", rl.requestsPerMinute)
	}
	if rl.cleanupInterval != 5*time.Minute {
		t.Errorf("cleanupInterval = %v, want 5m", rl.cleanupInterval)
	}
}

func TestLimiterStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(Config{RequestsPerMinute: 1})
	rl.Stop()
	rl.Stop()
}
