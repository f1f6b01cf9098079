package http

import (
	"testing"
	"time"

	"masarif/internal/log"
)

func TestRateLimiterEnforcesLimit(t *testing.T) {
	metrics := &securityMetrics{}
	rl := newRateLimiter(3, log.New(log.DefaultConfig()), metrics)
	defer rl.stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("192.0.2.1") {
			t.Fatalf("request %d denied within the limit", i+1)
		}
	}
	if rl.allow("192.0.2.1") {
		t.Fatal("request over the limit allowed")
	}
	if hits, _ := metrics.snapshot(); hits != 1 {
		t.Fatalf("rate limit hits = %d, want 1", hits)
	}

	// Other clients keep their own budget.
	if !rl.allow("192.0.2.2") {
		t.Fatal("unrelated client denied")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := newRateLimiter(1, log.New(log.DefaultConfig()), &securityMetrics{})
	defer rl.stop()

	if !rl.allow("192.0.2.1") {
		t.Fatal("first request denied")
	}
	if rl.allow("192.0.2.1") {
		t.Fatal("second request in the same window allowed")
	}

	// Backdating the window start simulates the minute passing.
	rl.mu.Lock()
	rl.clients["192.0.2.1"].windowStart = time.Now().Add(-2 * rateLimitWindow)
	rl.mu.Unlock()

	if !rl.allow("192.0.2.1") {
		t.Fatal("request after window expiry denied")
	}
}

func TestRateLimiterSweepDropsStaleClients(t *testing.T) {
	rl := newRateLimiter(5, log.New(log.DefaultConfig()), &securityMetrics{})
	defer rl.stop()

	rl.allow("192.0.2.1")
	rl.allow("192.0.2.2")

	rl.mu.Lock()
	rl.clients["192.0.2.1"].windowStart = time.Now().Add(-2 * limiterStaleCutoff)
	rl.mu.Unlock()

	if remaining := rl.sweep(); remaining != 1 {
		t.Fatalf("tracked clients after sweep = %d, want 1", remaining)
	}
}
