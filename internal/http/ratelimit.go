package http

import (
	"sync"
	"time"

	"masarif/internal/log"
)

// mutationRateLimit caps writes per client per window. Reads are exempt:
// the report endpoints are cached and the transaction list is small, but a
// burst of writes invalidates the report cache on every request.
const (
	mutationRateLimit  = 60
	rateLimitWindow    = time.Minute
	limiterSweepEvery  = 5 * time.Minute
	limiterStaleCutoff = 10 * time.Minute
	limiterReportEvery = 3 // sweeps between security counter reports
)

// rateLimiter tracks per-client mutation counts over a sliding window and
// periodically sweeps clients that went quiet.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow

	limit   int
	logger  *log.Logger
	metrics *securityMetrics

	stopSweep    chan struct{}
	shutdownOnce sync.Once
}

type clientWindow struct {
	windowStart time.Time
	mutations   int
}

func newRateLimiter(limit int, logger *log.Logger, metrics *securityMetrics) *rateLimiter {
	rl := &rateLimiter{
		clients:   make(map[string]*clientWindow),
		limit:     limit,
		logger:    logger,
		metrics:   metrics,
		stopSweep: make(chan struct{}),
	}
	go rl.sweepLoop()
	return rl
}

// allow records one mutation for the client and reports whether it stays
// within the window's budget.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, ok := rl.clients[clientIP]
	if !ok || now.Sub(client.windowStart) > rateLimitWindow {
		rl.clients[clientIP] = &clientWindow{windowStart: now, mutations: 1}
		return true
	}

	client.mutations++
	if client.mutations > rl.limit {
		rl.metrics.recordRateLimitHit()
		return false
	}
	return true
}

func (rl *rateLimiter) sweepLoop() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	sweeps := 0
	for {
		select {
		case <-ticker.C:
			tracked := rl.sweep()
			sweeps++
			if sweeps%limiterReportEvery == 0 {
				hits, suspicious := rl.metrics.snapshot()
				rl.logger.Info("Security counters",
					"tracked_clients", tracked,
					"rate_limit_hits", hits,
					"suspicious_requests", suspicious)
			}
		case <-rl.stopSweep:
			return
		}
	}
}

// sweep drops clients whose last window started before the cutoff and
// returns how many remain tracked.
func (rl *rateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-limiterStaleCutoff)
	for ip, client := range rl.clients {
		if client.windowStart.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
	return len(rl.clients)
}

// stop terminates the sweep goroutine and logs the final counters.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopSweep)
		hits, suspicious := rl.metrics.snapshot()
		if hits > 0 || suspicious > 0 {
			rl.logger.Info("Security counters at shutdown",
				"rate_limit_hits", hits,
				"suspicious_requests", suspicious)
		}
	})
}
