package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter is an in-process token-bucket limiter keyed by client IP,
// guarding the whole HTTP surface in front of the per-user sliding window.
// Idle entries are evicted so the map does not grow without bound.
type IPLimiter struct {
	mu      sync.Mutex
	entries map[string]*ipEntry
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
}

type ipEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter creates an IPLimiter admitting rps requests per second with
// the given burst per client.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	return &IPLimiter{
		entries: make(map[string]*ipEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
	}
}

// Allow reports whether the client identified by ip may proceed now
func (l *IPLimiter) Allow(ip string) bool {
	now := time.Now()

	l.mu.Lock()
	ent, ok := l.entries[ip]
	if !ok {
		ent = &ipEntry{lim: rate.NewLimiter(l.rps, l.burst)}
		l.entries[ip] = ent
	}
	ent.lastSeen = now
	l.mu.Unlock()

	return ent.lim.Allow()
}

// Cleanup evicts entries not seen within the idle TTL
func (l *IPLimiter) Cleanup() {
	cutoff := time.Now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()

	for ip, ent := range l.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(l.entries, ip)
		}
	}
}

// StartJanitor evicts idle entries periodically until ctx is cancelled
func (l *IPLimiter) StartJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Cleanup()
			}
		}
	}()
}
