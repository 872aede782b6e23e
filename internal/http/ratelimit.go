package http

import (
	"sync"
	"time"
)

const defaultRateLimit = 60

// rateLimiter counts POST requests per client IP in fixed one-minute windows.
// Idle clients are dropped by CleanExpired, which the cache manager calls.
type rateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	limit   int
	period  time.Duration
	now     func() time.Time
}

type window struct {
	start    time.Time
	last     time.Time
	requests int
}

// newRateLimiter allows limit requests per minute and client; a non-positive
// limit selects the default.
func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		limit = defaultRateLimit
	}
	return &rateLimiter{
		windows: make(map[string]*window),
		limit:   limit,
		period:  time.Minute,
		now:     time.Now,
	}
}

// allow records a request from clientIP and reports whether it is within the limit.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.windows[clientIP]
	if !ok || now.Sub(w.start) >= rl.period {
		rl.windows[clientIP] = &window{start: now, last: now, requests: 1}
		return true
	}
	w.requests++
	w.last = now
	return w.requests <= rl.limit
}

// CleanExpired forgets clients idle for ten periods.
func (rl *rateLimiter) CleanExpired() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-10 * rl.period)
	removed := 0
	for ip, w := range rl.windows {
		if w.last.Before(cutoff) {
			delete(rl.windows, ip)
			removed++
		}
	}
	return removed
}
