package gateway

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// loginRateLimit allows 5 attempts per 15 minutes per client IP
const (
	loginAttempts = 5
	loginWindow   = 15 * time.Minute
	limiterMaxAge = time.Hour
)

// ipLimiter rate-limits login attempts per client IP
type ipLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
	limit   rate.Limit
	burst   int
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter() *ipLimiter {
	return &ipLimiter{
		entries: make(map[string]*limiterEntry),
		limit:   rate.Every(loginWindow / loginAttempts),
		burst:   loginAttempts,
	}
}

// Allow reports whether the given IP may attempt a login now
func (l *ipLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = entry
		l.pruneLocked()
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// Reset forgets an IP after a successful login
func (l *ipLimiter) Reset(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, ip)
}

// pruneLocked drops idle entries so the map cannot grow without bound
func (l *ipLimiter) pruneLocked() {
	if len(l.entries) < 1000 {
		return
	}
	cutoff := time.Now().Add(-limiterMaxAge)
	for ip, entry := range l.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(l.entries, ip)
		}
	}
}
