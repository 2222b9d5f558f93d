// Package ratelimit keeps per-key token buckets for login throttling. One
// Limiter is shared by the HTTP and gRPC surfaces, so a client address has a
// single budget whichever transport it uses.
package ratelimit

import (
	"net"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter keeps one token bucket per key. Buckets idle for longer than ttl
// are dropped by a sweep that runs at most once per ttl.
type Limiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*bucket
}

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// New allows perMinute events per key. A burst of zero or less defaults to
// perMinute.
func New(perMinute, burst int, ttl time.Duration) *Limiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &Limiter{
		limit:   rate.Limit(float64(perMinute) / 60),
		burst:   burst,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*bucket),
	}
}

// Allow spends one token from key's bucket.
func (m *Limiter) Allow(key string) bool {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastSweep.IsZero() {
		m.lastSweep = now
	}
	if now.Sub(m.lastSweep) >= m.ttl {
		m.sweep(now)
	}

	b := m.entries[key]
	if b == nil {
		b = &bucket{lim: rate.NewLimiter(m.limit, m.burst)}
		m.entries[key] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

func (m *Limiter) sweep(now time.Time) {
	for k, v := range m.entries {
		if now.Sub(v.lastSeen) > m.ttl {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

// RetryAfter is the whole seconds until one event is allowed again.
func (m *Limiter) RetryAfter() int {
	if m.limit <= 0 {
		return 60
	}
	s := int(time.Duration(float64(time.Second)/float64(m.limit)) / time.Second)
	if s < 1 {
		s = 1
	}
	return s
}

// HostKey strips the port from a peer address. Addresses without a port are
// used as they are.
func HostKey(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err == nil && host != "" {
		return host
	}
	return addr
}
