package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Clock returns the current time. Tests inject a fixed one.
type Clock func() time.Time

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a per-key token bucket: burst attempts, one token back every interval.
type Limiter struct {
	interval time.Duration
	burst    int
	now      Clock

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewLimiter(interval time.Duration, burst int, clock Clock) *Limiter {
	if clock == nil {
		clock = time.Now
	}
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		interval: interval,
		burst:    burst,
		now:      clock,
		clients:  make(map[string]*clientLimiter),
	}
}

func (l *Limiter) get(key string, now time.Time) *rate.Limiter {
	if cl, ok := l.clients[key]; ok {
		cl.lastSeen = now
		return cl.limiter
	}
	limiter := rate.NewLimiter(rate.Every(l.interval), l.burst)
	l.clients[key] = &clientLimiter{limiter: limiter, lastSeen: now}
	return limiter
}

// Reserve takes one token for key. When none is available it returns false and
// how long the caller has to wait, and no token is consumed.
func (l *Limiter) Reserve(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	limiter := l.get(key, now)

	reservation := limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return l.interval, false
	}

	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
		return delay, false
	}

	return 0, true
}

// Prune drops keys not seen for longer than idle and returns how many were removed.
func (l *Limiter) Prune(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > idle {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
