package ratelimit

import (
	"sync"
	"time"
)

// Cooldown refuses a key until its reported wait has elapsed, then lets exactly
// one attempt through before the key is free again.
type Cooldown struct {
	now Clock

	mu    sync.Mutex
	until map[string]time.Time
}

func NewCooldown(clock Clock) *Cooldown {
	if clock == nil {
		clock = time.Now
	}
	return &Cooldown{
		now:   clock,
		until: make(map[string]time.Time),
	}
}

// Block arms the cooldown for key for wait from now.
func (c *Cooldown) Block(key string, wait time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.until[key] = c.now().Add(wait)
}

// Check returns the remaining wait and false while key is cooling down. Once the
// wait is over the entry is cleared and the call returns true.
func (c *Cooldown) Check(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	until, ok := c.until[key]
	if !ok {
		return 0, true
	}

	now := c.now()
	if now.Before(until) {
		return until.Sub(now), false
	}

	delete(c.until, key)
	return 0, true
}

// Prune drops expired entries.
func (c *Cooldown) Prune() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, until := range c.until {
		if !now.Before(until) {
			delete(c.until, key)
			removed++
		}
	}
	return removed
}
