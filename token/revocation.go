package token

import (
	"sync"
	"time"
)

// Denylist holds the jti of access tokens revoked before their expiry.
type Denylist interface {
	Deny(jti string, until time.Time) error
	Denied(jti string) bool
	Prune(now time.Time) int
}

// MemoryDenylist keeps revoked jtis until the token would have expired.
type MemoryDenylist struct {
	mu    sync.RWMutex
	until map[string]time.Time
}

func NewMemoryDenylist() *MemoryDenylist {
	return &MemoryDenylist{until: map[string]time.Time{}}
}

func (d *MemoryDenylist) Deny(jti string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if current, ok := d.until[jti]; ok && current.After(until) {
		return nil
	}
	d.until[jti] = until
	return nil
}

func (d *MemoryDenylist) Denied(jti string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.until[jti]
	return ok
}

// Prune drops entries for tokens that have expired by now and returns how many went.
func (d *MemoryDenylist) Prune(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	pruned := 0
	for jti, until := range d.until {
		if now.After(until) {
			delete(d.until, jti)
			pruned++
		}
	}
	return pruned
}
