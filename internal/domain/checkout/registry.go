// internal/domain/checkout/registry.go
package checkout

import (
	"sync"
	"time"

	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
)

// DefaultAttemptTTL is how long an attempt nobody reads is kept
const DefaultAttemptTTL = 30 * time.Minute

type entry struct {
	attempt *Attempt
	touched time.Time
}

// Registry keeps the current attempt of each session. Attempts untouched
// for longer than the TTL are swept, except those with a confirmation in
// flight.
type Registry struct {
	mu        sync.Mutex
	attempts  map[string]*entry
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewRegistry creates an empty registry; ttl <= 0 means DefaultAttemptTTL
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultAttemptTTL
	}
	return &Registry{
		attempts: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Put makes a the current attempt of sid, replacing any previous one
func (r *Registry) Put(sid string, a *Attempt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if now.Sub(r.lastSweep) >= r.ttl {
		r.sweepLocked(now)
	}
	r.attempts[sid] = &entry{attempt: a, touched: now}
}

// Get returns the current attempt of sid and marks it as used
func (r *Registry) Get(sid string) (*Attempt, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.attempts[sid]
	if !ok {
		return nil, false
	}
	e.touched = r.now()
	return e.attempt, true
}

// Delete drops the attempt of sid
func (r *Registry) Delete(sid string) {
	r.mu.Lock()
	delete(r.attempts, sid)
	r.mu.Unlock()
}

// Len returns the number of tracked attempts
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.attempts)
}

// Watch drops the attempt of every session the store invalidates
func (r *Registry) Watch(store session.Store) {
	store.Subscribe(func(ev session.Invalidation) {
		r.Delete(ev.SessionID)
	})
}

// sweepLocked drops idle attempts. r.mu must be held.
func (r *Registry) sweepLocked(now time.Time) {
	r.lastSweep = now
	for sid, e := range r.attempts {
		if now.Sub(e.touched) < r.ttl {
			continue
		}
		if e.attempt.State() == StateSubmitting {
			continue
		}
		delete(r.attempts, sid)
	}
}
