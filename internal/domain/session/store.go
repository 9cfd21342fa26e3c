// internal/domain/session/store.go
package session

import (
	"context"
	"sync"
	"time"
)

// Store keeps one credential per browser session
type Store interface {
	// Get returns ErrNoCredential when nothing is stored for sid.
	Get(ctx context.Context, sid string) (*Credential, error)
	Set(ctx context.Context, sid string, cred Credential) error
	// Clear removes the credential and notifies subscribers, even when
	// nothing was stored.
	Clear(ctx context.Context, sid, reason string) error
	Subscribe(fn func(Invalidation))
}

type broadcaster struct {
	mu   sync.RWMutex
	subs []func(Invalidation)
}

func (b *broadcaster) Subscribe(fn func(Invalidation)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

func (b *broadcaster) publish(ev Invalidation) {
	b.mu.RLock()
	subs := make([]func(Invalidation), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

type memoryEntry struct {
	cred      Credential
	expiresAt time.Time
}

// MemoryStore is an in-process Store
type MemoryStore struct {
	broadcaster

	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore; ttl <= 0 keeps credentials until cleared
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the credential for sid
func (s *MemoryStore) Get(_ context.Context, sid string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sid]
	if !ok {
		return nil, ErrNoCredential
	}
	if !entry.expiresAt.IsZero() && !s.now().Before(entry.expiresAt) {
		delete(s.entries, sid)
		return nil, ErrNoCredential
	}

	cred := entry.cred
	return &cred, nil
}

// Set stores cred for sid
func (s *MemoryStore) Set(_ context.Context, sid string, cred Credential) error {
	ttl := lifetime(cred.Token, s.ttl, s.now())

	entry := memoryEntry{cred: cred}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[sid] = entry
	s.mu.Unlock()
	return nil
}

// Clear removes the credential for sid
func (s *MemoryStore) Clear(_ context.Context, sid, reason string) error {
	s.mu.Lock()
	delete(s.entries, sid)
	s.mu.Unlock()

	s.publish(Invalidation{SessionID: sid, Reason: reason})
	return nil
}
