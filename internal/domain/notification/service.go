// internal/domain/notification/service.go
package notification

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type is the style of a toast
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeInfo    Type = "info"
)

// DefaultLifetime is how long a toast stays visible
const DefaultLifetime = 4 * time.Second

var ErrUnknownType = errors.New("unknown alert type")

// Valid reports whether t is a known toast type
func (t Type) Valid() bool {
	switch t {
	case TypeSuccess, TypeError, TypeInfo:
		return true
	}
	return false
}

// Alert is a toast queued for a session
type Alert struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service holds toasts per session until they are delivered or expire.
// Queues of sessions that never come back are swept once their toasts expire.
type Service struct {
	mu        sync.Mutex
	queues    map[string][]Alert
	lifetime  time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewService(lifetime time.Duration) *Service {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Service{
		queues:   make(map[string][]Alert),
		lifetime: lifetime,
		now:      time.Now,
	}
}

// ShowAlert queues a toast for sid and returns it
func (s *Service) ShowAlert(sid string, t Type, message string) (Alert, error) {
	if !t.Valid() {
		return Alert{}, ErrUnknownType
	}

	now := s.now()
	alert := Alert{
		ID:        uuid.New().String(),
		Type:      t,
		Message:   message,
		ExpiresAt: now.Add(s.lifetime),
	}

	s.mu.Lock()
	if now.Sub(s.lastSweep) >= s.lifetime {
		s.sweepLocked(now)
	}
	s.queues[sid] = append(s.queues[sid], alert)
	s.mu.Unlock()

	return alert, nil
}

// Success is ShowAlert with TypeSuccess
func (s *Service) Success(sid, message string) {
	_, _ = s.ShowAlert(sid, TypeSuccess, message)
}

// Error is ShowAlert with TypeError
func (s *Service) Error(sid, message string) {
	_, _ = s.ShowAlert(sid, TypeError, message)
}

// Info is ShowAlert with TypeInfo
func (s *Service) Info(sid, message string) {
	_, _ = s.ShowAlert(sid, TypeInfo, message)
}

// Pending returns the live toasts of sid in the order they were shown and
// drops them. Expired toasts are discarded.
func (s *Service) Pending(sid string) []Alert {
	s.mu.Lock()
	queue := s.queues[sid]
	delete(s.queues, sid)
	s.mu.Unlock()

	now := s.now()
	alerts := make([]Alert, 0, len(queue))
	for _, a := range queue {
		if now.Before(a.ExpiresAt) {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// Len returns the number of sessions with queued toasts
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queues)
}

// sweepLocked drops expired toasts and empty queues. s.mu must be held.
func (s *Service) sweepLocked(now time.Time) {
	s.lastSweep = now
	for sid, queue := range s.queues {
		live := queue[:0]
		for _, a := range queue {
			if now.Before(a.ExpiresAt) {
				live = append(live, a)
			}
		}
		if len(live) == 0 {
			delete(s.queues, sid)
			continue
		}
		s.queues[sid] = live
	}
}

// Drop discards every toast of sid
func (s *Service) Drop(sid string) {
	s.mu.Lock()
	delete(s.queues, sid)
	s.mu.Unlock()
}
