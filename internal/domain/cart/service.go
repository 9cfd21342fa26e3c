// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"golang.org/x/sync/singleflight"
)

// Backend cart endpoints
const (
	PathCart     = "/carrinho"
	PathAddItem  = "/adicionarItem"
	PathQuantity = "/carrinho/quantidade"
	PathItem     = "/carrinho/item"
)

// API is the subset of the backend client the cart needs
type API interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Patch(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string, in, out any) error
}

// Service reads the backend cart through a cache and forwards mutations
type Service struct {
	api    API
	cache  Cache
	group  singleflight.Group
	logger *logrus.Logger

	mu       sync.Mutex
	inflight map[string]*fetch
}

// fetch is a backend read in progress. A mutation marks it stale so its
// result never reaches the cache.
type fetch struct {
	stale bool
}

// NewService creates a new cart service
func NewService(api API, cache Cache, logger *logrus.Logger) *Service {
	return &Service{
		api:    api,
		cache:    cache,
		logger:   logger,
		inflight: make(map[string]*fetch),
	}
}

// Watch drops the cached cart of every session the store invalidates
func (s *Service) Watch(store session.Store) {
	store.Subscribe(func(ev session.Invalidation) {
		s.invalidate(context.Background(), ev.SessionID)
	})
}

// Get returns the session's cart, fetching it from the backend on a cache miss.
// Concurrent misses for one session share a single backend call.
func (s *Service) Get(ctx context.Context, sid string) (*Cart, error) {
	ctx = session.WithID(ctx, sid)

	cached, err := s.cache.Get(ctx, sid)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		s.logger.WithError(err).WithField("session_id", sid).Warn("Cart cache read failed")
	}

	v, err, _ := s.group.Do(sid, func() (any, error) {
		f := s.track(sid)
		defer s.untrack(sid, f)

		var fetched Cart
		if err := s.api.Get(ctx, PathCart, &fetched); err != nil {
			return nil, err
		}
		s.store(ctx, sid, f, &fetched)
		return &fetched, nil
	})
	if err != nil {
		return nil, err
	}

	// Each caller gets its own copy of the shared result
	shared := v.(*Cart)
	cart := *shared
	cart.Items = append([]Item(nil), shared.Items...)
	return &cart, nil
}

// AddItem adds quantity units of a product
func (s *Service) AddItem(ctx context.Context, sid string, req AddItemRequest) (*Cart, error) {
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	return s.mutate(ctx, sid, "add item", func(ctx context.Context, out *Cart) error {
		return s.api.Post(ctx, PathAddItem, req, out)
	})
}

// UpdateQuantity sets the quantity of a product already in the cart
func (s *Service) UpdateQuantity(ctx context.Context, sid string, req UpdateQuantityRequest) (*Cart, error) {
	if req.Quantity < 0 {
		req.Quantity = 0
	}
	return s.mutate(ctx, sid, "update quantity", func(ctx context.Context, out *Cart) error {
		return s.api.Patch(ctx, PathQuantity, req, out)
	})
}

// RemoveItem removes a product from the cart
func (s *Service) RemoveItem(ctx context.Context, sid string, req RemoveItemRequest) (*Cart, error) {
	return s.mutate(ctx, sid, "remove item", func(ctx context.Context, out *Cart) error {
		return s.api.Delete(ctx, PathItem, req, out)
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sid string) error {
	_, err := s.mutate(ctx, sid, "clear cart", func(ctx context.Context, _ *Cart) error {
		return s.api.Delete(ctx, PathCart, nil, nil)
	})
	return err
}

// mutate runs call and invalidates the cached cart whatever the outcome.
// The returned cart is what the backend answered; it is not cached.
func (s *Service) mutate(ctx context.Context, sid, op string, call func(context.Context, *Cart) error) (*Cart, error) {
	ctx = session.WithID(ctx, sid)
	defer s.invalidate(ctx, sid)

	var out Cart
	if err := call(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}
	return &out, nil
}

// store caches a fetched cart unless a mutation overtook the fetch. The
// second check covers a mutation landing between the first check and Set.
func (s *Service) store(ctx context.Context, sid string, f *fetch, c *Cart) {
	if s.isStale(f) {
		return
	}
	if err := s.cache.Set(ctx, sid, c); err != nil {
		s.logger.WithError(err).WithField("session_id", sid).Warn("Cart cache write failed")
	}
	if s.isStale(f) {
		if err := s.cache.Delete(ctx, sid); err != nil {
			s.logger.WithError(err).WithField("session_id", sid).Warn("Cart cache invalidation failed")
		}
	}
}

func (s *Service) track(sid string) *fetch {
	f := &fetch{}
	s.mu.Lock()
	s.inflight[sid] = f
	s.mu.Unlock()
	return f
}

// untrack only removes f itself; a newer fetch for sid may have replaced it
// after a Forget.
func (s *Service) untrack(sid string, f *fetch) {
	s.mu.Lock()
	if s.inflight[sid] == f {
		delete(s.inflight, sid)
	}
	s.mu.Unlock()
}

func (s *Service) isStale(f *fetch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f.stale
}

func (s *Service) invalidate(ctx context.Context, sid string) {
	s.mu.Lock()
	if f, ok := s.inflight[sid]; ok {
		f.stale = true
	}
	s.mu.Unlock()

	s.group.Forget(sid)
	if err := s.cache.Delete(ctx, sid); err != nil {
		s.logger.WithError(err).WithField("session_id", sid).Warn("Cart cache invalidation failed")
	}
}
