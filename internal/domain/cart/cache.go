// internal/domain/cart/cache.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	redisdb "github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/database/redis"
)

// ErrCacheMiss is returned when no cart is cached for the session
var ErrCacheMiss = errors.New("cache miss")

// Cache holds the read-through copy of each session's cart
type Cache interface {
	Get(ctx context.Context, sid string) (*Cart, error)
	Set(ctx context.Context, sid string, cart *Cart) error
	Delete(ctx context.Context, sid string) error
}

func cacheKey(sid string) string {
	return fmt.Sprintf("cart:%s", sid)
}

// RedisCache stores carts as JSON under cart:<sid>
type RedisCache struct {
	client *redisdb.Client
	ttl    time.Duration
}

// NewRedisCache creates a RedisCache
func NewRedisCache(client *redisdb.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, sid string) (*Cart, error) {
	var cart Cart
	err := r.client.GetJSON(ctx, cacheKey(sid), &cart)
	if errors.Is(err, redisdb.ErrNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return &cart, nil
}

func (r *RedisCache) Set(ctx context.Context, sid string, cart *Cart) error {
	if err := r.client.SetJSON(ctx, cacheKey(sid), cart, r.ttl); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, sid string) error {
	if err := r.client.Del(ctx, cacheKey(sid)); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

// MemoryCache is an in-process Cache
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryCache creates a MemoryCache; ttl <= 0 keeps entries until deleted
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryCache) Get(_ context.Context, sid string) (*Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[sid]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, sid)
		return nil, ErrCacheMiss
	}

	cart := entry.cart
	cart.Items = append([]Item(nil), entry.cart.Items...)
	return &cart, nil
}

func (m *MemoryCache) Set(_ context.Context, sid string, cart *Cart) error {
	entry := memoryEntry{cart: *cart}
	entry.cart.Items = append([]Item(nil), cart.Items...)
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[sid] = entry
	m.mu.Unlock()
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.entries, sid)
	m.mu.Unlock()
	return nil
}
