// internal/domain/session/redis_store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps credentials in Redis so several storefront instances share them
type RedisStore struct {
	broadcaster

	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a RedisStore
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the credential for sid
func (s *RedisStore) Get(ctx context.Context, sid string) (*Credential, error) {
	data, err := s.client.Get(ctx, sessionKey(sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoCredential
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session failed: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &cred, nil
}

// Set stores cred for sid
func (s *RedisStore) Set(ctx context.Context, sid string, cred Credential) error {
	data, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}

	ttl := lifetime(cred.Token, s.ttl, s.now())
	if err := s.client.Set(ctx, sessionKey(sid), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set session failed: %w", err)
	}
	return nil
}

// Clear removes the credential for sid
func (s *RedisStore) Clear(ctx context.Context, sid, reason string) error {
	err := s.client.Del(ctx, sessionKey(sid)).Err()

	s.publish(Invalidation{SessionID: sid, Reason: reason})

	if err != nil {
		return fmt.Errorf("redis delete session failed: %w", err)
	}
	return nil
}

func sessionKey(sid string) string {
	return fmt.Sprintf("session:%s", sid)
}
