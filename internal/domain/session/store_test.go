package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user:1",
		"exp": exp.Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// setupRedisStore creates a miniredis server and a RedisStore pointing at it
func setupRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ttl), mr
}

func TestNewCredential_Normalizes(t *testing.T) {
	c := NewCredential("tok", " admin ", "")

	assert.Equal(t, "ADMIN", c.Role)
	assert.Equal(t, DefaultName, c.Name)
	assert.True(t, c.IsAdmin())
	assert.False(t, NewCredential("tok", "cliente", "Ana").IsAdmin())
}

func TestContextID(t *testing.T) {
	ctx := WithID(context.Background(), "abc")
	assert.Equal(t, "abc", IDFrom(ctx))
	assert.Equal(t, "", IDFrom(context.Background()))
}

func TestMemoryStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	var events []Invalidation
	s.Subscribe(func(ev Invalidation) { events = append(events, ev) })

	_, err := s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoCredential)

	require.NoError(t, s.Set(ctx, "sid", NewCredential("tok", "ADMIN", "Ana")))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "Ana", got.Name)

	require.NoError(t, s.Clear(ctx, "sid", ReasonExpired))

	_, err = s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoCredential)
	require.Len(t, events, 1)
	assert.Equal(t, Invalidation{SessionID: "sid", Reason: ReasonExpired}, events[0])
}

func TestMemoryStore_ExpiresWithTTL(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "sid", NewCredential("opaque", "", "")))

	now = now.Add(2 * time.Minute)
	_, err := s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestMemoryStore_TTLCappedByTokenExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)
	now := time.Now()
	s.now = func() time.Time { return now }

	token := signedToken(t, now.Add(10*time.Minute))
	require.NoError(t, s.Set(ctx, "sid", NewCredential(token, "", "")))

	now = now.Add(11 * time.Minute)
	_, err := s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	got, ok := TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}

func TestRedisStore_SetGetClear(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t, time.Hour)

	var events []Invalidation
	s.Subscribe(func(ev Invalidation) { events = append(events, ev) })

	require.NoError(t, s.Set(ctx, "sid", NewCredential("tok", "cliente", "Bia")))
	assert.True(t, mr.Exists("session:sid"))
	assert.Equal(t, time.Hour, mr.TTL("session:sid"))

	got, err := s.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "CLIENTE", got.Role)

	require.NoError(t, s.Clear(ctx, "sid", ReasonLogout))
	assert.False(t, mr.Exists("session:sid"))
	require.Len(t, events, 1)
	assert.Equal(t, ReasonLogout, events[0].Reason)

	_, err = s.Get(ctx, "sid")
	assert.ErrorIs(t, err, ErrNoCredential)
}

func TestRedisStore_TTLFollowsToken(t *testing.T) {
	ctx := context.Background()
	s, mr := setupRedisStore(t, 24*time.Hour)

	token := signedToken(t, time.Now().Add(30*time.Minute))
	require.NoError(t, s.Set(ctx, "sid", NewCredential(token, "", "")))

	ttl := mr.TTL("session:sid")
	assert.LessOrEqual(t, ttl, 30*time.Minute)
	assert.Greater(t, ttl, 25*time.Minute)
}

func TestRedisStore_CorruptEntry(t *testing.T) {
	s, mr := setupRedisStore(t, time.Hour)
	require.NoError(t, mr.Set("session:sid", "{not json"))

	_, err := s.Get(context.Background(), "sid")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredential)
}
