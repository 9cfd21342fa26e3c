// internal/domain/session/token.go
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT without verifying it.
// The signature belongs to the backend; the client only needs the date.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// lifetime caps the configured TTL to the token's own expiry
func lifetime(token string, ttl time.Duration, now time.Time) time.Duration {
	exp, ok := TokenExpiry(token)
	if !ok {
		return ttl
	}

	remaining := exp.Sub(now)
	if remaining <= 0 {
		// Already expired: keep it briefly and let the backend answer 401.
		return time.Second
	}
	if ttl <= 0 || remaining < ttl {
		return remaining
	}
	return ttl
}
