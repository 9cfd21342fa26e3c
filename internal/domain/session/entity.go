// internal/domain/session/entity.go
package session

import (
	"context"
	"errors"
	"strings"
)

// RoleAdmin is the role tag the backend uses for administrators
const RoleAdmin = "ADMIN"

// DefaultName is used when the backend does not return a display name
const DefaultName = "Usuário"

// Reasons carried by an Invalidation
const (
	ReasonLogout  = "logout"
	ReasonExpired = "expired"
)

// ErrNoCredential is returned by Store.Get when the session has no credential
var ErrNoCredential = errors.New("no credential stored for session")

// Credential identifies a logged-in session
type Credential struct {
	Token string `json:"token"`
	Role  string `json:"tipo"`
	Name  string `json:"nome"`
}

// NewCredential normalizes the login response fields
func NewCredential(token, role, name string) Credential {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	return Credential{
		Token: token,
		Role:  strings.ToUpper(strings.TrimSpace(role)),
		Name:  name,
	}
}

// IsAdmin reports whether the credential carries the admin role.
// Client-side only; the backend authorizes independently.
func (c Credential) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// Invalidation is published whenever a credential is cleared
type Invalidation struct {
	SessionID string
	Reason    string
}

type ctxKey struct{}

// WithID stores the browser session ID on ctx
func WithID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, ctxKey{}, sid)
}

// IDFrom returns the browser session ID stored on ctx, or ""
func IDFrom(ctx context.Context) string {
	if sid, ok := ctx.Value(ctxKey{}).(string); ok {
		return sid
	}
	return ""
}
