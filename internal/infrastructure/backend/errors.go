// internal/infrastructure/backend/errors.go
package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"unicode/utf8"
)

// ExpiredRedirectURL is where the user agent goes when the backend ends the session
const ExpiredRedirectURL = "/login?mensagem=Token_expirado!"

// errorMessageKeys lists, in priority order, the body fields that may carry an error message
var errorMessageKeys = []string{"mensagem", "error", "message"}

// maxPlainErrorLength bounds messages taken from non-JSON error bodies
const maxPlainErrorLength = 200

// networkSignatures are substrings that identify "backend unreachable" failures
var networkSignatures = []string{
	"Failed to fetch",
	"NetworkError",
	"ECONNREFUSED",
	"ERR_CONNECTION_REFUSED",
	"connection refused",
	"no such host",
}

// APIError is a non-2xx answer from the backend
type APIError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// SessionExpiredError is returned when the backend rejected the credential.
// The stored credential has already been cleared when this is returned.
type SessionExpiredError struct {
	RedirectURL string
	Err         *APIError
}

func (e *SessionExpiredError) Error() string {
	return fmt.Sprintf("session expired: %v", e.Err)
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Err
}

// MalformedResponseError is a 2xx answer whose body could not be decoded
type MalformedResponseError struct {
	Path string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("failed to parse JSON response from %s: %v", e.Path, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsNetworkError reports whether err means the backend could not be reached
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	msg := err.Error()
	for _, sig := range networkSignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

// IsSessionExpired reports whether err carries a session termination
func IsSessionExpired(err error) (*SessionExpiredError, bool) {
	var expired *SessionExpiredError
	if errors.As(err, &expired) {
		return expired, true
	}
	return nil, false
}

// ErrorMessage extracts the message of an error body: the first non-empty
// alias of a JSON object, the whole JSON object otherwise, or the truncated
// text when the body is not a JSON object.
func ErrorMessage(body []byte) string {
	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil || data == nil {
		return truncate(strings.TrimSpace(string(body)), maxPlainErrorLength)
	}

	for _, key := range errorMessageKeys {
		switch v := data[key].(type) {
		case nil:
			continue
		case string:
			if v != "" {
				return v
			}
		default:
			if raw, err := json.Marshal(v); err == nil {
				return string(raw)
			}
		}
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return truncate(string(body), maxPlainErrorLength)
	}
	return string(raw)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
