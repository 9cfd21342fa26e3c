// internal/infrastructure/backend/transport.go
package backend

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/pkg/metrics"
)

// LoginPath is the backend endpoint whose 401 answers never end the session
const LoginPath = "/login"

// authTransport attaches the session credential to every outgoing call and
// ends the session when the backend rejects it
type authTransport struct {
	base    http.RoundTripper
	store   session.Store
	logger  *logrus.Logger
	metrics metrics.Recorder
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	sid := session.IDFrom(ctx)

	// RoundTrippers must not modify the caller's request
	req = req.Clone(ctx)
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.New().String())
	}

	if sid != "" {
		cred, err := t.store.Get(ctx, sid)
		switch {
		case err == nil && cred.Token != "":
			req.Header.Set("Authorization", "Bearer "+cred.Token)
		case err != nil && !errors.Is(err, session.ErrNoCredential):
			// Proceed unauthenticated; the backend decides whether that is an error.
			t.logger.WithError(err).WithField("session_id", sid).Warn("Failed to read session credential")
		}
	}

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.metrics.RecordBackendRequest(req.Method, 0, time.Since(start))
		return nil, err
	}
	t.metrics.RecordBackendRequest(req.Method, resp.StatusCode, time.Since(start))

	if endsSession(req, resp.StatusCode) {
		t.metrics.RecordSessionExpired()
		if sid != "" {
			if err := t.store.Clear(ctx, sid, session.ReasonExpired); err != nil {
				t.logger.WithError(err).WithField("session_id", sid).Error("Failed to clear expired session")
			}
		}
		t.logger.WithFields(logrus.Fields{
			"session_id": sid,
			"method":     req.Method,
			"path":       req.URL.Path,
			"request_id": req.Header.Get("X-Request-ID"),
		}).Info("Backend rejected credential, session cleared")
	}

	return resp, nil
}

func endsSession(req *http.Request, status int) bool {
	return status == http.StatusUnauthorized && !strings.HasSuffix(req.URL.Path, LoginPath)
}
