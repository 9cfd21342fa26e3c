// internal/domain/user/service.go
package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/domain/session"
	"github.com/welitu167/trabalho-do-tere-frontend/internal/infrastructure/backend"
)

// PathLogin is the backend login endpoint
const PathLogin = backend.LoginPath

// ErrNotLoggedIn is returned when the session holds no credential
var ErrNotLoggedIn = errors.New("você precisa estar logado")

// Poster is the subset of the backend client login needs
type Poster interface {
	Post(ctx context.Context, path string, in, out any) error
}

// Service logs sessions in and out
type Service struct {
	api    Poster
	store  session.Store
	logger *logrus.Logger
}

// NewService creates a new user service
func NewService(api Poster, store session.Store, logger *logrus.Logger) *Service {
	return &Service{
		api:    api,
		store:  store,
		logger: logger,
	}
}

// Login authenticates against the backend and stores the credential for sid
func (s *Service) Login(ctx context.Context, sid string, req LoginRequest) (*Profile, error) {
	ctx = session.WithID(ctx, sid)

	var resp LoginResponse
	if err := s.api.Post(ctx, PathLogin, req, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &backend.MalformedResponseError{
			Path: PathLogin,
			Err:  errors.New("resposta sem o campo token"),
		}
	}

	cred := session.NewCredential(resp.Token, resp.Role, resp.Name)
	if err := s.store.Set(ctx, sid, cred); err != nil {
		return nil, fmt.Errorf("failed to store credential: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sid,
		"role":       cred.Role,
	}).Info("User logged in")

	return profileOf(&cred), nil
}

// Logout forgets the credential of sid
func (s *Service) Logout(ctx context.Context, sid string) error {
	if err := s.store.Clear(ctx, sid, session.ReasonLogout); err != nil {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	s.logger.WithField("session_id", sid).Info("User logged out")
	return nil
}

// Me returns the profile of the logged-in user
func (s *Service) Me(ctx context.Context, sid string) (*Profile, error) {
	cred, err := s.store.Get(ctx, sid)
	if errors.Is(err, session.ErrNoCredential) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, err
	}
	return profileOf(cred), nil
}

func profileOf(cred *session.Credential) *Profile {
	return &Profile{
		Name:    cred.Name,
		Role:    cred.Role,
		IsAdmin: cred.IsAdmin(),
	}
}
