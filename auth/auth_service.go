// Package auth signs users in and out of the incident reporting API and keeps their session.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/citizen-watch/apiclient"
	apperrors "github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/session"
	"github.com/jrsteele09/citizen-watch/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ServiceOption func(*Service)

func WithLogger(logger zerolog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// Service performs the account operations that create or end a session.
// Everything else goes through the apiclient.Client it wraps.
type Service struct {
	api    *apiclient.Client
	logger zerolog.Logger
}

func NewService(api *apiclient.Client, options ...ServiceOption) *Service {
	s := &Service{
		api:    api,
		logger: log.Logger,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Login exchanges credentials for tokens and saves the resulting session.
// Wrong credentials report ErrInvalidCredentials and leave the current session untouched.
func (s *Service) Login(ctx context.Context, credentials Credentials) (session.Session, error) {
	if err := Validate(credentials); err != nil {
		return session.Session{}, err
	}
	req, err := apiclient.NewJSONRequest(http.MethodPost, RouteLogin, credentials)
	if err != nil {
		return session.Session{}, err
	}
	resp, err := s.api.SendAnonymous(ctx, req)
	if err != nil {
		return session.Session{}, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return session.Session{}, apperrors.ErrInvalidCredentials
	case http.StatusForbidden:
		return session.Session{}, ErrAccountBlocked
	}
	if err := resp.Err(); err != nil {
		return session.Session{}, err
	}

	var body LoginResponse
	if err := resp.DecodeJSON(&body); err != nil {
		return session.Session{}, err
	}
	if body.AccessToken == "" || body.RefreshToken == "" {
		return session.Session{}, ErrInvalidResponse
	}

	sess := session.Session{
		AccessToken:  body.AccessToken,
		RefreshToken: body.RefreshToken,
		UserID:       body.UserID,
		Role:         body.Role,
		Username:     body.Username,
		Email:        body.Email,
	}
	if err := session.Save(s.api.Store(), sess); err != nil {
		return session.Session{}, fmt.Errorf("save session: %w", err)
	}
	s.logger.Info().Str("user", sess.Email).Str("role", sess.Role).Msg("Signed in")
	return sess, nil
}

// Register creates a citizen account. It does not sign the new user in.
func (s *Service) Register(ctx context.Context, registration Registration) (*users.Profile, error) {
	if err := Validate(registration); err != nil {
		return nil, err
	}
	req, err := apiclient.NewJSONRequest(http.MethodPost, RouteRegister, registration)
	if err != nil {
		return nil, err
	}
	resp, err := s.api.SendAnonymous(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusConflict {
		return nil, apperrors.ErrUserExists
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var profile users.Profile
	if err := resp.DecodeJSON(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout asks the API to revoke the session's tokens, then clears the local session
// whatever the API answered.
func (s *Service) Logout(ctx context.Context) error {
	store := s.api.Store()
	refreshToken, ok := store.Get(session.KeyRefreshToken)
	if ok && refreshToken != "" {
		if err := s.api.PostJSON(ctx, RouteLogout, LogoutRequest{RefreshToken: refreshToken}, nil); err != nil {
			s.logger.Warn().Err(err).Msg("Server logout failed, clearing local session anyway")
		}
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Current returns the stored session, or ErrNotSignedIn.
func (s *Service) Current() (session.Session, error) {
	sess, ok := session.Load(s.api.Store())
	if !ok {
		return session.Session{}, ErrNotSignedIn
	}
	return sess, nil
}

func (s *Service) IsAdmin() bool {
	sess, err := s.Current()
	return err == nil && users.Role(sess.Role) == users.RoleAdmin
}
