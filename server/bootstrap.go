package server

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	apperrors "github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/users"
)

const DefaultAdminUsername = "admin"

// InitialiseSystem makes sure the configured administrator exists.
// When no admin password is configured one is generated and returned; otherwise the result is empty.
func (s *Server) InitialiseSystem() (generatedPassword string, err error) {
	s.logger.Info().Msg("Bootstrap: Checking system configuration...")

	adminEmail := s.config.GetAdminEmail()
	existing, err := s.repos.Users.GetByEmail(adminEmail)
	if err == nil {
		if !existing.IsAdmin() {
			return "", fmt.Errorf("bootstrap: %s exists but is not an administrator", adminEmail)
		}
		s.logger.Info().Str("email", adminEmail).Msg("Bootstrap: Administrator already exists")
		return "", nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return "", fmt.Errorf("bootstrap: failed to check for the administrator: %w", err)
	}

	password := s.config.GetAdminPassword()
	if password == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("bootstrap: failed to generate password: %w", err)
		}
		password = base64.URLEncoding.EncodeToString(passwordBytes)
		generatedPassword = password
	}

	passwordHash, err := users.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("bootstrap: failed to hash password: %w", err)
	}

	admin := &users.User{
		Email:        adminEmail,
		Username:     DefaultAdminUsername,
		PasswordHash: passwordHash,
		FullName:     "System Administrator",
		Role:         users.RoleAdmin,
		DateJoined:   s.nowTime(),
	}
	if err := s.repos.Users.Upsert(admin); err != nil {
		return "", fmt.Errorf("bootstrap: failed to create administrator: %w", err)
	}

	event := s.logger.Info().Str("email", admin.Email)
	if generatedPassword != "" {
		event = event.Str("password", generatedPassword)
	}
	event.Msg("Bootstrap: Created administrator")
	return generatedPassword, nil
}
