package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jrsteele09/citizen-watch/auth"
	apperrors "github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/users"
)

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"app":    s.config.GetAppName(),
		})
	}
}

// RegisterHandler signs up a citizen. Administrators are only created by bootstrap.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg auth.Registration
		if !decodeJSON(w, r, &reg) {
			return
		}
		if err := auth.Validate(reg); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		hash, err := users.HashPassword(reg.Password)
		if err != nil {
			s.logger.Err(err).Msg("Failed to hash password")
			writeError(w, http.StatusInternalServerError, "server_error", "could not create account")
			return
		}

		user := &users.User{
			Email:        strings.TrimSpace(reg.Email),
			Username:     reg.Username,
			PasswordHash: hash,
			FullName:     reg.FullName,
			Phone:        reg.Phone,
			Role:         users.RoleCitizen,
			DateJoined:   s.nowTime(),
		}
		if err := s.repos.Users.Upsert(user); err != nil {
			if errors.Is(err, apperrors.ErrUserExists) {
				writeError(w, http.StatusConflict, "user_exists", "an account with this email already exists")
				return
			}
			s.logger.Err(err).Msg("Failed to store user")
			writeError(w, http.StatusInternalServerError, "server_error", "could not create account")
			return
		}

		s.logger.Info().Str("user", user.Email).Msg("Citizen registered")
		writeJSON(w, http.StatusCreated, user.Profile())
	}
}

func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds auth.Credentials
		if !decodeJSON(w, r, &creds) {
			return
		}
		if err := auth.Validate(creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		user, err := s.repos.Users.GetByEmail(creds.Email)
		if err != nil || !users.CheckPasswordHash(creds.Password, user.PasswordHash) {
			writeError(w, http.StatusUnauthorized, "invalid_grant", apperrors.ErrInvalidCredentials.Error())
			return
		}
		if user.Blocked {
			writeError(w, http.StatusForbidden, "account_blocked", "this account has been blocked")
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.logger.Err(err).Msg("Failed to create access token")
			writeError(w, http.StatusInternalServerError, "server_error", "could not sign in")
			return
		}
		refreshToken, err := s.refreshTokens.Create(user.ID)
		if err != nil {
			s.logger.Err(err).Msg("Failed to create refresh token")
			writeError(w, http.StatusInternalServerError, "server_error", "could not sign in")
			return
		}

		user.LastLogin = s.nowTime()
		if err := s.repos.Users.Upsert(user); err != nil {
			s.logger.Warn().Err(err).Str("user", user.Email).Msg("Failed to record last login")
		}

		writeJSON(w, http.StatusOK, auth.LoginResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			UserID:       user.ID,
			Role:         string(user.Role),
			Username:     user.Username,
			Email:        user.Email,
		})
	}
}

// RefreshHandler trades a refresh token for a new access token.
// Any failure is a 401 so the client ends the session.
func (s *Server) RefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.RefreshRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.RefreshToken == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "refreshToken is required")
			return
		}

		stored, err := s.refreshTokens.Validate(req.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_grant", err.Error())
			return
		}
		user, err := s.repos.Users.GetByID(stored.UserID)
		if err != nil || user.Blocked {
			_ = s.refreshTokens.Delete(req.RefreshToken)
			writeError(w, http.StatusUnauthorized, "invalid_grant", apperrors.ErrInvalidRefreshToken.Error())
			return
		}

		accessToken, err := s.tokens.CreateAccessToken(user)
		if err != nil {
			s.logger.Err(err).Msg("Failed to create access token")
			writeError(w, http.StatusInternalServerError, "server_error", "could not refresh")
			return
		}

		resp := auth.RefreshResponse{AccessToken: accessToken}
		if s.rotateRefresh {
			// Create retires the user's previous refresh token
			if resp.RefreshToken, err = s.refreshTokens.Create(user.ID); err != nil {
				s.logger.Err(err).Msg("Failed to rotate refresh token")
				writeError(w, http.StatusInternalServerError, "server_error", "could not refresh")
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// LogoutHandler revokes the presented access token and the caller's refresh token.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())

		var req auth.LogoutRequest
		if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
			return
		}

		if raw, ok := r.Context().Value(ContextKeyAccessToken).(string); ok {
			if err := s.tokens.Revoke(raw); err != nil {
				s.logger.Warn().Err(err).Msg("Failed to revoke access token")
			}
			if pruned := s.tokens.PruneRevoked(); pruned > 0 {
				s.logger.Debug().Int("pruned", pruned).Msg("Pruned expired revocations")
			}
		}
		if req.RefreshToken != "" {
			if stored, err := s.refreshTokens.Validate(req.RefreshToken); err == nil && stored.UserID == claims.UserID {
				_ = s.refreshTokens.Delete(req.RefreshToken)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) GetProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, user.Profile())
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.currentUser(w, r)
		if !ok {
			return
		}
		var update users.ProfileUpdate
		if !decodeJSON(w, r, &update) {
			return
		}
		if err := users.Validate(update); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		user.Apply(update)
		if err := s.repos.Users.Upsert(user); err != nil {
			s.logger.Err(err).Str("user", user.ID).Msg("Failed to update profile")
			writeError(w, http.StatusInternalServerError, "server_error", "could not update profile")
			return
		}
		writeJSON(w, http.StatusOK, user.Profile())
	}
}

// currentUser loads the user named by the access token.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "Not authenticated")
		return nil, false
	}
	user, err := s.repos.Users.GetByID(claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", apperrors.ErrUserNotFound.Error())
		return nil, false
	}
	return user, true
}
