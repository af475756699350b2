package server

import (
	"net/http"
	"strconv"

	"github.com/jrsteele09/citizen-watch/users"
)

// AdminUsersListHandler pages through every account, oldest first.
func (s *Server) AdminUsersListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, okOffset := queryInt(r, "offset")
		limit, okLimit := queryInt(r, "limit")
		if !okOffset || !okLimit {
			writeError(w, http.StatusBadRequest, "invalid_request", "offset and limit must be positive numbers")
			return
		}

		list, err := s.repos.Users.List(offset, limit)
		if err != nil {
			s.logger.Err(err).Msg("Failed to list users")
			writeError(w, http.StatusInternalServerError, "server_error", "could not list users")
			return
		}
		profiles := make([]users.Profile, 0, len(list))
		for _, u := range list {
			profiles = append(profiles, u.Profile())
		}
		writeJSON(w, http.StatusOK, profiles)
	}
}

// AdminBlockUserHandler blocks or unblocks an account. Blocking also drops the user's refresh token.
func (s *Server) AdminBlockUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		id := r.PathValue("id")
		if id == claims.UserID {
			writeError(w, http.StatusBadRequest, "invalid_request", "administrators cannot block themselves")
			return
		}

		var change users.BlockChange
		if !decodeJSON(w, r, &change) {
			return
		}
		user, err := s.repos.Users.GetByID(id)
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}

		user.Blocked = change.Blocked
		if err := s.repos.Users.Upsert(user); err != nil {
			s.logger.Err(err).Str("user", id).Msg("Failed to update user")
			writeError(w, http.StatusInternalServerError, "server_error", "could not update user")
			return
		}
		if user.Blocked {
			if err := s.refreshTokens.RevokeUser(user.ID); err != nil {
				s.logger.Warn().Err(err).Str("user", id).Msg("Failed to revoke refresh token")
			}
		}
		s.logger.Info().Str("user", id).Bool("blocked", user.Blocked).Str("by", claims.UserID).Msg("User block state changed")
		writeJSON(w, http.StatusOK, user.Profile())
	}
}

// queryInt reads a non-negative integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
