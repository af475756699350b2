package users

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/citizen-watch/apiclient"
)

const RouteUsers = "/users"

// BlockChange is the body of PATCH /users/{id}.
type BlockChange struct {
	Blocked bool `json:"blocked"`
}

// AdminService manages other accounts. Administrators only.
type AdminService struct {
	api *apiclient.Client
}

func NewAdminService(api *apiclient.Client) *AdminService {
	return &AdminService{api: api}
}

// List pages through accounts in sign-up order. A zero limit means all.
func (s *AdminService) List(ctx context.Context, offset, limit int) ([]Profile, error) {
	query := url.Values{}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var list []Profile
	if err := s.api.GetJSON(ctx, RouteUsers, query, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetBlocked blocks or unblocks an account. Blocking ends the user's session on next refresh.
func (s *AdminService) SetBlocked(ctx context.Context, userID string, blocked bool) (*Profile, error) {
	var p Profile
	if err := s.api.PatchJSON(ctx, RouteUsers+"/"+url.PathEscape(userID), BlockChange{Blocked: blocked}, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
