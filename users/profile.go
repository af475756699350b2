package users

import (
	"context"

	"github.com/jrsteele09/citizen-watch/apiclient"
)

const RouteProfile = "/users/me"

// Profile is the signed-in user as returned by the API.
type Profile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Username   string `json:"username"`
	FullName   string `json:"full_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Role       Role   `json:"role"`
	DateJoined string `json:"date_joined,omitempty"`
	Blocked    bool   `json:"blocked,omitempty"`
}

// ProfileUpdate changes only the fields that are non-nil.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=40"`
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,e164"`
}

func (u *User) Profile() Profile {
	p := Profile{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
		Blocked:  u.Blocked,
	}
	if !u.DateJoined.IsZero() {
		p.DateJoined = u.DateJoined.Format("2006-01-02")
	}
	return p
}

// Apply copies the set fields of update onto u.
func (u *User) Apply(update ProfileUpdate) {
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.FullName != nil {
		u.FullName = *update.FullName
	}
	if update.Phone != nil {
		u.Phone = *update.Phone
	}
}

type ProfileService struct {
	api *apiclient.Client
}

func NewProfileService(api *apiclient.Client) *ProfileService {
	return &ProfileService{api: api}
}

func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := s.api.GetJSON(ctx, RouteProfile, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProfileService) Update(ctx context.Context, update ProfileUpdate) (*Profile, error) {
	if err := Validate(update); err != nil {
		return nil, err
	}
	var p Profile
	if err := s.api.PatchJSON(ctx, RouteProfile, update, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
