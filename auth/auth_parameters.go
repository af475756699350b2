package auth

// Routes served by the API's authentication endpoints.
const (
	RouteRegister = "/auth/register"
	RouteLogin    = "/auth/login"
	RouteRefresh  = "/auth/refresh"
	RouteLogout   = "/auth/logout"
)

// Credentials are what a user signs in with.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is a citizen's self sign-up.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=40"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password_strength"`
	FullName string `json:"full_name,omitempty" validate:"omitempty,max=120"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,e164"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
	Role         string `json:"role"`
	Username     string `json:"username"`
	Email        string `json:"email"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshResponse carries a new access token and, when the server rotates it, a new refresh token.
type RefreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}
