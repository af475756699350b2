package config

import "strings"

type ServerConfig interface {
	GetAdminEmail() string
	GetAdminPassword() string
	GetAllowedOrigins() AllowedOrigins
	GetEnableRateLimiting() bool
	GetRateLimit() float64
	GetRateLimitBurst() int
	GetRefreshRotation() bool
}

type Server struct{}

var _ ServerConfig = Server{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (Server) GetAdminEmail() string {
	return GetEnv("ADMIN_EMAIL", "admin@citizen-watch.local")
}

func (Server) GetAdminPassword() string {
	return GetEnv("ADMIN_PASSWORD", "")
}

// GetAllowedOrigins reads a comma separated ALLOWED_ORIGINS list. "*" allows any origin.
func (Server) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range strings.Split(GetEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (Server) GetEnableRateLimiting() bool {
	return GetBool("RATE_LIMITING", false)
}

// GetRateLimit is the sustained requests per second allowed per client IP.
func (Server) GetRateLimit() float64 {
	return GetFloat("RATE_LIMIT_RPS", 10)
}

func (Server) GetRateLimitBurst() int {
	return GetInt("RATE_LIMIT_BURST", 20)
}

// GetRefreshRotation makes the refresh endpoint hand out a new refresh token each time.
func (Server) GetRefreshRotation() bool {
	return GetBool("REFRESH_ROTATION", false)
}
