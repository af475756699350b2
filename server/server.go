// Package server is a development stand-in for the incident reporting REST API.
// It issues short-lived access tokens so clients can exercise the refresh flow locally.
package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/config"
	"github.com/jrsteele09/citizen-watch/token"
	"github.com/jrsteele09/citizen-watch/token/refresh"
	"github.com/jrsteele09/citizen-watch/users"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Repos holds the storage the server runs on.
type Repos struct {
	Users         users.UserRepo
	Incidents     incidents.Repo
	RefreshTokens refresh.Repo
}

type Server struct {
	env             string
	mux             *http.ServeMux
	routes          []string
	config          config.Config
	repos           Repos
	tokens          *token.Manager
	refreshTokens   *refresh.Manager
	limiter         *RateLimiter
	rotateRefresh   bool
	logger          zerolog.Logger
	nowTime         func() time.Time
	adminPassword   string
	accessTokenLife time.Duration
}

type ServerOption func(*Server)

// WithNowTime sets the clock used for token issue and expiry (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ServerOption {
	return func(s *Server) {
		s.nowTime = nowFunc
	}
}

func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRefreshRotation issues a new refresh token on every refresh and retires the old one.
func WithRefreshRotation() ServerOption {
	return func(s *Server) {
		s.rotateRefresh = true
	}
}

// WithAccessTokenExpiry overrides the configured access token lifetime.
func WithAccessTokenExpiry(expiry time.Duration) ServerOption {
	return func(s *Server) {
		s.accessTokenLife = expiry
	}
}

func New(cfg config.Config, repos Repos, options ...ServerOption) (*Server, error) {
	if repos.Users == nil {
		return nil, fmt.Errorf("[Server New] Users repo is required")
	}
	if repos.Incidents == nil {
		return nil, fmt.Errorf("[Server New] Incidents repo is required")
	}
	if repos.RefreshTokens == nil {
		return nil, fmt.Errorf("[Server New] RefreshTokens repo is required")
	}
	if cfg.GetSigningSecret() == "" {
		return nil, fmt.Errorf("[Server New] signing secret is required")
	}

	s := &Server{
		env:             cfg.GetEnv(),
		mux:             http.NewServeMux(),
		config:          cfg,
		repos:           repos,
		logger:          log.Logger,
		nowTime:         time.Now,
		accessTokenLife: cfg.GetAccessTokenExpiry(),
		rotateRefresh:   cfg.GetRefreshRotation(),
	}
	for _, opt := range options {
		opt(s)
	}

	now := func() time.Time { return s.nowTime() }
	s.tokens = token.New(
		token.NewHMACSigner(cfg.GetSigningSecret()),
		token.WithIssuer(cfg.GetIssuer()),
		token.WithAccessTokenExpiry(s.accessTokenLife),
		token.WithNowFunc(now),
	)
	s.refreshTokens = refresh.NewManager(repos.RefreshTokens, cfg, now)
	if cfg.GetEnableRateLimiting() {
		s.limiter = NewRateLimiter(cfg.GetRateLimit(), cfg.GetRateLimitBurst())
	}

	password, err := s.InitialiseSystem()
	if err != nil {
		return nil, fmt.Errorf("[Server New] Failed to initialise the system: %w", err)
	}
	s.adminPassword = password

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// GeneratedAdminPassword is the password created for the seeded administrator,
// empty when it came from configuration or the administrator already existed.
func (s *Server) GeneratedAdminPassword() string {
	return s.adminPassword
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	s.logger.Info().Msgf("[%s] %s", methodColour(method).Sprintf(" %-7s", method), path)
}
