// Package token issues and verifies the short-lived access tokens handed out by the development API.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/users"
	"github.com/pkg/errors"
)

// Claims is what an access token says about its bearer.
type Claims struct {
	UserID    string
	Role      users.Role
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type Manager struct {
	signer            Signer
	issuer            string
	accessTokenExpiry time.Duration
	denylist          Denylist
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func WithIssuer(issuer string) ManagerOption {
	return func(m *Manager) {
		m.issuer = issuer
	}
}

func WithDenylist(denylist Denylist) ManagerOption {
	return func(m *Manager) {
		m.denylist = denylist
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer:   signer,
		denylist: NewMemoryDenylist(),
	}

	for _, opt := range options {
		opt(m)
	}

	if m.accessTokenExpiry == 0 {
		m.accessTokenExpiry = 15 * time.Minute
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// AccessTokenExpiry is the lifetime of tokens created by this manager.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

func (m *Manager) CreateAccessToken(user *users.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("Manager.CreateAccessToken: user without id")
	}
	now := m.nowFunc()
	claims := jwt.MapClaims{
		"iss":  m.issuer,                            // The issuer of the token
		"sub":  user.ID,                             // The user the token was issued to
		"role": string(user.Role),                   // citizen or admin
		"iat":  now.Unix(),                          // Issued At: the time at which the token was issued
		"exp":  now.Add(m.accessTokenExpiry).Unix(), // Expiry: when the token will expire
		"jti":  uuid.New().String(),                 // Unique token ID for revocation
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Manager.CreateAccessToken Sign")
	}
	return signed, nil
}

// Parse verifies rawToken and returns its claims.
// Expired tokens report ErrTokenExpired, revoked ones ErrTokenRevoked, anything else ErrInvalidToken.
func (m *Manager) Parse(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrInvalidToken
	}

	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(m.issuer))
	}

	tok, err := jwt.Parse(rawToken, m.signer.GetVerificationKey, parserOptions...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "parse: %v", err)
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	role, _ := mapClaims["role"].(string)
	jti, _ := mapClaims["jti"].(string)
	iat, _ := mapClaims["iat"].(float64)
	exp, _ := mapClaims["exp"].(float64)
	if sub == "" {
		return nil, apperrors.ErrInvalidToken
	}
	if jti != "" && m.denylist.Denied(jti) {
		return nil, apperrors.ErrTokenRevoked
	}

	return &Claims{
		UserID:    sub,
		Role:      users.Role(role),
		JTI:       jti,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}

// Revoke stops rawToken from being accepted before it expires. Expired or invalid tokens are ignored.
func (m *Manager) Revoke(rawToken string) error {
	claims, err := m.Parse(rawToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrInvalidToken) || errors.Is(err, apperrors.ErrTokenRevoked) {
			return nil
		}
		return err
	}
	if claims.JTI == "" {
		return errors.New("token missing jti claim")
	}
	return m.denylist.Deny(claims.JTI, claims.ExpiresAt)
}

// PruneRevoked forgets revocations of tokens that have expired and returns how many were dropped.
func (m *Manager) PruneRevoked() int {
	return m.denylist.Prune(m.nowFunc())
}
