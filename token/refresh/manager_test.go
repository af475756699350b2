package refresh_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/citizen-watch/internal/config"
	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/token/refresh"
	refreshrepofake "github.com/jrsteele09/citizen-watch/token/refresh/repofake"
	"github.com/stretchr/testify/require"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestManagerLifecycle(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), config.Tokens{}, c.Now)

	tok, err := m.Create("user-1")
	require.NoError(t, err)
	require.Len(t, tok, 64)

	rt, err := m.Validate(tok)
	require.NoError(t, err)
	require.Equal(t, "user-1", rt.UserID)

	// a second login replaces the first refresh token
	second, err := m.Create("user-1")
	require.NoError(t, err)
	require.NotEqual(t, tok, second)
	_, err = m.Validate(tok)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)

	c.now = c.now.Add(config.Tokens{}.GetRefreshTokenExpiry() + time.Second)
	_, err = m.Validate(second)
	require.ErrorIs(t, err, errors.ErrRefreshTokenExpired)
	_, err = m.Validate(second)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
}

func TestManagerDelete(t *testing.T) {
	m := refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), config.Tokens{}, nil)
	tok, err := m.Create("user-1")
	require.NoError(t, err)

	require.NoError(t, m.Delete(tok))
	_, err = m.Validate(tok)
	require.ErrorIs(t, err, errors.ErrInvalidRefreshToken)
	require.Error(t, m.Delete(tok))
}
