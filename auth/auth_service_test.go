package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jrsteele09/citizen-watch/apiclient"
	"github.com/jrsteele09/citizen-watch/auth"
	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/session"
	"github.com/jrsteele09/citizen-watch/session/memstore"
	"github.com/stretchr/testify/require"
)

const (
	goodEmail    = "ana@example.com"
	goodPassword = "Secret123"
)

// fakeAuthAPI answers the authentication routes and records what it saw.
type fakeAuthAPI struct {
	logoutTokens []string
	logoutAuth   []string
	logoutStatus int
}

func (f *fakeAuthAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case auth.RouteLogin:
		var creds auth.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if r.Header.Get("Authorization") != "" {
			http.Error(w, "login must be anonymous", http.StatusBadRequest)
			return
		}
		if creds.Email == "blocked@example.com" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if creds.Email != goodEmail || creds.Password != goodPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(auth.LoginResponse{
			AccessToken:  "A1",
			RefreshToken: "R1",
			UserID:       "u-1",
			Role:         "citizen",
			Username:     "ana",
			Email:        goodEmail,
		})
	case auth.RouteRegister:
		var reg auth.Registration
		_ = json.NewDecoder(r.Body).Decode(&reg)
		if reg.Email == goodEmail {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"u-2","email":"` + reg.Email + `","username":"` + reg.Username + `","role":"citizen"}`))
	case auth.RouteLogout:
		var body auth.LogoutRequest
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.logoutTokens = append(f.logoutTokens, body.RefreshToken)
		f.logoutAuth = append(f.logoutAuth, r.Header.Get("Authorization"))
		if f.logoutStatus != 0 {
			w.WriteHeader(f.logoutStatus)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newAuthService(t *testing.T, api *fakeAuthAPI) (*auth.Service, session.Store) {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	store := memstore.New()
	client, err := apiclient.New(server.URL, store)
	require.NoError(t, err)
	return auth.NewService(client), store
}

func TestLogin(t *testing.T) {
	svc, store := newAuthService(t, &fakeAuthAPI{})

	_, err := svc.Current()
	require.ErrorIs(t, err, auth.ErrNotSignedIn)

	sess, err := svc.Login(context.Background(), auth.Credentials{Email: goodEmail, Password: goodPassword})
	require.NoError(t, err)
	require.Equal(t, "A1", sess.AccessToken)

	access, _ := store.Get(session.KeyAccessToken)
	refresh, _ := store.Get(session.KeyRefreshToken)
	role, _ := store.Get(session.KeyRole)
	require.Equal(t, "A1", access)
	require.Equal(t, "R1", refresh)
	require.Equal(t, "citizen", role)

	current, err := svc.Current()
	require.NoError(t, err)
	require.Equal(t, "ana", current.Username)
	require.False(t, svc.IsAdmin())
}

func TestLoginFailures(t *testing.T) {
	svc, store := newAuthService(t, &fakeAuthAPI{})
	require.NoError(t, session.Save(store, session.Session{AccessToken: "old", RefreshToken: "old-r"}))

	_, err := svc.Login(context.Background(), auth.Credentials{Email: goodEmail, Password: "wrong"})
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
	access, _ := store.Get(session.KeyAccessToken)
	require.Equal(t, "old", access, "failed login keeps the previous session")

	_, err = svc.Login(context.Background(), auth.Credentials{Email: "blocked@example.com", Password: goodPassword})
	require.ErrorIs(t, err, auth.ErrAccountBlocked)

	_, err = svc.Login(context.Background(), auth.Credentials{Email: "not-an-email", Password: goodPassword})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestRegister(t *testing.T) {
	svc, store := newAuthService(t, &fakeAuthAPI{})

	profile, err := svc.Register(context.Background(), auth.Registration{
		Username: "luis",
		Email:    "luis@example.com",
		Password: "Str0ngPass",
	})
	require.NoError(t, err)
	require.Equal(t, "u-2", profile.ID)
	require.Equal(t, "luis", profile.Username)

	_, ok := session.Load(store)
	require.False(t, ok, "registering does not sign in")

	_, err = svc.Register(context.Background(), auth.Registration{Username: "ana", Email: goodEmail, Password: "Str0ngPass"})
	require.ErrorIs(t, err, errors.ErrUserExists)

	_, err = svc.Register(context.Background(), auth.Registration{Username: "weak", Email: "weak@example.com", Password: "password"})
	require.ErrorIs(t, err, errors.ErrInvalidRequest)
}

func TestLogout(t *testing.T) {
	api := &fakeAuthAPI{}
	svc, store := newAuthService(t, api)
	_, err := svc.Login(context.Background(), auth.Credentials{Email: goodEmail, Password: goodPassword})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	require.Equal(t, []string{"R1"}, api.logoutTokens)
	require.Equal(t, []string{"Bearer A1"}, api.logoutAuth)

	_, ok := session.Load(store)
	require.False(t, ok)

	// nothing to revoke, nothing sent
	require.NoError(t, svc.Logout(context.Background()))
	require.Len(t, api.logoutTokens, 1)
}

func TestLogoutClearsSessionWhenServerFails(t *testing.T) {
	api := &fakeAuthAPI{logoutStatus: http.StatusInternalServerError}
	svc, store := newAuthService(t, api)
	require.NoError(t, session.Save(store, session.Session{AccessToken: "A1", RefreshToken: "R1", Role: "admin"}))
	require.True(t, svc.IsAdmin())

	require.NoError(t, svc.Logout(context.Background()))
	_, ok := session.Load(store)
	require.False(t, ok)
	require.False(t, svc.IsAdmin())
}
