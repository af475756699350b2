package server_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/citizen-watch/apiclient"
	"github.com/jrsteele09/citizen-watch/auth"
	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/internal/utils"
	"github.com/jrsteele09/citizen-watch/server"
	"github.com/jrsteele09/citizen-watch/session"
	"github.com/jrsteele09/citizen-watch/users"
	"github.com/stretchr/testify/require"
)

func report(typ incidents.Type, lat, lng float64) incidents.Report {
	return incidents.Report{Type: typ, Description: "seen from the corner shop", Latitude: lat, Longitude: lng}
}

func TestExpiredAccessTokenIsRefreshedTransparently(t *testing.T) {
	env := newTestEnv(t)
	api, _ := env.registerCitizen(t, "ana")
	svc := incidents.NewService(api)

	_, err := svc.Report(context.Background(), report(incidents.TypeRobbery, 19.4326, -99.1332), &incidents.Attachment{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg"),
	})
	require.NoError(t, err)

	before, _ := api.Store().Get(session.KeyAccessToken)
	refreshBefore, _ := api.Store().Get(session.KeyRefreshToken)
	env.clock.Advance(16 * time.Minute)

	list, err := svc.List(context.Background(), incidents.Filter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "photo.jpg", list[0].Attachment.Filename)
	require.Equal(t, int64(4), list[0].Attachment.Size)

	after, _ := api.Store().Get(session.KeyAccessToken)
	refreshAfter, _ := api.Store().Get(session.KeyRefreshToken)
	require.NotEqual(t, before, after)
	require.Equal(t, refreshBefore, refreshAfter, "refresh token is kept without rotation")
}

func TestRotatedRefreshTokenIsStored(t *testing.T) {
	env := newTestEnv(t, server.WithRefreshRotation())
	api, _ := env.registerCitizen(t, "ana")
	refreshBefore, _ := api.Store().Get(session.KeyRefreshToken)

	env.clock.Advance(16 * time.Minute)
	_, err := users.NewProfileService(api).Get(context.Background())
	require.NoError(t, err)

	refreshAfter, _ := api.Store().Get(session.KeyRefreshToken)
	require.NotEmpty(t, refreshAfter)
	require.NotEqual(t, refreshBefore, refreshAfter)

	// the retired token is useless
	env.clock.Advance(16 * time.Minute)
	require.NoError(t, api.Store().Set(session.KeyRefreshToken, refreshBefore))
	_, err = users.NewProfileService(api).Get(context.Background())
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)
}

func TestExpiredRefreshTokenEndsSession(t *testing.T) {
	env := newTestEnv(t)
	api, _ := env.registerCitizen(t, "ana")

	env.clock.Advance(8 * 24 * time.Hour)
	_, err := incidents.NewService(api).List(context.Background(), incidents.Filter{})
	require.Error(t, err)
	require.True(t, apiclient.LoginRequired(err))
	require.Equal(t, apiclient.KindRefreshFailed, apiclient.KindOf(err))

	var refreshErr *apiclient.RefreshError
	require.ErrorAs(t, err, &refreshErr)
	require.Equal(t, http.StatusUnauthorized, refreshErr.StatusCode)

	_, ok := session.Load(api.Store())
	require.False(t, ok, "a failed refresh clears the session")
}

func TestConcurrentRequestsAfterExpiry(t *testing.T) {
	env := newTestEnv(t)
	api, _ := env.client(t, apiclient.WithRefreshCoalescing())
	_, err := auth.NewService(api).Login(context.Background(), auth.Credentials{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	env.clock.Advance(time.Hour)

	profiles := users.NewProfileService(api)
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		go func() {
			_, err := profiles.Get(context.Background())
			errs <- err
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, <-errs)
	}
}

func TestRolesOnIncidents(t *testing.T) {
	env := newTestEnv(t)
	anaAPI, _ := env.registerCitizen(t, "ana")
	luisAPI, _ := env.registerCitizen(t, "luis")
	adminAPI, _ := env.signIn(t, adminEmail, adminPassword)
	ctx := context.Background()

	ana := incidents.NewService(anaAPI)
	luis := incidents.NewService(luisAPI)
	admin := incidents.NewService(adminAPI)

	mine, err := ana.Report(ctx, report(incidents.TypeVandalism, 19.43, -99.13), nil)
	require.NoError(t, err)
	require.Equal(t, incidents.StatusReported, mine.Status)
	_, err = luis.Report(ctx, report(incidents.TypeAccident, 19.50, -99.20), nil)
	require.NoError(t, err)

	anaList, err := ana.List(ctx, incidents.Filter{})
	require.NoError(t, err)
	require.Len(t, anaList, 1)

	all, err := admin.List(ctx, incidents.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	accidents, err := admin.List(ctx, incidents.Filter{Type: incidents.TypeAccident})
	require.NoError(t, err)
	require.Len(t, accidents, 1)

	// other citizens' reports look missing
	_, err = luis.Get(ctx, mine.ID)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	// citizens cannot moderate
	_, err = ana.UpdateStatus(ctx, mine.ID, incidents.StatusResolved)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, apiclient.KindApplication, apiclient.KindOf(err))
	require.ErrorAs(t, ana.Delete(ctx, mine.ID), &apiErr)

	env.clock.Advance(time.Minute)
	updated, err := admin.UpdateStatus(ctx, mine.ID, incidents.StatusInReview)
	require.NoError(t, err)
	require.Equal(t, incidents.StatusInReview, updated.Status)
	require.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	require.NoError(t, admin.Delete(ctx, mine.ID))
	_, err = admin.Get(ctx, mine.ID)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestHeatmap(t *testing.T) {
	env := newTestEnv(t)
	api, _ := env.registerCitizen(t, "ana")
	svc := incidents.NewService(api)
	ctx := context.Background()

	for _, r := range []incidents.Report{
		report(incidents.TypeRobbery, 19.4321, -99.1331),
		report(incidents.TypeRobbery, 19.4324, -99.1334),
		report(incidents.TypeAssault, 19.5000, -99.2000),
	} {
		_, err := svc.Report(ctx, r, nil)
		require.NoError(t, err)
	}

	points, err := svc.Heatmap(ctx)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, 2.0, points[0].Weight)
}

func TestInvalidReportIsRejected(t *testing.T) {
	env := newTestEnv(t)
	_, svc := env.registerCitizen(t, "ana")
	sess, err := svc.Current()
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, env.http.URL+server.RouteIncidents,
		strings.NewReader(`{"type":"alien","description":"x","latitude":1,"longitude":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProfile(t *testing.T) {
	env := newTestEnv(t)
	api, _ := env.registerCitizen(t, "ana")
	profiles := users.NewProfileService(api)
	ctx := context.Background()

	p, err := profiles.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "ana", p.Username)
	require.Equal(t, users.RoleCitizen, p.Role)
	require.Equal(t, "2026-05-10", p.DateJoined)

	p, err = profiles.Update(ctx, users.ProfileUpdate{FullName: utils.Ptr("Ana Torres"), Phone: utils.Ptr("+5215512345678")})
	require.NoError(t, err)
	require.Equal(t, "Ana Torres", p.FullName)
	require.Equal(t, "ana", p.Username)
}

func TestRegisterDuplicateAndLoginFailures(t *testing.T) {
	env := newTestEnv(t)
	env.registerCitizen(t, "ana")
	_, svc := env.client(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.Registration{Username: "ana2", Email: "ANA@example.com", Password: "Citizen123"})
	require.ErrorIs(t, err, errors.ErrUserExists)

	_, err = svc.Login(ctx, auth.Credentials{Email: "ana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)

	_, err = svc.Login(ctx, auth.Credentials{Email: "nobody@example.com", Password: "Citizen123"})
	require.ErrorIs(t, err, errors.ErrInvalidCredentials)
}

func TestBlockedCitizenLosesSession(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Advance(time.Minute)
	citizenAPI, citizen := env.registerCitizen(t, "ana")
	adminAPI, _ := env.signIn(t, adminEmail, adminPassword)
	admins := users.NewAdminService(adminAPI)

	list, err := admins.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, users.RoleAdmin, list[0].Role)

	me, err := citizen.Current()
	require.NoError(t, err)
	blocked, err := admins.SetBlocked(context.Background(), me.UserID, true)
	require.NoError(t, err)
	require.True(t, blocked.Blocked)

	// the access token still works until it expires, the refresh does not
	env.clock.Advance(16 * time.Minute)
	_, err = users.NewProfileService(citizenAPI).Get(context.Background())
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)

	_, err = citizen.Login(context.Background(), auth.Credentials{Email: "ana@example.com", Password: "Citizen123"})
	require.ErrorIs(t, err, auth.ErrAccountBlocked)

	// citizens cannot manage accounts
	other, _ := env.registerCitizen(t, "luis")
	_, err = users.NewAdminService(other).List(context.Background(), 0, 0)
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}
