package incidents_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/citizen-watch/apiclient"
	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/session"
	"github.com/jrsteele09/citizen-watch/session/memstore"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, handler http.HandlerFunc) *incidents.Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := memstore.New()
	require.NoError(t, session.Save(store, session.Session{AccessToken: "A1", RefreshToken: "R1"}))
	api, err := apiclient.New(server.URL, store)
	require.NoError(t, err)
	return incidents.NewService(api)
}

func TestServiceReportSendsMultipart(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, incidents.RouteIncidents, r.URL.Path)
		require.Equal(t, "Bearer A1", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "robbery", r.FormValue("type"))
		require.Equal(t, "19.4326", r.FormValue("latitude"))
		require.Equal(t, "-99.1332", r.FormValue("longitude"))

		file, header, err := r.FormFile("attachment")
		require.NoError(t, err)
		defer file.Close()
		content, _ := io.ReadAll(file)
		require.Equal(t, "photo.jpg", header.Filename)
		require.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
		require.Equal(t, "jpeg-bytes", string(content))

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(incidents.Incident{ID: "inc-1", Type: incidents.TypeRobbery, Status: incidents.StatusReported})
	})

	created, err := svc.Report(context.Background(), validReport(), &incidents.Attachment{
		Filename:    "photo.jpg",
		ContentType: "image/jpeg",
		Content:     strings.NewReader("jpeg-bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, "inc-1", created.ID)
	require.Equal(t, incidents.StatusReported, created.Status)
}

func TestServiceReportRejectsInvalidInputLocally(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	r := validReport()
	r.Latitude = 123
	_, err := svc.Report(context.Background(), r, nil)
	require.Error(t, err)
}

func TestServiceListSendsFilter(t *testing.T) {
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, "in_review", q.Get("status"))
		require.Equal(t, "accident", q.Get("type"))
		require.Equal(t, "2026-05-01T00:00:00Z", q.Get("since"))
		require.Equal(t, "25", q.Get("limit"))
		_, _ = w.Write([]byte(`[{"id":"inc-1","type":"accident","status":"in_review"}]`))
	})

	list, err := svc.List(context.Background(), incidents.Filter{
		Status: incidents.StatusInReview,
		Type:   incidents.TypeAccident,
		Since:  since,
		Limit:  25,
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, incidents.TypeAccident, list[0].Type)
}

func TestServiceUpdateStatusAndDelete(t *testing.T) {
	var calls []string
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch r.Method {
		case http.MethodPatch:
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "resolved", body["status"])
			_, _ = w.Write([]byte(`{"id":"inc-1","status":"resolved"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	updated, err := svc.UpdateStatus(context.Background(), "inc-1", incidents.StatusResolved)
	require.NoError(t, err)
	require.Equal(t, incidents.StatusResolved, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), "inc-1", "finished")
	require.Error(t, err)

	require.NoError(t, svc.Delete(context.Background(), "inc-1"))
	require.Equal(t, []string{"PATCH /incidents/inc-1", "DELETE /incidents/inc-1"}, calls)
}

func TestServiceForbiddenIsApplicationError(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden","error_description":"admin role required"}`))
	})

	err := svc.Delete(context.Background(), "inc-1")
	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, "admin role required", apiErr.Message)
}

func TestServiceHeatmap(t *testing.T) {
	svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, incidents.RouteHeatmap, r.URL.Path)
		_, _ = w.Write([]byte(`[{"latitude":19.43,"longitude":-99.13,"weight":3}]`))
	})
	points, err := svc.Heatmap(context.Background())
	require.NoError(t, err)
	require.Equal(t, []incidents.HeatPoint{{Latitude: 19.43, Longitude: -99.13, Weight: 3}}, points)
}
