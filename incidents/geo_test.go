package incidents_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	require.Zero(t, incidents.Distance(19.4326, -99.1332, 19.4326, -99.1332))

	// Mexico City to Guadalajara is roughly 460 km
	d := incidents.Distance(19.4326, -99.1332, 20.6597, -103.3496)
	require.InDelta(t, 461, d, 5)

	// one degree of latitude is about 111 km
	require.InDelta(t, 111.19, incidents.Distance(0, 0, 1, 0), 0.1)
}

func TestNearby(t *testing.T) {
	list := []incidents.Incident{
		{ID: "far", Latitude: 20.6597, Longitude: -103.3496},
		{ID: "close", Latitude: 19.4330, Longitude: -99.1330},
		{ID: "closer", Latitude: 19.4326, Longitude: -99.1332},
		{ID: "edge", Latitude: 19.4700, Longitude: -99.1332},
	}
	near := incidents.Nearby(list, 19.4326, -99.1332, 5)
	require.Len(t, near, 3)
	require.Equal(t, "closer", near[0].ID)
	require.Equal(t, "close", near[1].ID)
	require.Equal(t, "edge", near[2].ID)
	require.InDelta(t, 4.16, near[2].DistanceKm, 0.05)
}

func TestHeatPointsFrom(t *testing.T) {
	list := []incidents.Incident{
		{Latitude: 19.431, Longitude: -99.131},
		{Latitude: 19.432, Longitude: -99.134},
		{Latitude: 19.512, Longitude: -99.201},
	}
	points := incidents.HeatPointsFrom(list, 2)
	require.Len(t, points, 2)
	require.Equal(t, incidents.HeatPoint{Latitude: 19.43, Longitude: -99.13, Weight: 2}, points[0])
	require.Equal(t, 1.0, points[1].Weight)
}

func TestWriteCSV(t *testing.T) {
	list := []incidents.Incident{
		{
			ID:          "inc-1",
			Type:        incidents.TypeSuspicious,
			Status:      incidents.StatusReported,
			Description: "Man trying car doors, \"grey\" hoodie",
			Latitude:    19.4326,
			Longitude:   -99.1332,
			Attachment:  &incidents.AttachmentInfo{Filename: "photo.jpg"},
			CreatedAt:   time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
		},
	}
	var buf bytes.Buffer
	require.NoError(t, incidents.WriteCSV(&buf, list))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "id", rows[0][0])
	require.Equal(t, []string{
		"inc-1", "Suspicious activity", "reported", "Man trying car doors, \"grey\" hoodie",
		"19.432600", "-99.133200", "", "", "photo.jpg", "2026-05-10T09:00:00Z", "",
	}, rows[1])
}

func TestWriteCSVNeutralisesFormulas(t *testing.T) {
	list := []incidents.Incident{{
		ID:          "inc-1",
		Description: `=HYPERLINK("http://evil.example","click")`,
		Address:     "@SUM(A1:A9)",
		Latitude:    -33.45,
		Longitude:   -70.66,
		Attachment:  &incidents.AttachmentInfo{Filename: "+cmd.jpg"},
	}, {
		ID:          "inc-2",
		Description: "-5 degrees and icy",
		Address:     "Calle 5",
	}}
	var buf bytes.Buffer
	require.NoError(t, incidents.WriteCSV(&buf, list))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, `'=HYPERLINK("http://evil.example","click")`, rows[1][3])
	require.Equal(t, "-33.450000", rows[1][4], "numbers are left alone")
	require.Equal(t, "'@SUM(A1:A9)", rows[1][6])
	require.Equal(t, "'+cmd.jpg", rows[1][8])
	require.Equal(t, "'-5 degrees and icy", rows[2][3])
	require.Equal(t, "Calle 5", rows[2][6])
}
