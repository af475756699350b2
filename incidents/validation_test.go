package incidents_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/citizen-watch/incidents"
	"github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/stretchr/testify/require"
)

func validReport() incidents.Report {
	return incidents.Report{
		Type:        incidents.TypeRobbery,
		Description: "Phone snatched at the bus stop",
		Latitude:    19.4326,
		Longitude:   -99.1332,
	}
}

func TestReportValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *incidents.Report)
		wantErr bool
	}{
		{"valid", func(r *incidents.Report) {}, false},
		{"equator and meridian", func(r *incidents.Report) { r.Latitude, r.Longitude = 0, 0 }, false},
		{"missing type", func(r *incidents.Report) { r.Type = "" }, true},
		{"unknown type", func(r *incidents.Report) { r.Type = "alien" }, true},
		{"empty description", func(r *incidents.Report) { r.Description = "" }, true},
		{"long description", func(r *incidents.Report) { r.Description = strings.Repeat("x", 2001) }, true},
		{"latitude out of range", func(r *incidents.Report) { r.Latitude = 91 }, true},
		{"longitude out of range", func(r *incidents.Report) { r.Longitude = -180.5 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validReport()
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, errors.ErrInvalidIncident)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
