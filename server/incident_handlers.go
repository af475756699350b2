package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jrsteele09/citizen-watch/incidents"
	apperrors "github.com/jrsteele09/citizen-watch/internal/errors"
	"github.com/jrsteele09/citizen-watch/internal/utils"
	"github.com/jrsteele09/citizen-watch/users"
)

const (
	defaultHeatmapPrecision = 3
	maxFormMemory           = 1 << 20
)

// ListIncidentsHandler returns the caller's own reports, or every report for administrators.
func (s *Server) ListIncidentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		filter, err := parseFilter(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		reporterID := claims.UserID
		if claims.Role == users.RoleAdmin {
			reporterID = ""
		}
		list, err := s.repos.Incidents.List(reporterID, filter)
		if err != nil {
			s.logger.Err(err).Msg("Failed to list incidents")
			writeError(w, http.StatusInternalServerError, "server_error", "could not list incidents")
			return
		}
		writeJSON(w, http.StatusOK, utils.Values(list))
	}
}

// CreateIncidentHandler accepts a multipart report with an optional attachment, or a JSON report.
func (s *Server) CreateIncidentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())

		report, attachment, err := s.readReport(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		if err := report.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_incident", err.Error())
			return
		}

		now := s.nowTime()
		incident := &incidents.Incident{
			Type:        report.Type,
			Description: report.Description,
			Latitude:    report.Latitude,
			Longitude:   report.Longitude,
			Address:     report.Address,
			Status:      incidents.StatusReported,
			ReporterID:  claims.UserID,
			Attachment:  attachment,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.repos.Incidents.Upsert(incident); err != nil {
			s.logger.Err(err).Msg("Failed to store incident")
			writeError(w, http.StatusInternalServerError, "server_error", "could not store incident")
			return
		}

		s.logger.Info().Str("incident", incident.ID).Str("type", string(incident.Type)).Str("reporter", claims.UserID).Msg("Incident reported")
		writeJSON(w, http.StatusCreated, incident)
	}
}

func (s *Server) GetIncidentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := ClaimsFromContext(r.Context())
		incident, err := s.repos.Incidents.Get(r.PathValue("id"))
		// Citizens cannot tell other people's reports from missing ones
		if err != nil || (claims.Role != users.RoleAdmin && incident.ReporterID != claims.UserID) {
			writeError(w, http.StatusNotFound, "not_found", apperrors.ErrIncidentNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, incident)
	}
}

func (s *Server) UpdateIncidentStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Status string `json:"status"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		status, err := incidents.ParseStatus(body.Status)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}

		incident, err := s.repos.Incidents.Get(r.PathValue("id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		incident.Status = status
		incident.UpdatedAt = s.nowTime()
		if err := s.repos.Incidents.Upsert(incident); err != nil {
			s.logger.Err(err).Str("incident", incident.ID).Msg("Failed to update incident")
			writeError(w, http.StatusInternalServerError, "server_error", "could not update incident")
			return
		}
		writeJSON(w, http.StatusOK, incident)
	}
}

func (s *Server) DeleteIncidentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.repos.Incidents.Delete(r.PathValue("id")); err != nil {
			if errors.Is(err, apperrors.ErrIncidentNotFound) {
				writeError(w, http.StatusNotFound, "not_found", err.Error())
				return
			}
			s.logger.Err(err).Msg("Failed to delete incident")
			writeError(w, http.StatusInternalServerError, "server_error", "could not delete incident")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// HeatmapHandler aggregates every open incident onto a grid. Reporter identities are not exposed.
func (s *Server) HeatmapHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		precision := defaultHeatmapPrecision
		if p := r.URL.Query().Get("precision"); p != "" {
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 || n > 6 {
				writeError(w, http.StatusBadRequest, "invalid_request", "precision must be between 0 and 6")
				return
			}
			precision = n
		}

		list, err := s.repos.Incidents.List("", incidents.Filter{})
		if err != nil {
			s.logger.Err(err).Msg("Failed to list incidents")
			writeError(w, http.StatusInternalServerError, "server_error", "could not build heatmap")
			return
		}
		open := incidents.Open(utils.Values(list))
		writeJSON(w, http.StatusOK, incidents.HeatPointsFrom(open, precision))
	}
}

func parseFilter(r *http.Request) (incidents.Filter, error) {
	q := r.URL.Query()
	var filter incidents.Filter
	var err error
	if v := q.Get("status"); v != "" {
		if filter.Status, err = incidents.ParseStatus(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("type"); v != "" {
		if filter.Type, err = incidents.ParseType(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("since"); v != "" {
		if filter.Since, err = time.Parse(time.RFC3339, v); err != nil {
			return filter, apperrors.Wrapf(apperrors.ErrInvalidRequest, "since %q is not an RFC 3339 time", v)
		}
	}
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit < 0 {
			return filter, apperrors.Wrapf(apperrors.ErrInvalidRequest, "limit %q is not a positive number", v)
		}
	}
	return filter, nil
}

func (s *Server) readReport(w http.ResponseWriter, r *http.Request) (incidents.Report, *incidents.AttachmentInfo, error) {
	var report incidents.Report
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormMemory)
		if err := decodeBody(r, &report); err != nil {
			return report, nil, err
		}
		return report, nil, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, incidents.MaxAttachmentSize+maxFormMemory)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return report, nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "parse multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	report.Type = incidents.Type(strings.TrimSpace(r.FormValue("type")))
	report.Description = strings.TrimSpace(r.FormValue("description"))
	report.Address = strings.TrimSpace(r.FormValue("address"))
	var err error
	if report.Latitude, err = strconv.ParseFloat(r.FormValue("latitude"), 64); err != nil {
		return report, nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "latitude %q", r.FormValue("latitude"))
	}
	if report.Longitude, err = strconv.ParseFloat(r.FormValue("longitude"), 64); err != nil {
		return report, nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "longitude %q", r.FormValue("longitude"))
	}

	file, header, err := r.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return report, nil, nil
	}
	if err != nil {
		return report, nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "read attachment")
	}
	defer file.Close()
	if header.Size > incidents.MaxAttachmentSize {
		return report, nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "attachment larger than %d bytes", incidents.MaxAttachmentSize)
	}
	return report, &incidents.AttachmentInfo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, nil
}
