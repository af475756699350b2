package incidents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/citizen-watch/apiclient"
)

const (
	RouteIncidents = "/incidents"
	RouteHeatmap   = "/incidents/heatmap"

	// MaxAttachmentSize bounds uploads accepted with a report.
	MaxAttachmentSize = 10 << 20
)

// Attachment is a file sent along with a report.
type Attachment struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// Filter narrows List. Zero values are not sent.
type Filter struct {
	Status Status
	Type   Type
	Since  time.Time
	Limit  int
}

func (f Filter) Query() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if !f.Since.IsZero() {
		q.Set("since", f.Since.UTC().Format(time.RFC3339))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// Service talks to the incident endpoints on behalf of the signed-in user.
type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// Report submits a new incident. attachment may be nil.
func (s *Service) Report(ctx context.Context, report Report, attachment *Attachment) (*Incident, error) {
	if err := report.Validate(); err != nil {
		return nil, err
	}

	body, contentType, err := encodeReport(report, attachment)
	if err != nil {
		return nil, err
	}
	req := apiclient.Request{
		Method: http.MethodPost,
		Path:   RouteIncidents,
		Header: http.Header{"Content-Type": []string{contentType}, "Accept": []string{"application/json"}},
		Body:   body,
	}

	var created Incident
	if err := s.api.Do(ctx, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Incident, error) {
	var list []Incident
	if err := s.api.GetJSON(ctx, RouteIncidents, filter.Query(), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Incident, error) {
	var incident Incident
	if err := s.api.GetJSON(ctx, incidentPath(id), nil, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// UpdateStatus moves an incident through its workflow. Administrators only.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Incident, error) {
	change := statusChange{Status: status}
	if err := change.Validate(); err != nil {
		return nil, err
	}
	var updated Incident
	if err := s.api.PatchJSON(ctx, incidentPath(id), change, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an incident. Administrators only.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.api.Delete(ctx, incidentPath(id))
}

func (s *Service) Heatmap(ctx context.Context) ([]HeatPoint, error) {
	var points []HeatPoint
	if err := s.api.GetJSON(ctx, RouteHeatmap, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

func incidentPath(id string) string {
	return RouteIncidents + "/" + url.PathEscape(id)
}

// encodeReport builds the multipart body in memory so the request can be replayed.
func encodeReport(report Report, attachment *Attachment) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"type":        string(report.Type),
		"description": report.Description,
		"latitude":    strconv.FormatFloat(report.Latitude, 'f', -1, 64),
		"longitude":   strconv.FormatFloat(report.Longitude, 'f', -1, 64),
	}
	if report.Address != "" {
		fields["address"] = report.Address
	}
	for _, name := range []string{"type", "description", "latitude", "longitude", "address"} {
		value, ok := fields[name]
		if !ok {
			continue
		}
		if err := w.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("encode report field %s: %w", name, err)
		}
	}

	if attachment != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachment"; filename=%q`, attachment.Filename))
		contentType := attachment.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("encode attachment: %w", err)
		}
		n, err := io.Copy(part, io.LimitReader(attachment.Content, MaxAttachmentSize+1))
		if err != nil {
			return nil, "", fmt.Errorf("read attachment: %w", err)
		}
		if n > MaxAttachmentSize {
			return nil, "", fmt.Errorf("attachment %s exceeds %d bytes", attachment.Filename, MaxAttachmentSize)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
