package apiclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes a call to the API. Body is held in memory so the request can be replayed after a refresh.
type Request struct {
	Method string
	Path   string // relative to the client's base URL
	Query  url.Values
	Header http.Header
	Body   []byte
}

// NewJSONRequest encodes payload as the request body. A nil payload sends no body.
func NewJSONRequest(method, path string, payload any) (Request, error) {
	req := Request{Method: method, Path: path, Header: http.Header{}}
	req.Header.Set("Accept", "application/json")
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Request{}, fmt.Errorf("apiclient: encode %s %s body: %w", method, path, err)
	}
	req.Body = body
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Response is the API's answer, body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Err returns an *APIError for non-2xx responses and nil otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return newAPIError(r)
}

// DecodeJSON unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) DecodeJSON(v any) error {
	if len(r.Body) == 0 || v == nil {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("apiclient: decode response: %w", err)
	}
	return nil
}
