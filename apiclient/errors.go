package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

var (
	// ErrUnauthenticated means the API rejected the call and there is no refresh token to recover with.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrRefreshFailed means the refresh endpoint rejected the refresh token. The local session has been cleared.
	ErrRefreshFailed = errors.New("access token refresh failed")
	// ErrApplication marks a non-2xx API response surfaced as an error by the typed helpers.
	ErrApplication = errors.New("api error")
)

// RefreshError carries the cause of a failed refresh. It matches ErrRefreshFailed with errors.Is.
type RefreshError struct {
	StatusCode int // zero when the refresh call never got a response
	Err        error
}

func (e *RefreshError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %v", ErrRefreshFailed, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrRefreshFailed, e.Err)
}

func (e *RefreshError) Unwrap() []error {
	return []error{ErrRefreshFailed, e.Err}
}

// APIError is a non-2xx response from a business endpoint.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	return ErrApplication
}

// errorBody covers the error envelopes the API is known to return.
type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Message          string `json:"message"`
}

func newAPIError(resp *Response) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: resp.Body}
	var body errorBody
	if json.Unmarshal(resp.Body, &body) == nil {
		apiErr.Code = body.Error
		apiErr.Message = body.ErrorDescription
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// Kind classifies errors returned by the client.
type Kind int

const (
	KindNone Kind = iota
	KindUnauthenticated
	KindRefreshFailed
	KindTransport
	KindApplication
	// KindLocal covers failures inside the process: input validation, encoding, decoding, the session store.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindRefreshFailed:
		return "refresh_failed"
	case KindTransport:
		return "transport"
	case KindApplication:
		return "application"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// KindOf reports which part of the error taxonomy err belongs to.
// Network failures and cancellation of the caller's context are transport errors.
func KindOf(err error) Kind {
	var netErr net.Error
	var urlErr *url.Error
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrUnauthenticated):
		return KindUnauthenticated
	case errors.Is(err, ErrRefreshFailed):
		return KindRefreshFailed
	case errors.Is(err, ErrApplication):
		return KindApplication
	case errors.As(err, &urlErr), errors.As(err, &netErr),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindTransport
	default:
		return KindLocal
	}
}

// LoginRequired reports whether err means the caller should send the user back to the login view.
func LoginRequired(err error) bool {
	k := KindOf(err)
	return k == KindUnauthenticated || k == KindRefreshFailed
}
