// Package apiclient sends requests to the platform's REST API with the session's bearer token,
// and recovers once from an expired access token by refreshing it and replaying the request.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jrsteele09/citizen-watch/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

const DefaultRefreshPath = "/auth/refresh"

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each individual HTTP exchange, refresh calls included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithRefreshPath(path string) Option {
	return func(c *Client) {
		c.refreshPath = path
	}
}

// WithRefreshCoalescing makes concurrent requests that hold the same refresh token share one refresh call.
func WithRefreshCoalescing() Option {
	return func(c *Client) {
		c.coalesce = true
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	timeout     time.Duration
	store       session.Store
	refreshPath string
	coalesce    bool
	refreshes   singleflight.Group
	logger      zerolog.Logger
}

func New(baseURL string, store session.Store, options ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: base url %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, fmt.Errorf("apiclient: nil session store")
	}

	c := &Client{
		baseURL:     u,
		store:       store,
		refreshPath: DefaultRefreshPath,
		logger:      log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 && c.httpClient.Timeout == 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c, nil
}

// Store exposes the session store the client reads tokens from.
func (c *Client) Store() session.Store {
	return c.store
}

// attempt is threaded through send so a request is replayed at most once.
type attempt struct {
	n           int
	accessToken string // set on the replay: the token obtained by the refresh
}

// Send performs req with the session's access token. A 401 on the first pass triggers a single refresh and replay.
// Non-401 responses, and a 401 on the replay, come back as a *Response with a nil error.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	return c.send(ctx, req, attempt{})
}

// SendAnonymous performs req without a bearer token and without the refresh policy.
func (c *Client) SendAnonymous(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.do(httpReq)
}

func (c *Client) send(ctx context.Context, req Request, a attempt) (*Response, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	if a.accessToken != "" {
		bearer(a.accessToken).SetAuthHeader(httpReq)
	} else if httpReq.Header.Get("Authorization") == "" {
		if token, ok := c.store.Get(session.KeyAccessToken); ok && token != "" {
			bearer(token).SetAuthHeader(httpReq)
		}
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || a.n > 0 {
		return resp, nil
	}

	refreshToken, ok := c.store.Get(session.KeyRefreshToken)
	if !ok || refreshToken == "" {
		c.logger.Debug().Str("method", req.Method).Str("path", req.Path).Msg("Request rejected and no refresh token stored")
		return nil, ErrUnauthenticated
	}

	c.logger.Debug().Str("method", req.Method).Str("path", req.Path).Msg("Access token rejected, refreshing")
	accessToken, err := c.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		// The caller gave up; the refresh token was never judged, so the session stays.
		if ctxErr := ctx.Err(); ctxErr != nil {
			c.logger.Debug().Err(err).Msg("Refresh abandoned by caller, keeping session")
			return nil, ctxErr
		}
		// Another request rotated the refresh token while this one was in flight.
		if current, _ := c.store.Get(session.KeyRefreshToken); current != "" && current != refreshToken {
			if latest, ok := c.store.Get(session.KeyAccessToken); ok && latest != "" {
				c.logger.Debug().Msg("Session refreshed concurrently, replaying with its token")
				return c.send(ctx, req, attempt{n: a.n + 1, accessToken: latest})
			}
		}
		c.logger.Warn().Err(err).Msg("Refresh failed, clearing session")
		if clearErr := c.store.Clear(); clearErr != nil {
			c.logger.Err(clearErr).Msg("Failed to clear session")
		}
		return nil, err
	}

	return c.send(ctx, req, attempt{n: a.n + 1, accessToken: accessToken})
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: build %s %s: %w", method, req.Path, err)
	}
	if req.Header != nil {
		httpReq.Header = req.Header.Clone()
	}
	return httpReq, nil
}

// do performs one HTTP exchange. Transport errors are returned as produced by the http.Client.
func (c *Client) do(httpReq *http.Request) (*Response, error) {
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("apiclient: read %s %s response: %w", httpReq.Method, httpReq.URL.Path, err)
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

func bearer(accessToken string) *oauth2.Token {
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
}
