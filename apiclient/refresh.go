package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrsteele09/citizen-watch/session"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

var errNoAccessToken = errors.New("refresh response carried no access token")

func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if !c.coalesce {
		return c.refresh(ctx, refreshToken)
	}
	// The shared call outlives any one caller, so one caller giving up does not fail the others.
	results := c.refreshes.DoChan(refreshToken, func() (any, error) {
		sharedCtx := context.WithoutCancel(ctx)
		if c.timeout > 0 {
			var cancel context.CancelFunc
			sharedCtx, cancel = context.WithTimeout(sharedCtx, c.timeout)
			defer cancel()
		}
		return c.refresh(sharedCtx, refreshToken)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-results:
		if res.Shared {
			c.logger.Debug().Msg("Joined in-flight refresh")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// refresh exchanges refreshToken for a new access token and stores it.
// Every failure is reported as a *RefreshError.
func (c *Client) refresh(ctx context.Context, refreshToken string) (string, error) {
	req, err := NewJSONRequest(http.MethodPost, c.refreshPath, refreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", &RefreshError{Err: err}
	}
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return "", &RefreshError{Err: err}
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return "", &RefreshError{Err: err}
	}
	if !resp.OK() {
		return "", &RefreshError{StatusCode: resp.StatusCode, Err: resp.Err()}
	}

	var out refreshResponse
	if err := resp.DecodeJSON(&out); err != nil {
		return "", &RefreshError{StatusCode: resp.StatusCode, Err: err}
	}
	if out.AccessToken == "" {
		return "", &RefreshError{StatusCode: resp.StatusCode, Err: errNoAccessToken}
	}

	if err := c.store.Set(session.KeyAccessToken, out.AccessToken); err != nil {
		return "", &RefreshError{Err: err}
	}
	if out.RefreshToken != "" && out.RefreshToken != refreshToken {
		if err := c.store.Set(session.KeyRefreshToken, out.RefreshToken); err != nil {
			return "", &RefreshError{Err: err}
		}
	}
	return out.AccessToken, nil
}
