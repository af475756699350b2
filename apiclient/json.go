package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Do sends req and decodes a 2xx body into out. Non-2xx responses become an *APIError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	resp, err := c.Send(ctx, req)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}
	return resp.DecodeJSON(out)
}

func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := NewJSONRequest(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Query = query
	return c.Do(ctx, req, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) PatchJSON(ctx context.Context, path string, payload, out any) error {
	return c.sendJSON(ctx, http.MethodPatch, path, payload, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload, out any) error {
	req, err := NewJSONRequest(method, path, payload)
	if err != nil {
		return err
	}
	return c.Do(ctx, req, out)
}
