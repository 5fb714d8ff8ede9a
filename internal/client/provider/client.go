package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client posts JSON to a remote provider-sync function and returns whatever
// object the function answers with. The remote side is opaque: its result is
// merged into trigger details untouched.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) post(ctx context.Context, path string, body map[string]any) (map[string]any, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return nil, errors.New("provider base url is empty")
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s http %d: %s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	out := map[string]any{}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, fmt.Errorf("%s: decode response: %w", path, err)
		}
	}
	return out, nil
}

// TelephonyClient invokes the external telephony account sync function.
type TelephonyClient struct {
	Client
}

func (c *TelephonyClient) SyncAccount(ctx context.Context, accountID string) (map[string]any, error) {
	return c.post(ctx, "/telephony-account-sync", map[string]any{
		"account_id": accountID,
	})
}

// CalendarClient invokes the external calendar sync function.
type CalendarClient struct {
	Client
}

func (c *CalendarClient) Sync(ctx context.Context, integrationID string, force bool) (map[string]any, error) {
	return c.post(ctx, "/calendar-sync", map[string]any{
		"integration_id": integrationID,
		"force":          force,
	})
}
