// Package transport delivers activity reports to the remote collector.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/mobile-next/inputmeter/utils"
)

// ErrStatus is returned when the collector answers with a non-2xx status.
var ErrStatus = errors.New("unexpected response status")

type Options struct {
	URL        string
	Credential string
	// Timeout of zero keeps the net/http default (no timeout).
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

type Client struct {
	url        string
	credential string
	httpClient *http.Client
}

func NewClient(opts Options) (*Client, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid report url %q: %w", opts.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid report url %q: scheme must be http or https", opts.URL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid report url %q: missing host", opts.URL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: opts.Timeout,
		}
	}

	return &Client{
		url:        opts.URL,
		credential: opts.Credential,
		httpClient: httpClient,
	}, nil
}

func (c *Client) URL() string {
	return c.url
}

// Put sends one report. Any 2xx answer is success; the response body is
// discarded.
func (c *Client) Put(ctx context.Context, payload Payload) error {
	body, err := json.Marshal(payload.WithCredential(c.credential))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to put report to %s: %w", c.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// drain so the keep-alive connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("put report to %s: %w %d", c.url, ErrStatus, resp.StatusCode)
	}

	utils.Verbose("report delivered to %s (%d bytes)", c.url, len(body))
	return nil
}
