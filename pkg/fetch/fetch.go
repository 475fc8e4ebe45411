// Package fetch retrieves remote media over HTTP.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// ErrStatus indicates the server answered with a non-2xx status.
var ErrStatus = errors.New("fetch: unexpected status")

// StatusError carries the status of a failed response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: %s returned %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Unwrap() error {
	return ErrStatus
}

// Client performs GET requests for media sources.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

// New creates a Client from a finalized configuration.
// A nil httpClient uses a client with the configured timeout.
func New(cfg *Config, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.TimeoutDuration()}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:      httpClient,
		userAgent: cfg.UserAgent,
		logger:    logger.With("system", "fetch"),
	}
}

// Stream returns the live response body of url and its Content-Length,
// or -1 when the server did not report one. The caller closes the body.
func (c *Client) Stream(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	c.logger.Debug("response received",
		"url", url,
		"status", resp.StatusCode,
		"content_type", resp.Header.Get("Content-Type"),
		"content_length", resp.ContentLength,
	)

	return resp.Body, resp.ContentLength, nil
}
