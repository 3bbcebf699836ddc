// Package web provides the shared HTTP page fetcher used for article pages.
package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultUserAgent identifies the pipeline to publishers.
	DefaultUserAgent = "Mozilla/5.0 (compatible; newsreel/1.0)"
	// DefaultTimeout is the fixed per-request timeout. Timeouts are not retried.
	DefaultTimeout = 6 * time.Second

	htmlAcceptHeader = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	maxBodyBytes     = 5 << 20
)

// StatusError reports a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Code)
}

// Page is a fetched document.
type Page struct {
	// FinalURL is the URL after redirects.
	FinalURL string
	Body     []byte
}

type headerTransport struct {
	base      http.RoundTripper
	userAgent string
	accept    string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	clone := req.Clone(req.Context())
	if clone.Header.Get("User-Agent") == "" && t.userAgent != "" {
		clone.Header.Set("User-Agent", t.userAgent)
	}
	if clone.Header.Get("Accept") == "" && t.accept != "" {
		clone.Header.Set("Accept", t.accept)
	}
	return base.RoundTrip(clone)
}

// NewTransport wraps base so every request carries the given User-Agent and Accept headers.
func NewTransport(base http.RoundTripper, userAgent, accept string) http.RoundTripper {
	return headerTransport{base: base, userAgent: userAgent, accept: accept}
}

// Client fetches HTML pages with a fixed timeout.
type Client struct {
	HTTP *http.Client
}

// NewClient creates a client with the given timeout and user agent.
func NewClient(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: NewTransport(http.DefaultTransport, userAgent, htmlAcceptHeader),
		},
	}
}

// Get fetches url and returns its body. Any non-2xx status is a StatusError.
func (c *Client) Get(ctx context.Context, url string) (Page, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Page{}, errors.New("url is empty")
	}
	hc := c.HTTP
	if hc == nil {
		hc = NewClient(0, "").HTTP
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Page{}, StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Page{}, fmt.Errorf("read body: %w", err)
	}

	final := url
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return Page{FinalURL: final, Body: body}, nil
}
