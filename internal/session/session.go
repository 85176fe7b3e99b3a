// Package session provides the cookie-bearing HTTP client shared by every
// stage of the pipeline. One Client is constructed per run; the cookie jar
// carries the authenticated state across all fetches of that run.
package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

type Options struct {
	UserAgent      string
	AcceptLanguage string
	Timeout        time.Duration
}

type Client struct {
	httpClient     *http.Client
	userAgent      string
	acceptLanguage string
}

func New(opts Options) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		userAgent:      opts.UserAgent,
		acceptLanguage: opts.AcceptLanguage,
	}, nil
}

// Get issues a GET through the session. Redirects are followed and any
// Set-Cookie state is retained in the jar.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	c.setHeaders(req)
	return c.httpClient.Do(req)
}

// PostForm issues an application/x-www-form-urlencoded POST through the
// session, following redirects.
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", rawURL, err)
	}

	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.acceptLanguage != "" {
		req.Header.Set("Accept-Language", c.acceptLanguage)
	}
}
