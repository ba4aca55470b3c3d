// Package infra provides the shared outbound HTTP plumbing used by every
// data source: default headers, status handling, optional request pacing
// and per-source metrics.
package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/seenimoa/tickerintel/internal/metrics"
)

// DefaultUserAgent is the user agent string used when a source sets none.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultTimeout bounds a single outbound request.
const DefaultTimeout = 30 * time.Second

// ErrHTTP wraps an HTTP error with status code.
type ErrHTTP struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// Client performs GET requests on behalf of one named upstream.
type Client struct {
	source    string
	userAgent string
	headers   map[string]string
	http      *http.Client
	limiter   *rate.Limiter
	metrics   *metrics.Metrics
}

// Option configures the client.
type Option func(*Client)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithHeader adds a default header.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d, Transport: c.http.Transport}
		}
	}
}

// WithRateLimit paces requests to perSecond with an equal burst. Zero or
// negative leaves the client unpaced.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// WithMetrics records each request against source in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for the named upstream.
func NewClient(source string, opts ...Option) *Client {
	c := &Client{
		source:    source,
		userAgent: DefaultUserAgent,
		headers:   make(map[string]string),
		http:      &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DoGet performs a GET request with the given URL and extra headers,
// returning the response body. The caller is responsible for closing the
// returned ReadCloser. Responses with status >= 400 become *ErrHTTP.
func (c *Client) DoGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, int, error) {
	body, status, err := c.doGet(ctx, url, headers)
	c.metrics.ObserveUpstream(c.source, err)
	return body, status, err
}

func (c *Client) doGet(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}

	// Set default headers.
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/html, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	// Override/add per-call headers.
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, resp.StatusCode, &ErrHTTP{
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, resp.StatusCode, nil
}

// GetJSON performs a GET request and decodes the JSON response into dest.
func (c *Client) GetJSON(ctx context.Context, url string, dest any) error {
	body, _, err := c.DoGet(ctx, url, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return nil
}

// GetBytes performs a GET request and returns the raw body.
func (c *Client) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	body, _, err := c.DoGet(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}
