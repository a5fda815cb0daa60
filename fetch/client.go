// Package fetch retrieves raw metadata records over HTTP and resolves the
// registration agency of a DOI.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethgrid/pester"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit is requests per second across all hosts.
	DefaultRateLimit = 10.0

	// DefaultMaxRetries applies to network errors, 5xx and 429 responses.
	DefaultMaxRetries = 3

	// maxBodySize caps a single response body.
	maxBodySize = 64 << 20
)

// Fetcher obtains raw record bytes. Implementations return an error
// matching ErrNotFound when the record is unavailable.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Client is a rate-limited, retrying HTTP Fetcher.
type Client struct {
	http      *pester.Client
	limiter   *rate.Limiter
	userAgent string
	endpoints Endpoints
}

// Option configures a Client.
type Option func(*Client)

// WithRateLimit sets the request rate in requests per second.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithMaxRetries sets how often a failed request is retried.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.http.MaxRetries = n
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithMailto adds a contact address to the User-Agent, which the Crossref
// and OpenAlex APIs use to route requests to their polite pools.
func WithMailto(email string) Option {
	return func(c *Client) {
		if email != "" {
			c.userAgent = fmt.Sprintf("commonmeta-go/0.1 (mailto:%s)", email)
		}
	}
}

// WithEndpoints overrides the API base URLs (for testing).
func WithEndpoints(e Endpoints) Option {
	return func(c *Client) {
		c.endpoints = e.withDefaults()
	}
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	hc := pester.New()
	hc.Backoff = pester.ExponentialBackoff
	hc.MaxRetries = DefaultMaxRetries
	hc.RetryOnHTTP429 = true
	hc.Timeout = DefaultTimeout

	c := &Client{
		http:      hc,
		limiter:   rate.NewLimiter(rate.Limit(DefaultRateLimit), 1),
		userAgent: "commonmeta-go/0.1",
		endpoints: DefaultEndpoints(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoints returns the API base URLs in use.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// Fetch performs a GET request and returns the body. Any 4xx or 5xx
// response and an empty body yield an error matching ErrNotFound.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	return c.get(ctx, rawURL, "")
}

// FetchAccept is Fetch with an explicit Accept header, used for content
// negotiation against doi.org.
func (c *Client) FetchAccept(ctx context.Context, rawURL, accept string) ([]byte, error) {
	return c.get(ctx, rawURL, accept)
}

func (c *Client) get(ctx context.Context, rawURL, accept string) ([]byte, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	slog.Debug("fetching", "url", rawURL)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rawURL, err)
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrNotFound, rawURL)
	}
	return body, nil
}
