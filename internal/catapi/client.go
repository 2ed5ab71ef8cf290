// Package catapi provides a client for The Cat API image search and for
// downloading the images it points at.
package catapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultSearchURL is the public random image search endpoint.
	DefaultSearchURL = "https://api.thecatapi.com/v1/images/search"

	// DefaultTimeout bounds every outbound request.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxImageBytes caps a downloaded image (10MB).
	DefaultMaxImageBytes = 10 << 20

	userAgent = "catscii/1.0"
)

// Descriptor is one candidate image returned by a search.
type Descriptor struct {
	ID     string `json:"id,omitempty"`
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Client talks to the search endpoint and downloads images.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	searchURL     string
	apiKey        string
	maxImageBytes int64
	selector      Selector
	httpClient    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithSearchURL overrides the search endpoint.
func WithSearchURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.searchURL = url
		}
	}
}

// WithAPIKey sends key in the x-api-key header of search requests.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithMaxImageBytes overrides the download size cap. Non-positive values are ignored.
func WithMaxImageBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxImageBytes = n
		}
	}
}

// WithTimeout overrides the per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithSelector replaces the candidate selection strategy.
func WithSelector(s Selector) Option {
	return func(c *Client) {
		if s != nil {
			c.selector = s
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new client with sane defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		searchURL:     DefaultSearchURL,
		maxImageBytes: DefaultMaxImageBytes,
		selector:      LastSelector{},
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchURL returns the configured search endpoint.
func (c *Client) SearchURL() string {
	return c.searchURL
}

// get performs a GET request and checks the response status.
// The caller owns the returned body on success.
func (c *Client) get(ctx context.Context, url string, withKey bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if withKey && c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, readError(url, resp)
	}

	return resp, nil
}

// Locate runs one search and selects a single candidate from the results.
func (c *Client) Locate(ctx context.Context) (Descriptor, error) {
	resp, err := c.get(ctx, c.searchURL, true)
	if err != nil {
		return Descriptor{}, err
	}
	defer resp.Body.Close()

	var raw []struct {
		ID     string  `json:"id"`
		URL    *string `json:"url"`
		Width  int     `json:"width"`
		Height int     `json:"height"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	// Unmarshal rejects trailing data after the array.
	if err := json.Unmarshal(body, &raw); err != nil {
		return Descriptor{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	// A JSON null decodes to a nil slice; an empty array does not.
	if raw == nil {
		return Descriptor{}, fmt.Errorf("%w: expected an array, got null", ErrDecode)
	}

	candidates := make([]Descriptor, 0, len(raw))
	for i, r := range raw {
		if r.URL == nil {
			return Descriptor{}, fmt.Errorf("%w: candidate %d has no url", ErrDecode, i)
		}
		candidates = append(candidates, Descriptor{
			ID:     r.ID,
			URL:    *r.URL,
			Width:  r.Width,
			Height: r.Height,
		})
	}

	chosen, ok := c.selector.Select(candidates)
	if !ok {
		return Descriptor{}, ErrNoResult
	}
	return chosen, nil
}

// Fetch downloads the full body at url into memory.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.get(ctx, url, false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.ContentLength > c.maxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes declared, limit %d", ErrTooLarge, resp.ContentLength, c.maxImageBytes)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}
	if int64(len(data)) > c.maxImageBytes {
		return nil, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, c.maxImageBytes)
	}

	return data, nil
}
