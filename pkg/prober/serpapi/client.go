// Package serpapi is a minimal client for the SerpAPI Google search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultEndpoint is the public SerpAPI search endpoint.
const DefaultEndpoint = "https://serpapi.com/search.json"

var (
	// ErrRateLimited is returned on HTTP 429.
	ErrRateLimited = errors.New("serpapi: rate limited")
	// ErrUnauthorized is returned when the API key is rejected.
	ErrUnauthorized = errors.New("serpapi: unauthorized")
)

// OrganicResult is one classic search result.
type OrganicResult struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Snippet  string `json:"snippet"`
	Link     string `json:"link"`
}

// Response is the subset of a SerpAPI response the prober reads.
type Response struct {
	// AIOverview is kept undecoded in shape; nil when absent or null.
	AIOverview     any             `json:"ai_overview"`
	OrganicResults []OrganicResult `json:"organic_results"`
	Error          string          `json:"error"`
}

// AIOverviewText serialises the AI overview block for substring matching,
// or returns "" when there is none.
func (r *Response) AIOverviewText() string {
	if r == nil || r.AIOverview == nil {
		return ""
	}

	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.AIOverview); err != nil {
		return ""
	}

	return strings.TrimSpace(b.String())
}

// Client queries SerpAPI. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	apiKey     string
	endpoint   string
	gl         string
	hl         string
}

// Option configures a Client.
type Option func(*Client)

// WithEndpoint overrides the search endpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLocale sets the country (gl) and language (hl) parameters.
func WithLocale(gl, hl string) Option {
	return func(c *Client) {
		if gl != "" {
			c.gl = gl
		}
		if hl != "" {
			c.hl = hl
		}
	}
}

// New constructs a Client that uses httpClient and the given API key.
func New(httpClient *http.Client, apiKey string, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	c := &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		endpoint:   DefaultEndpoint,
		gl:         "de",
		hl:         "de",
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Search runs one Google query.
func (c *Client) Search(ctx context.Context, query string) (*Response, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("engine", "google")
	params.Set("api_key", c.apiKey)
	params.Set("gl", c.gl)
	params.Set("hl", c.hl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, strings.TrimSpace(string(b)))
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", ErrUnauthorized, strings.TrimSpace(string(b)))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("search failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out Response
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}

	return &out, nil
}
