// Package search provides the HTTP client for the geo-tagged post search
// API.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	// DefaultBaseURL is the default base URL for the search API.
	DefaultBaseURL = "http://localhost:8060"
	// DefaultTimeout is the default timeout for search requests.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies this client to the search API.
	DefaultUserAgent = "geosearch/1.0"

	// searchEndpoint is the path of the search operation.
	searchEndpoint = "/search"
	// maxResponseBodyBytes caps a response page read into memory.
	maxResponseBodyBytes = 10 << 20
)

// Query describes one page request against the search API.
type Query struct {
	// Latitude of the search circle center
	Latitude float64
	// Longitude of the search circle center
	Longitude float64
	// RadiusKM is the search circle radius in kilometers
	RadiusKM float64
	// Count is the requested page size
	Count int
	// SinceID restricts results to posts newer than this ID
	SinceID int64
}

// Geocode formats the latitude,longitude,radius triple the API expects.
func (q Query) Geocode() string {
	return fmt.Sprintf("%.6f,%.6f,%.1fkm", q.Latitude, q.Longitude, q.RadiusKM)
}

// Client fetches one page of raw search results. The body is returned as
// received, because the archive layer stores response bytes rather than
// decoded structures.
type Client interface {
	Search(ctx context.Context, query Query) ([]byte, error)
}

// HTTPClient implements Client against the search API over HTTP.
type HTTPClient struct {
	baseURL     string
	bearerToken string
	userAgent   string
	httpClient  *http.Client
}

// Option is a function that configures an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL sets the base URL for the search API.
func WithBaseURL(baseURL string) Option {
	return func(c *HTTPClient) {
		c.baseURL = baseURL
	}
}

// WithBearerToken sets the bearer token used to authenticate requests.
func WithBearerToken(token string) Option {
	return func(c *HTTPClient) {
		c.bearerToken = token
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *HTTPClient) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout for search requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewHTTPClient creates a new search API client.
func NewHTTPClient(opts ...Option) *HTTPClient {
	client := &HTTPClient{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Search fetches one page of results for the query and returns the raw
// response body.
func (c *HTTPClient) Search(ctx context.Context, query Query) ([]byte, error) {
	searchURL, err := url.Parse(c.baseURL + searchEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to construct search URL: %w", err)
	}

	params := url.Values{}
	params.Set("geocode", query.Geocode())
	if query.Count > 0 {
		params.Set("count", strconv.Itoa(query.Count))
	}
	if query.SinceID > 0 {
		params.Set("since_id", strconv.FormatInt(query.SinceID, 10))
	}
	searchURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxResponseBodyBytes)
	body, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read search response: %w", readErr)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
