package archives

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/jonesrussell/geosearch/internal/api"
)

// DefaultTimeout is the default timeout for API requests.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP client for the archive endpoints of a running service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new archive API client for the given service base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// listResponse mirrors the list endpoint's response envelope.
type listResponse struct {
	Archives []api.ArchiveInfo `json:"archives"`
	Total    int               `json:"total"`
}

// errorResponse mirrors the API's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

// ListArchives retrieves all registered archives from the service.
func (c *Client) ListArchives(ctx context.Context) ([]api.ArchiveInfo, error) {
	archivesURL, err := url.JoinPath(c.baseURL, "api/v1/archives")
	if err != nil {
		return nil, fmt.Errorf("failed to construct URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archivesURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var response listResponse
	if doErr := c.doRequest(req, &response); doErr != nil {
		return nil, fmt.Errorf("failed to list archives: %w", doErr)
	}

	return response.Archives, nil
}

// SealArchive seals the archive for the given key.
func (c *Client) SealArchive(ctx context.Context, key string) error {
	sealURL, err := url.JoinPath(c.baseURL, "api/v1/archives", key, "seal")
	if err != nil {
		return fmt.Errorf("failed to construct URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sealURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if doErr := c.doRequest(req, nil); doErr != nil {
		return fmt.Errorf("failed to seal archive: %w", doErr)
	}

	return nil
}

// DeleteArchive deletes the archive for the given key.
func (c *Client) DeleteArchive(ctx context.Context, key string) error {
	deleteURL, err := url.JoinPath(c.baseURL, "api/v1/archives", key)
	if err != nil {
		return fmt.Errorf("failed to construct URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, deleteURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if doErr := c.doRequest(req, nil); doErr != nil {
		return fmt.Errorf("failed to delete archive: %w", doErr)
	}

	return nil
}

// doRequest executes an HTTP request and decodes the response.
func (c *Client) doRequest(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service at %s: %w. "+
			"Ensure the httpd command is running and accessible", c.baseURL, err)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return fmt.Errorf("failed to read response body: %w", readErr)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp errorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			return fmt.Errorf("API error (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	if result == nil {
		return nil
	}

	if unmarshalErr := json.Unmarshal(body, result); unmarshalErr != nil {
		return fmt.Errorf("failed to decode response: %w", unmarshalErr)
	}

	return nil
}
