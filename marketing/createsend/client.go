// Package createsend implements the marketing contracts against the
// Campaign Monitor v3.3 REST API.
package createsend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/memberdir/directory-backend/marketing"
)

const defaultBaseURL = "https://api.createsend.com/api/v3.3"

var (
	_ marketing.SubscriberAPI = (*Client)(nil)
	_ marketing.CampaignAPI   = (*Client)(nil)
	_ marketing.ListAPI       = (*Client)(nil)
)

// Client is a Campaign Monitor API client. It authenticates with an API key
// over HTTP basic auth.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a Campaign Monitor client with the given API key
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// vendorError is the error envelope Campaign Monitor returns on rejection
type vendorError struct {
	Code    int    `json:"Code"`
	Message string `json:"Message"`
}

// doRequest performs an authenticated request and decodes the response into
// result when result is non-nil. Non-2xx responses are returned as
// *marketing.APIError with the vendor diagnostic preserved.
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.apiKey, "x")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &marketing.APIError{
			StatusCode: resp.StatusCode,
			RawBody:    string(respBody),
		}
		var ve vendorError
		if json.Unmarshal(respBody, &ve) == nil {
			apiErr.Code = ve.Code
			apiErr.Message = ve.Message
		}
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
