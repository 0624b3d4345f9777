package themo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the Themo cloud API base URL.
	DefaultBaseURL = "https://app.themo.io"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// apiVersion is the fixed api-version query parameter attached to every
	// request.
	apiVersion = "1"
)

// Client is a Themo API client. It holds the credentials, the bearer token
// obtained by Authenticate, and the environment list fetched during login.
//
// A Client issues one HTTP request per method call and is not designed for
// concurrent use by callers issuing overlapping writes to the same device.
type Client struct {
	baseURL      string
	username     string
	password     string
	token        string
	environments []Environment
	httpClient   *http.Client
	timeout      time.Duration
	logger       Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP request timeout.
// This option can be applied in any order relative to other options.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a new Themo API client for the given credentials.
// The client is unusable until Authenticate has exchanged the credentials
// for a bearer token.
func NewClient(username, password string, opts ...Option) (*Client, error) {
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if password == "" {
		return nil, ErrEmptyPassword
	}

	c := &Client{
		baseURL:  DefaultBaseURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	// Applied after the options so WithTimeout also covers a client installed
	// by WithHTTPClient, whichever came first.
	if c.timeout > 0 {
		c.httpClient.Timeout = c.timeout
	}

	return c, nil
}

// buildURL joins the base URL and a relative path and appends the fixed
// api-version query parameter.
func (c *Client) buildURL(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return c.baseURL + path + sep + "api-version=" + apiVersion
}

// do performs an authenticated HTTP request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if c.token == "" {
		return nil, ErrNotAuthenticated
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	c.logRequest(ctx, method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logResponse(ctx, method, path, 0, time.Since(start), err)
		return nil, &ConnectionError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	c.logResponse(ctx, method, path, resp.StatusCode, time.Since(start), nil)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Op: method + " " + path, Err: err}
	}

	if resp.StatusCode >= 400 {
		return nil, c.handleError(resp.StatusCode, respBody)
	}

	return respBody, nil
}

// handleError converts HTTP error responses to appropriate errors.
func (c *Client) handleError(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		// Try to extract an error message from the response
		var errResp struct {
			Message string `json:"Message"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
			return &APIError{
				StatusCode: statusCode,
				Message:    errResp.Message,
			}
		}
		return &APIError{
			StatusCode: statusCode,
			Message:    string(body),
		}
	}
}

// get performs a GET request.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// post performs a POST request.
func (c *Client) post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// put performs a PUT request.
func (c *Client) put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body)
}
