// Package api implements the HTTP transport for the Listmonk REST API:
// URL construction, basic-auth injection, response validation, and
// JSON/multipart body encoding. The public listmonk package composes
// these pieces into one function per API operation.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"encoding/json"
)

// DefaultTimeout is the default HTTP client timeout.
const DefaultTimeout = 30 * time.Second

// Config holds the transport configuration. All API calls require a base
// URL and basic-auth credentials.
type Config struct {
	BaseURL    string
	Username   string
	Password   string
	UserAgent  string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	username   string
	password   string
	userAgent  string
	httpClient *http.Client
}

// NewClient creates a new API client from the given config.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		userAgent:  cfg.UserAgent,
		httpClient: httpClient,
	}, nil
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// newRequest builds a request with auth and common headers applied.
func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return req, nil
}

// Do issues a JSON request and decodes the enveloped data payload into
// out. A nil out discards the payload. The request body, if non-nil, is
// marshalled as JSON. Failures are never retried; every error surfaces
// immediately as an *APIError, *NetworkError, or *DecodeError.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err, URL: req.URL.String()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseError(resp)
	}

	if out == nil {
		return nil
	}
	return decodeEnvelope(resp.Body, path, out)
}

// GetText issues a GET request and returns the raw response body as a
// string. Used for preview endpoints that return rendered HTML rather
// than a JSON envelope.
func (c *Client) GetText(ctx context.Context, path string, query url.Values) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err, URL: req.URL.String()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err, URL: req.URL.String()}
	}
	return string(data), nil
}

// PostForm issues a form-encoded POST and returns the response body as a
// string. The opt-in confirmation endpoint answers with an HTML page
// whose text indicates the outcome.
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err, URL: req.URL.String()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", parseError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{Err: err, URL: req.URL.String()}
	}
	return string(data), nil
}

// PostMultipart issues a multipart/form-data POST carrying a JSON data
// field plus file parts, and decodes the enveloped response into out.
func (c *Client) PostMultipart(ctx context.Context, path string, data []byte, files []File, out any) error {
	body, contentType, err := encodeMultipart(data, files)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err, URL: req.URL.String()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseError(resp)
	}

	if out == nil {
		return nil
	}
	return decodeEnvelope(resp.Body, path, out)
}
