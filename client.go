package listmonk

import (
	"context"
	"net/http"
	"runtime"
	"strings"

	"github.com/listmonk-client/client-go/internal/api"
)

// Version is the client library version reported in the User-Agent.
const Version = "0.3.2"

// Client is a Listmonk API client. It holds the base URL, basic-auth
// credentials, and the default timeout; all configuration is fixed at
// construction, so a Client is safe for concurrent use.
type Client struct {
	apiClient *api.Client
}

// New creates a new Listmonk client for the instance at baseURL,
// authenticating every request with the given username and password.
// The base URL is the instance root without /api, e.g.
// https://listmonk.example.com. Credentials are validated against the
// server lazily; call VerifyLogin to check them eagerly.
func New(baseURL, username, password string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, ErrInvalidBaseURL
	}
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	cfg := &clientConfig{
		userAgent: defaultUserAgent(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Username:   username,
		Password:   password,
		UserAgent:  cfg.userAgent,
		HTTPClient: cfg.httpClient,
		Timeout:    cfg.timeout,
	})
	if err != nil {
		return nil, err
	}

	return &Client{apiClient: apiClient}, nil
}

// BaseURL returns the configured base URL of the Listmonk instance.
func (c *Client) BaseURL() string {
	return c.apiClient.BaseURL()
}

// Healthy reports whether the server answers its health endpoint with the
// configured credentials.
func (c *Client) Healthy(ctx context.Context) (bool, error) {
	var ok bool
	if err := c.apiClient.Do(ctx, http.MethodGet, api.PathHealth, nil, nil, &ok); err != nil {
		return false, wrapError(err)
	}
	return ok, nil
}

// VerifyLogin checks the stored credentials against the server. It
// returns nil when the server accepts them.
func (c *Client) VerifyLogin(ctx context.Context) error {
	ok, err := c.Healthy(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnauthorized
	}
	return nil
}

func defaultUserAgent() string {
	return "listmonk-client-go/" + Version + " Go/" + runtime.Version()
}
