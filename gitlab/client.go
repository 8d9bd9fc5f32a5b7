// Package gitlab is a minimal client for the GitLab OAuth2 and REST API
// endpoints this service consumes.
package gitlab

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/internal/metrics"
	"golang.org/x/oauth2"
)

// pageSize is the provider's hard cap for a single events page.
const pageSize = 100

// Config holds the registered application credentials and the provider
// instance to talk to.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	BaseURL      string // e.g. "https://gitlab.com"
	Scopes       []string
	Timeout      time.Duration

	// Endpoint overrides for tests. Derived from BaseURL when empty.
	AuthURL  string
	TokenURL string
	UserURL  string
	UsersURL string
}

// Client issues requests against a single GitLab instance.
type Client struct {
	config     Config
	oauth      *oauth2.Config
	httpClient *http.Client
	metrics    metrics.Recorder
}

// NewClient creates a Client. recorder may be metrics.Nop{}.
func NewClient(config Config, recorder metrics.Recorder) *Client {
	if config.AuthURL == "" {
		config.AuthURL = config.BaseURL + "/oauth/authorize"
	}
	if config.TokenURL == "" {
		config.TokenURL = config.BaseURL + "/oauth/token"
	}
	if config.UserURL == "" {
		config.UserURL = config.BaseURL + "/api/v4/user"
	}
	if config.UsersURL == "" {
		config.UsersURL = config.BaseURL + "/api/v4/users"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	return &Client{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
		httpClient: &http.Client{Timeout: config.Timeout},
		metrics:    recorder,
	}
}

// AuthCodeURL builds the provider authorization URL for the given CSRF
// state token.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// get performs an API GET and returns the body and headers. Non-2xx
// responses come back as a StatusError carrying the upstream status.
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s request: %w", endpoint, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordProviderStatus(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, apperrors.NewStatusError(resp.StatusCode, fmt.Errorf("%s request rejected", endpoint))
	}

	return body, resp.Header, nil
}
