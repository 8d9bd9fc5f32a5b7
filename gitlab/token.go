package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
)

// AuthError is an OAuth error payload returned by the token endpoint with
// a success status. The flow treats it as a recoverable denial, not a
// hard failure.
type AuthError struct {
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("provider denied authorization: %s", e.Code)
	}
	return fmt.Sprintf("provider denied authorization: %s - %s", e.Code, e.Description)
}

// tokenResponse is the token endpoint response body.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for an access token.
//
// Non-2xx responses are returned as a StatusError so the caller can
// surface the upstream status. A 2xx response whose payload carries an
// error field is returned as an AuthError.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	c.metrics.RecordProviderStatus("token", resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", apperrors.NewStatusError(resp.StatusCode, fmt.Errorf("token exchange rejected"))
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}

	if tokenResp.Error != "" {
		return "", &AuthError{Code: tokenResp.Error, Description: tokenResp.ErrorDescription}
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access token")
	}

	return tokenResp.AccessToken, nil
}
