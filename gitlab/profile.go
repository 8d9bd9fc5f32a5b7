package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Profile is the view model projected from the provider's current-user
// endpoint. Recomputed on every request, never cached.
type Profile struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url"`
	LastActivity string `json:"last_activity_on"`
}

// FetchProfile retrieves the authenticated user's profile. The bearer
// token is passed as a query credential, matching the provider's API.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (Profile, error) {
	u := c.config.UserURL + "?access_token=" + url.QueryEscape(accessToken)

	body, _, err := c.get(ctx, "user", u)
	if err != nil {
		return Profile{}, err
	}

	var profile Profile
	if err := json.Unmarshal(body, &profile); err != nil {
		return Profile{}, fmt.Errorf("parsing user response: %w", err)
	}

	return profile, nil
}
