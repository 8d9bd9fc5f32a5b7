package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Activity is one entry of a user's event feed, in provider order
// (newest first).
type Activity struct {
	ActionName  string    `json:"action_name"`
	CreatedAt   time.Time `json:"created_at"`
	TargetTitle string    `json:"target_title"`
	TargetType  string    `json:"target_type"`
}

// totalHeader reports the provider's total event count for the feed.
const totalHeader = "X-Total"

// FetchActivities retrieves the user's event feed.
//
// The provider caps a single page at 100 records. When the reported total
// exceeds one page, a second page is fetched and only its first item is
// appended, so the exposed feed holds at most 101 records. The two calls
// are sequential: the second depends on the first page's total.
func (c *Client) FetchActivities(ctx context.Context, accessToken string, userID int64) ([]Activity, error) {
	page1, header, err := c.fetchEventsPage(ctx, accessToken, userID, 1)
	if err != nil {
		return nil, err
	}

	activities := page1

	total, err := strconv.Atoi(header.Get(totalHeader))
	if err != nil {
		// Header missing or malformed: expose the single page as-is
		return activities, nil
	}

	if total > pageSize {
		page2, _, err := c.fetchEventsPage(ctx, accessToken, userID, 2)
		if err != nil {
			return nil, err
		}
		if len(page2) > 0 {
			activities = append(activities, page2[0])
		}
	}

	return activities, nil
}

func (c *Client) fetchEventsPage(ctx context.Context, accessToken string, userID int64, page int) ([]Activity, http.Header, error) {
	u := fmt.Sprintf("%s/%d/events?per_page=%d&page=%d&access_token=%s",
		c.config.UsersURL, userID, pageSize, page, url.QueryEscape(accessToken))

	body, header, err := c.get(ctx, "events", u)
	if err != nil {
		return nil, nil, err
	}

	var activities []Activity
	if err := json.Unmarshal(body, &activities); err != nil {
		return nil, nil, fmt.Errorf("parsing events response: %w", err)
	}

	return activities, header, nil
}
