package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client talks to the Canvas REST API of a single host with a single
// access token. The token travels as a query parameter on every call.
type Client struct {
	baseURL    string
	token      string
	perPage    int
	httpClient *http.Client
}

func NewClient(host, token string, perPage int, timeout time.Duration) *Client {
	base := host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}
	return &Client{
		baseURL: strings.TrimRight(base, "/") + "/api/v1",
		token:   token,
		perPage: perPage,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Courses(ctx context.Context) ([]Course, error) {
	var courses []Course
	query := url.Values{"per_page": []string{strconv.Itoa(c.perPage)}}
	if err := c.get(ctx, "/courses", query, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) Self(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/users/self", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Assignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	var assignments []Assignment
	path := fmt.Sprintf("/courses/%d/assignments", courseID)
	query := url.Values{"per_page": []string{strconv.Itoa(c.perPage)}}
	if err := c.get(ctx, path, query, &assignments); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (c *Client) Submission(ctx context.Context, courseID, assignmentID, userID int64) (*SubmissionRecord, error) {
	var record SubmissionRecord
	path := fmt.Sprintf("/courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID)
	if err := c.get(ctx, path, nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	if query == nil {
		query = url.Values{}
	}
	query.Set("access_token", c.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create canvas request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("canvas request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("canvas returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode canvas response for %s: %w", path, err)
	}
	return nil
}
