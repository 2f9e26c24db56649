// Package twitter is a minimal client for the recent-search endpoint. It
// performs exactly one authenticated GET per call: no pagination beyond the
// first page, no retries. Retry policy belongs to the caller.
package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://api.twitter.com"

// ErrNoBearerToken means the client was constructed without a credential.
// This is a configuration problem, not a provider failure.
var ErrNoBearerToken = errors.New("twitter: bearer token not configured")

// StatusError is a non-2xx response from the provider. The raw body is kept
// so API error payloads can be passed through for diagnostics.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("twitter: API error %d", e.StatusCode)
}

// SearchTweet is one item of the recent-search response.
type SearchTweet struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type searchResponse struct {
	Data []SearchTweet `json:"data"`
}

type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

func NewClient(bearerToken, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		bearerToken: bearerToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// HasCredential reports whether a bearer token was configured.
func (c *Client) HasCredential() bool {
	return c.bearerToken != ""
}

// RecentByUser fetches up to max recent tweets authored by username. A non-2xx
// status yields a *StatusError carrying the provider's raw body; transport
// failures (including timeout) come back as wrapped connection errors.
func (c *Client) RecentByUser(ctx context.Context, username string, max int) ([]SearchTweet, error) {
	if !c.HasCredential() {
		return nil, ErrNoBearerToken
	}

	q := url.Values{}
	q.Set("query", "from:"+username)
	q.Set("tweet.fields", "text")
	q.Set("max_results", strconv.Itoa(max))
	endpoint := c.baseURL + "/2/tweets/search/recent?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("twitter: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("twitter: connection error: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("twitter: reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("twitter: decoding response: %w", err)
	}

	return parsed.Data, nil
}
