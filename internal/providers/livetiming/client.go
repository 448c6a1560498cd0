package livetiming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrSessionNotStarted means the session object exists upstream but has no
// lap data yet. Callers treat it as a skipped poll cycle, not a failure.
var ErrSessionNotStarted = errors.New("session has not started yet")

// Client pulls session data from the timing provider
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// New creates a provider client for the given base URL
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: "F1LiveDashboard/1.0",
	}
}

// FetchSession loads the full raw session data for one session.
// Returns ErrSessionNotStarted when the session exists but has no laps.
func (c *Client) FetchSession(ctx context.Context, year, round int, sessionName string) (*RawSession, error) {
	u := fmt.Sprintf("%s/session/%d/%d/%s", c.baseURL, year, round, url.PathEscape(sessionName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider error: status=%d, body=%s", resp.StatusCode, string(body))
	}

	var session RawSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}

	if len(session.Laps) == 0 && len(session.Results) == 0 {
		return nil, ErrSessionNotStarted
	}

	return &session, nil
}
