package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mkeller/billable/internal/types"
)

// HTTPClient talks to the practice-management API using bearer-token auth.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPClient creates a client for the practice-management API.
func NewHTTPClient(baseURL, token string) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, &types.ValidationError{Field: "sink_url", Reason: "sink base URL is required"}
	}
	if token == "" {
		return nil, &types.ValidationError{Field: "sink_token", Reason: "sink API token is required"}
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// timeEntryPayload is the submission body the API expects.
type timeEntryPayload struct {
	Date        string  `json:"date"`
	MatterCode  string  `json:"matter_code"`
	Description string  `json:"description"`
	Units       float64 `json:"units"`
	Notes       string  `json:"notes,omitempty"`
	ExternalID  string  `json:"external_id"`
}

// SubmitEntry pushes a confirmed entry downstream. Entries without a
// matter code are rejected before the request is made.
func (c *HTTPClient) SubmitEntry(ctx context.Context, entry *types.ConfirmedEntry) error {
	if entry.MatterCode == "" {
		return &types.ValidationError{Field: "matter_code", Reason: "cannot submit an entry without a matter code"}
	}

	payload := timeEntryPayload{
		Date:        entry.Date,
		MatterCode:  entry.MatterCode,
		Description: entry.Task,
		Units:       entry.Units,
		Notes:       entry.Notes,
		ExternalID:  entry.ID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode time entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/time-entries", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit request failed: %w: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("entry %s already submitted downstream: %w", entry.ID, types.ErrConflict)
	case resp.StatusCode >= 300:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sink returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return nil
}

// getJSON performs an authenticated GET and decodes the response into out.
func (c *HTTPClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build sink request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink request failed: %w: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sink returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode sink response: %w", err)
	}
	return nil
}

// ListMatters returns the matters visible to the configured token.
func (c *HTTPClient) ListMatters(ctx context.Context) ([]Matter, error) {
	var payload struct {
		Matters []Matter `json:"matters"`
	}
	if err := c.getJSON(ctx, "/api/v1/matters", &payload); err != nil {
		return nil, err
	}
	return payload.Matters, nil
}

// ListOutcomes returns the billing outcome categories.
func (c *HTTPClient) ListOutcomes(ctx context.Context) ([]Outcome, error) {
	var payload struct {
		Outcomes []Outcome `json:"outcomes"`
	}
	if err := c.getJSON(ctx, "/api/v1/outcomes", &payload); err != nil {
		return nil, err
	}
	return payload.Outcomes, nil
}

// ListComponents returns a matter's components, or all components when
// matterID is empty.
func (c *HTTPClient) ListComponents(ctx context.Context, matterID string) ([]Component, error) {
	path := "/api/v1/components"
	if matterID != "" {
		path += "?matter_id=" + url.QueryEscape(matterID)
	}
	var payload struct {
		Components []Component `json:"components"`
	}
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, err
	}
	return payload.Components, nil
}

// FindMatter resolves a five-digit matter code to a matter. Returns an
// ErrNotFound-wrapped error for unknown codes.
func (c *HTTPClient) FindMatter(ctx context.Context, code string) (*Matter, error) {
	matters, err := c.ListMatters(ctx)
	if err != nil {
		return nil, err
	}
	for i := range matters {
		if matters[i].Code == code {
			return &matters[i], nil
		}
	}
	return nil, fmt.Errorf("matter %s: %w", code, types.ErrNotFound)
}
