package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mkeller/billable/internal/types"
)

const defaultBaseURL = "https://www.rescuetime.com/anapi/data"

// HTTPClient talks to the analytic data API. Requests are rate limited so
// that the auto-refresh loop cannot hammer the service.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *HTTPClient) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.client = hc }
}

// NewHTTPClient creates a client for the analytic data API.
func NewHTTPClient(apiKey string, opts ...Option) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, &types.ValidationError{Field: "api_key", Reason: "source API key is required"}
	}
	c := &HTTPClient{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// apiResponse is the row-oriented payload the analytic API returns: a
// header row naming the columns and one array per activity.
type apiResponse struct {
	RowHeaders []string          `json:"row_headers"`
	Rows       []json.RawMessage `json:"rows"`
}

// FetchDay retrieves the document-level activity breakdown for one date.
// Transport failures and non-200 responses wrap ErrSourceUnavailable so
// callers can tell "service down" from "bad data".
func (c *HTTPClient) FetchDay(ctx context.Context, date string) ([]types.ActivityRecord, error) {
	if !types.ValidDate(date) {
		return nil, &types.ValidationError{Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("format", "json")
	q.Set("restrict_begin", date)
	q.Set("restrict_end", date)
	q.Set("perspective", "rank")
	q.Set("restrict_kind", "document")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build source request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source request failed: %w: %v", types.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("source returned %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), types.ErrSourceUnavailable)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode source response: %w", err)
	}

	return parseRows(date, payload)
}

// columnIndexes maps the header names we care about to row positions. The
// API documents the header row as authoritative, so we never assume fixed
// column order.
type columnIndexes struct {
	seconds      int
	activity     int
	document     int
	category     int
	productivity int
}

func indexHeaders(headers []string) (columnIndexes, error) {
	idx := columnIndexes{seconds: -1, activity: -1, document: -1, category: -1, productivity: -1}
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "time spent (seconds)":
			idx.seconds = i
		case "activity":
			idx.activity = i
		case "document":
			idx.document = i
		case "category":
			idx.category = i
		case "productivity":
			idx.productivity = i
		}
	}
	if idx.seconds < 0 || idx.activity < 0 {
		return idx, fmt.Errorf("source response missing required columns (headers: %v)", headers)
	}
	return idx, nil
}

func parseRows(date string, payload apiResponse) ([]types.ActivityRecord, error) {
	idx, err := indexHeaders(payload.RowHeaders)
	if err != nil {
		return nil, err
	}

	records := make([]types.ActivityRecord, 0, len(payload.Rows))
	for i, raw := range payload.Rows {
		var cells []json.RawMessage
		if err := json.Unmarshal(raw, &cells); err != nil {
			return nil, fmt.Errorf("failed to decode source row %d: %w", i, err)
		}

		rec := types.ActivityRecord{Date: date}
		if rec.Seconds, err = intCell(cells, idx.seconds); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if rec.Application, err = stringCell(cells, idx.activity); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rec.Title, _ = stringCell(cells, idx.document)
		rec.Category, _ = stringCell(cells, idx.category)
		rec.Productivity, _ = intCell(cells, idx.productivity)

		if rec.Seconds < 0 {
			rec.Seconds = 0
		}
		records = append(records, rec)
	}
	return records, nil
}

func stringCell(cells []json.RawMessage, i int) (string, error) {
	if i < 0 || i >= len(cells) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(cells[i], &s); err != nil {
		return "", fmt.Errorf("expected string cell at %d", i)
	}
	return s, nil
}

func intCell(cells []json.RawMessage, i int) (int, error) {
	if i < 0 || i >= len(cells) {
		return 0, nil
	}
	var n int
	if err := json.Unmarshal(cells[i], &n); err != nil {
		return 0, fmt.Errorf("expected numeric cell at %d", i)
	}
	return n, nil
}
