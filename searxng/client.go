// Package searxng provides a websearch.Searcher backed by a SearxNG
// instance's JSON API.
package searxng

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/fwojciec/websearch"
)

// DefaultTimeout is the default timeout for search requests.
const DefaultTimeout = 20 * time.Second

// Ensure Client implements websearch.Searcher at compile time.
var _ websearch.Searcher = (*Client)(nil)

// Client queries a SearxNG instance for general-category results.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for search requests.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// NewClient creates a new Client for the SearxNG instance at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// searchResponse is the SearxNG JSON response shape.
type searchResponse struct {
	Results []struct {
		URL   string  `json:"url"`
		Title string  `json:"title"`
		Score float64 `json:"score"`
	} `json:"results"`
}

// Search queries the instance and returns results sorted by provider score
// descending, truncated to the clamped limit. There is no retry at this
// layer; the caller decides whether empty results short-circuit the request.
func (c *Client) Search(ctx context.Context, query string, opts websearch.SearchOptions) ([]websearch.SearchResult, error) {
	if query == "" {
		return nil, websearch.Errorf(websearch.EINVALID, "query required")
	}

	k := websearch.ClampLimit(opts.Limit)
	language := opts.Language
	if language == "" {
		language = websearch.DefaultLanguage
	}

	params := url.Values{
		"q":          {query},
		"format":     {"json"},
		"language":   {language},
		"safesearch": {"1"},
		"categories": {"general"},
	}
	if tr := timeRange(opts.FreshnessDays); tr != "" {
		params.Set("time_range", tr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, websearch.Errorf(websearch.ETIMEOUT, "search timed out after %s", c.timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, websearch.Errorf(websearch.ETIMEOUT, "search timed out after %s", c.timeout)
		}
		return nil, websearch.Errorf(websearch.EUNAVAILABLE, "search request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, websearch.Errorf(websearch.EUNAVAILABLE, "search returned HTTP %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]websearch.SearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		results = append(results, websearch.SearchResult{
			URL:   r.URL,
			Title: r.Title,
			Score: r.Score,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// timeRange maps a freshness window in days onto the provider's discrete
// time_range buckets.
func timeRange(days int) string {
	switch {
	case days <= 0:
		return ""
	case days <= 1:
		return "day"
	case days <= 7:
		return "week"
	case days <= 31:
		return "month"
	default:
		return "year"
	}
}
