package websearch

import "context"

// Limit bounds for search results per request.
const (
	MinSearchLimit     = 1
	MaxSearchLimit     = 20
	DefaultSearchLimit = 6
)

// DefaultLanguage is the language tag used when a request does not specify one.
const DefaultLanguage = "pt-BR"

// SearchResult represents a single hit returned by the search provider.
type SearchResult struct {
	URL   string  `json:"url"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// SearchOptions configures a search provider request.
type SearchOptions struct {
	// Maximum number of results to return. Clamped to [MinSearchLimit, MaxSearchLimit].
	Limit int

	// Preferred language tag for results (e.g. "pt-BR").
	Language string

	// Restrict results to content published within the last N days.
	// Zero means no freshness restriction.
	FreshnessDays int
}

// Searcher queries an external web search provider.
type Searcher interface {
	// Search returns results ordered by provider score descending,
	// truncated to the clamped option limit. Returns EUNAVAILABLE on
	// network failure or a non-2xx response and ETIMEOUT if the request
	// deadline is exceeded. An empty result set is not an error.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// ClampLimit restricts k to the [MinSearchLimit, MaxSearchLimit] range.
// Non-positive values fall back to DefaultSearchLimit.
func ClampLimit(k int) int {
	if k <= 0 {
		return DefaultSearchLimit
	}
	if k < MinSearchLimit {
		return MinSearchLimit
	}
	if k > MaxSearchLimit {
		return MaxSearchLimit
	}
	return k
}
