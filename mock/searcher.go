package mock

import (
	"context"

	"github.com/fwojciec/websearch"
)

var _ websearch.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of websearch.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string, opts websearch.SearchOptions) ([]websearch.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string, opts websearch.SearchOptions) ([]websearch.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}
