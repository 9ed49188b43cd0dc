package mock

import (
	"context"

	"github.com/fwojciec/websearch"
)

var _ websearch.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of websearch.PageFetcher.
type PageFetcher struct {
	FetchFn func(ctx context.Context, url string) (*websearch.PageContent, error)
}

func (f *PageFetcher) Fetch(ctx context.Context, url string) (*websearch.PageContent, error) {
	return f.FetchFn(ctx, url)
}
