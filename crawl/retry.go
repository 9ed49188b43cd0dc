package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/websearch"
)

// FetchFunc is the signature for a fetch function.
type FetchFunc func(ctx context.Context, url string) (*websearch.PageContent, error)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry attempts to fetch a URL with exponential backoff.
// An unsuccessful PageContent counts as a failed attempt; the last
// unsuccessful page is returned without error once retries are exhausted
// so the caller can record it as a soft failure.
func FetchWithRetry(ctx context.Context, url string, fetch FetchFunc) (*websearch.PageContent, error) {
	return FetchWithRetryDelays(ctx, url, fetch, DefaultRetryDelays())
}

// FetchWithRetryDelays is like FetchWithRetry but allows configurable delays.
// This is useful for testing without waiting for real delays.
func FetchWithRetryDelays(ctx context.Context, url string, fetch FetchFunc, delays []time.Duration) (*websearch.PageContent, error) {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastPage *websearch.PageContent
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		page, err := fetch(ctx, url)
		if err == nil && page != nil && page.Success {
			return page, nil
		}
		lastPage, lastErr = page, err

		if attempt >= maxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return lastPage, nil
}
