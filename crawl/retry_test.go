package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchWithRetryDelays(t *testing.T) {
	t.Parallel()

	// Short delays so tests run fast.
	delays := []time.Duration{time.Millisecond, time.Millisecond}

	t.Run("returns page on first success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (*websearch.PageContent, error) {
			calls++
			return &websearch.PageContent{URL: url, Markdown: "content", Success: true}, nil
		}

		page, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
		require.NoError(t, err)
		assert.True(t, page.Success)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries unsuccessful pages until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (*websearch.PageContent, error) {
			calls++
			if calls < 3 {
				return &websearch.PageContent{URL: url, ErrorMessage: "timeout"}, nil
			}
			return &websearch.PageContent{URL: url, Markdown: "content", Success: true}, nil
		}

		page, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
		require.NoError(t, err)
		assert.True(t, page.Success)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last unsuccessful page after exhausting retries", func(t *testing.T) {
		t.Parallel()

		calls := 0
		fetch := func(ctx context.Context, url string) (*websearch.PageContent, error) {
			calls++
			return &websearch.PageContent{URL: url, ErrorMessage: "blocked"}, nil
		}

		page, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
		require.NoError(t, err)
		assert.False(t, page.Success)
		assert.Equal(t, "blocked", page.ErrorMessage)
		assert.Equal(t, 3, calls, "1 initial + 2 retries")
	})

	t.Run("returns error when fetch keeps failing", func(t *testing.T) {
		t.Parallel()

		fetch := func(ctx context.Context, url string) (*websearch.PageContent, error) {
			return nil, websearch.Errorf(websearch.EINVALID, "bad request")
		}

		_, err := crawl.FetchWithRetryDelays(context.Background(), "https://example.com", fetch, delays)
		require.Error(t, err)
		assert.Equal(t, websearch.EINVALID, websearch.ErrorCode(err))
	})

	t.Run("stops when context is canceled during backoff", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		fetch := func(ctx context.Context, url string) (*websearch.PageContent, error) {
			cancel()
			return &websearch.PageContent{URL: url}, nil
		}

		_, err := crawl.FetchWithRetryDelays(ctx, "https://example.com", fetch, []time.Duration{time.Second})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
