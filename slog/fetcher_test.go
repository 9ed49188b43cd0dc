package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/mock"
	wsslog "github.com/fwojciec/websearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingPageFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageFetcher{
			FetchFn: func(ctx context.Context, url string) (*websearch.PageContent, error) {
				return &websearch.PageContent{URL: url, Markdown: "# Conteúdo", Success: true}, nil
			},
		}

		fetcher := wsslog.NewLoggingPageFetcher(inner, logger)
		page, err := fetcher.Fetch(context.Background(), "https://example.com/artigo")

		require.NoError(t, err)
		assert.True(t, page.Success)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "url=https://example.com/artigo")
		assert.Contains(t, output, "bytes=")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs soft failures as warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageFetcher{
			FetchFn: func(ctx context.Context, url string) (*websearch.PageContent, error) {
				return &websearch.PageContent{URL: url, StatusCode: 403, ErrorMessage: "blocked"}, nil
			},
		}

		fetcher := wsslog.NewLoggingPageFetcher(inner, logger)
		page, err := fetcher.Fetch(context.Background(), "https://example.com/artigo")

		require.NoError(t, err)
		assert.False(t, page.Success)
		output := buf.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "status=403")
		assert.Contains(t, output, "reason=blocked")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.PageFetcher{
			FetchFn: func(ctx context.Context, url string) (*websearch.PageContent, error) {
				return nil, errors.New("network error")
			},
		}

		fetcher := wsslog.NewLoggingPageFetcher(inner, logger)
		_, err := fetcher.Fetch(context.Background(), "https://example.com/artigo")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "fetch")
		assert.Contains(t, output, "err=\"network error\"")
	})
}
