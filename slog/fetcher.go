package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websearch"
)

// Ensure LoggingPageFetcher implements websearch.PageFetcher.
var _ websearch.PageFetcher = (*LoggingPageFetcher)(nil)

// LoggingPageFetcher wraps a PageFetcher with per-URL logging.
type LoggingPageFetcher struct {
	next   websearch.PageFetcher
	logger *slog.Logger
}

// NewLoggingPageFetcher creates a new LoggingPageFetcher.
func NewLoggingPageFetcher(next websearch.PageFetcher, logger *slog.Logger) *LoggingPageFetcher {
	return &LoggingPageFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the outcome, including
// soft failures reported through the page itself.
func (f *LoggingPageFetcher) Fetch(ctx context.Context, url string) (*websearch.PageContent, error) {
	begin := time.Now()
	page, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	if !page.Success {
		f.logger.Warn("fetch",
			"url", url,
			"status", page.StatusCode,
			"duration", time.Since(begin),
			"reason", page.ErrorMessage,
		)
		return page, nil
	}
	f.logger.Info("fetch",
		"url", url,
		"bytes", len(page.Markdown),
		"duration", time.Since(begin),
	)
	return page, nil
}
