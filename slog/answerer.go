// Package slog provides logging decorators for websearch services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websearch"
)

// Ensure LoggingAnswerer implements websearch.Answerer.
var _ websearch.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with per-request logging.
type LoggingAnswerer struct {
	next   websearch.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next websearch.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer delegates to the wrapped Answerer and logs the outcome.
func (a *LoggingAnswerer) Answer(ctx context.Context, req *websearch.Request) (*websearch.Answer, error) {
	begin := time.Now()
	answer, err := a.next.Answer(ctx, req)
	if err != nil {
		a.logger.Error("answer",
			"query", req.Query,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	a.logger.Info("answer",
		"query", req.Query,
		"sources", len(answer.Sources),
		"summary_chars", len(answer.Summary),
		"duration", time.Since(begin),
	)
	return answer, nil
}

// Context delegates to the wrapped Answerer and logs the outcome.
func (a *LoggingAnswerer) Context(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error) {
	begin := time.Now()
	snippets, err := a.next.Context(ctx, req)
	if err != nil {
		a.logger.Error("context",
			"query", req.Query,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil, err
	}
	a.logger.Info("context",
		"query", req.Query,
		"snippets", len(snippets),
		"duration", time.Since(begin),
	)
	return snippets, nil
}
