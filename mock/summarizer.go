package mock

import (
	"context"

	"github.com/fwojciec/websearch"
)

var _ websearch.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of websearch.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, contextText, query, language string, sources []string) (string, error)
}

func (s *Summarizer) Summarize(ctx context.Context, contextText, query, language string, sources []string) (string, error) {
	return s.SummarizeFn(ctx, contextText, query, language, sources)
}
