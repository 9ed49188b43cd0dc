package mock

import (
	"context"

	"github.com/fwojciec/websearch"
)

var _ websearch.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of websearch.Answerer.
type Answerer struct {
	AnswerFn  func(ctx context.Context, req *websearch.Request) (*websearch.Answer, error)
	ContextFn func(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error)
}

func (a *Answerer) Answer(ctx context.Context, req *websearch.Request) (*websearch.Answer, error) {
	return a.AnswerFn(ctx, req)
}

func (a *Answerer) Context(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error) {
	return a.ContextFn(ctx, req)
}
