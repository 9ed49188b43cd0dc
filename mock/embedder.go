package mock

import (
	"context"

	"github.com/fwojciec/websearch"
)

var _ websearch.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of websearch.Embedder.
type Embedder struct {
	EmbedFn      func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionsFn func() int
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

func (e *Embedder) Dimensions() int {
	if e.DimensionsFn == nil {
		return 0
	}
	return e.DimensionsFn()
}
