package websearch

import "context"

// Embedder generates fixed-dimensionality text embeddings.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	// Implementations must return ETIMEOUT when an embedding deadline
	// is exceeded so callers can distinguish an overloaded or
	// cold-starting backend from a generic upstream failure.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the vector dimensionality.
	Dimensions() int
}
