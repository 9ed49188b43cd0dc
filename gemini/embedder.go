package gemini

import (
	"context"

	"github.com/fwojciec/websearch"
	"google.golang.org/genai"
)

const embeddingModel = "gemini-embedding-001"

// DefaultDimensions is the embedding dimensionality requested from Gemini.
const DefaultDimensions = 768

var _ websearch.Embedder = (*Embedder)(nil)

// Embedder implements websearch.Embedder using the Gemini embedding API.
type Embedder struct {
	client     *genai.Client
	dimensions int
}

// NewEmbedder creates a new Embedder. A non-positive dimensions falls back
// to DefaultDimensions.
func NewEmbedder(client *genai.Client, dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Embedder{client: client, dimensions: dimensions}
}

// Embed returns one vector per input text, in input order.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	dims := int32(e.dimensions)
	result, err := e.client.Models.EmbedContent(ctx, embeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, websearch.Errorf(websearch.EINTERNAL, "gemini returned nil result")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, websearch.Errorf(websearch.EINTERNAL, "gemini returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for i, embedding := range result.Embeddings {
		vectors[i] = embedding.Values
	}
	return vectors, nil
}

// Dimensions returns the embedding dimensionality.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}
