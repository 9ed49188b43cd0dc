package openai

import (
	"context"
	"fmt"

	"github.com/fwojciec/websearch"
	openai "github.com/sashabaranov/go-openai"
)

// maxBatchSize is the largest input list accepted per embeddings call.
const maxBatchSize = 100

// EmbeddingModel represents a supported OpenAI embedding model.
type EmbeddingModel string

const (
	ModelTextEmbedding3Small EmbeddingModel = "text-embedding-3-small"
	ModelTextEmbedding3Large EmbeddingModel = "text-embedding-3-large"
)

func (m EmbeddingModel) dimensions() int {
	switch m {
	case ModelTextEmbedding3Small:
		return 1536
	case ModelTextEmbedding3Large:
		return 3072
	default:
		return 1536
	}
}

var _ websearch.Embedder = (*Embedder)(nil)

// Embedder implements websearch.Embedder using the OpenAI embeddings API.
type Embedder struct {
	client *openai.Client
	model  EmbeddingModel
}

// NewEmbedder creates a new Embedder.
func NewEmbedder(client *openai.Client, model EmbeddingModel) *Embedder {
	if model == "" {
		model = ModelTextEmbedding3Small
	}
	return &Embedder{client: client, model: model}
}

// Embed returns one vector per input text, in input order, batching up to
// maxBatchSize texts per API call.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += maxBatchSize {
		end := min(i+maxBatchSize, len(texts))
		batch := texts[i:end]

		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, websearch.Errorf(websearch.EINTERNAL, "openai returned %d embeddings for %d texts", len(resp.Data), len(batch))
		}

		for _, emb := range resp.Data {
			vectors = append(vectors, emb.Embedding)
		}
	}

	return vectors, nil
}

// Dimensions returns the embedding dimensionality of the configured model.
func (e *Embedder) Dimensions() int {
	return e.model.dimensions()
}
