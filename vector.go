package websearch

import (
	"context"
	"time"
)

// Payload is the metadata stored alongside each indexed vector. Every
// payload carries the query namespace that owns it; retrieval always
// filters on it.
type Payload struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	QueryID   string    `json:"queryId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Point is an embedded chunk ready for upsert into a vector store.
type Point struct {
	ID      string    `json:"id"`
	Vector  []float32 `json:"vector"`
	Payload Payload   `json:"payload"`
}

// ScoredPoint is a similarity search hit.
type ScoredPoint struct {
	Point Point   `json:"point"`
	Score float32 `json:"score"`
}

// CollectionStats describes the state of the backing collection.
// A missing collection is reported as the zero value, not an error.
type CollectionStats struct {
	Points  int64  `json:"points"`
	Vectors int64  `json:"vectors"`
	Status  string `json:"status"`
}

// VectorStore is the low-level contract with the similarity index backend.
// Upsert and delete are idempotent; no cross-call transactions exist.
// Namespacing is entirely the caller's concern via Payload.QueryID.
type VectorStore interface {
	// EnsureCollection idempotently creates the backing collection with
	// the given embedding dimensionality and cosine distance.
	EnsureCollection(ctx context.Context, dimensions int) error

	// Upsert writes points as one batch. No-op on empty input.
	Upsert(ctx context.Context, points []Point) error

	// Search returns up to topK points whose payload queryID matches,
	// ordered by cosine similarity to vector, descending.
	Search(ctx context.Context, vector []float32, queryID string, topK int) ([]ScoredPoint, error)

	// DeleteByQuery removes all points of one namespace.
	DeleteByQuery(ctx context.Context, queryID string) error

	// DeleteOlderThan removes all points created before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)

	// Stats returns collection counters. A collection that does not
	// exist yet is a zero-valued result, not an error.
	Stats(ctx context.Context) (*CollectionStats, error)
}
