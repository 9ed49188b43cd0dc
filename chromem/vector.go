// Package chromem provides an in-memory websearch.VectorStore backed by
// chromem-go. It serves local runs and keeps a second implementation of
// the store contract honest.
package chromem

import (
	"context"
	"fmt"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/fwojciec/websearch"
	"github.com/google/uuid"
)

const collectionName = "websearch"

// Compile-time interface verification.
var _ websearch.VectorStore = (*VectorStore)(nil)

// pointMeta is the adapter-side record needed for namespace sizing and
// age-based deletes, which chromem does not index on its own.
type pointMeta struct {
	queryID   string
	createdAt time.Time
}

// VectorStore implements websearch.VectorStore using chromem-go with
// precomputed embeddings.
type VectorStore struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	points     map[string]pointMeta
}

// NewVectorStore creates a new in-memory VectorStore.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		db:     chromem.NewDB(),
		points: make(map[string]pointMeta),
	}
}

// EnsureCollection idempotently creates the backing collection. The
// embedding function is never used: every document and query arrives with
// a precomputed embedding.
func (s *VectorStore) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return websearch.Errorf(websearch.EINVALID, "dimensions must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection != nil {
		return nil
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	s.collection = col
	return nil
}

// Upsert writes points as one batch. No-op on empty input.
func (s *VectorStore) Upsert(ctx context.Context, points []websearch.Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.ensureLocked()
	if err != nil {
		return err
	}

	docs := make([]chromem.Document, len(points))
	metas := make(map[string]pointMeta, len(points))
	for i, p := range points {
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := p.Payload.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		docs[i] = chromem.Document{
			ID:        id,
			Content:   p.Payload.Text,
			Embedding: p.Vector,
			Metadata: map[string]string{
				"url":        p.Payload.URL,
				"title":      p.Payload.Title,
				"query_id":   p.Payload.QueryID,
				"created_at": createdAt.UTC().Format(time.RFC3339),
			},
		}
		metas[id] = pointMeta{queryID: p.Payload.QueryID, createdAt: createdAt.UTC()}
	}

	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return err
	}
	for id, meta := range metas {
		s.points[id] = meta
	}
	return nil
}

// Search returns up to topK points in the query namespace ranked by
// similarity, descending.
func (s *VectorStore) Search(ctx context.Context, vector []float32, queryID string, topK int) ([]websearch.ScoredPoint, error) {
	if topK <= 0 {
		return nil, nil
	}

	// The lock is held across the query itself: chromem requires
	// nResults <= matching documents, and a concurrent delete shrinking
	// the namespace between the clamp and the query would invalidate it.
	s.mu.Lock()
	defer s.mu.Unlock()

	var available int
	for _, meta := range s.points {
		if meta.queryID == queryID {
			available++
		}
	}
	if s.collection == nil || available == 0 {
		return nil, nil
	}
	if topK > available {
		topK = available
	}

	results, err := s.collection.QueryEmbedding(ctx, vector, topK, map[string]string{"query_id": queryID}, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	hits := make([]websearch.ScoredPoint, len(results))
	for i, r := range results {
		createdAt, _ := time.Parse(time.RFC3339, r.Metadata["created_at"])
		hits[i] = websearch.ScoredPoint{
			Point: websearch.Point{
				ID:     r.ID,
				Vector: r.Embedding,
				Payload: websearch.Payload{
					URL:       r.Metadata["url"],
					Title:     r.Metadata["title"],
					Text:      r.Content,
					QueryID:   r.Metadata["query_id"],
					CreatedAt: createdAt,
				},
			},
			Score: r.Similarity,
		}
	}
	return hits, nil
}

// DeleteByQuery removes all points of one namespace.
func (s *VectorStore) DeleteByQuery(ctx context.Context, queryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection == nil {
		return nil
	}
	if err := s.collection.Delete(ctx, map[string]string{"query_id": queryID}, nil); err != nil {
		return err
	}
	for id, meta := range s.points {
		if meta.queryID == queryID {
			delete(s.points, id)
		}
	}
	return nil
}

// DeleteOlderThan removes all points created before cutoff and returns how
// many were removed.
func (s *VectorStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection == nil {
		return 0, nil
	}

	var ids []string
	for id, meta := range s.points {
		if meta.createdAt.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return 0, err
	}
	for _, id := range ids {
		delete(s.points, id)
	}
	return len(ids), nil
}

// Stats returns collection counters. A store that was never initialized
// reports zeros.
func (s *VectorStore) Stats(ctx context.Context) (*websearch.CollectionStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collection == nil {
		return &websearch.CollectionStats{Status: "green"}, nil
	}
	count := int64(s.collection.Count())
	return &websearch.CollectionStats{
		Points:  count,
		Vectors: count,
		Status:  "green",
	}, nil
}

// ensureLocked lazily creates the collection for callers that skip
// EnsureCollection. The caller must hold s.mu.
func (s *VectorStore) ensureLocked() (*chromem.Collection, error) {
	if s.collection != nil {
		return s.collection, nil
	}
	col, err := s.db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	s.collection = col
	return col, nil
}
