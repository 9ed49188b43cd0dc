package mock

import (
	"context"
	"time"

	"github.com/fwojciec/websearch"
)

var _ websearch.VectorStore = (*VectorStore)(nil)

// VectorStore is a mock implementation of websearch.VectorStore.
type VectorStore struct {
	EnsureCollectionFn func(ctx context.Context, dimensions int) error
	UpsertFn           func(ctx context.Context, points []websearch.Point) error
	SearchFn           func(ctx context.Context, vector []float32, queryID string, topK int) ([]websearch.ScoredPoint, error)
	DeleteByQueryFn    func(ctx context.Context, queryID string) error
	DeleteOlderThanFn  func(ctx context.Context, cutoff time.Time) (int, error)
	StatsFn            func(ctx context.Context) (*websearch.CollectionStats, error)
}

func (s *VectorStore) EnsureCollection(ctx context.Context, dimensions int) error {
	return s.EnsureCollectionFn(ctx, dimensions)
}

func (s *VectorStore) Upsert(ctx context.Context, points []websearch.Point) error {
	return s.UpsertFn(ctx, points)
}

func (s *VectorStore) Search(ctx context.Context, vector []float32, queryID string, topK int) ([]websearch.ScoredPoint, error) {
	return s.SearchFn(ctx, vector, queryID, topK)
}

func (s *VectorStore) DeleteByQuery(ctx context.Context, queryID string) error {
	return s.DeleteByQueryFn(ctx, queryID)
}

func (s *VectorStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return s.DeleteOlderThanFn(ctx, cutoff)
}

func (s *VectorStore) Stats(ctx context.Context) (*websearch.CollectionStats, error) {
	return s.StatsFn(ctx)
}
