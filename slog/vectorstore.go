package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/websearch"
)

// Ensure LoggingVectorStore implements websearch.VectorStore.
var _ websearch.VectorStore = (*LoggingVectorStore)(nil)

// LoggingVectorStore wraps a VectorStore with operation logging.
type LoggingVectorStore struct {
	next   websearch.VectorStore
	logger *slog.Logger
}

// NewLoggingVectorStore creates a new LoggingVectorStore.
func NewLoggingVectorStore(next websearch.VectorStore, logger *slog.Logger) *LoggingVectorStore {
	return &LoggingVectorStore{next: next, logger: logger}
}

// EnsureCollection delegates to the wrapped store.
func (s *LoggingVectorStore) EnsureCollection(ctx context.Context, dimensions int) error {
	return s.next.EnsureCollection(ctx, dimensions)
}

// Upsert delegates to the wrapped store and logs the batch size.
func (s *LoggingVectorStore) Upsert(ctx context.Context, points []websearch.Point) error {
	begin := time.Now()
	err := s.next.Upsert(ctx, points)
	if err != nil {
		s.logger.Error("upsert", "points", len(points), "duration", time.Since(begin), "err", err)
		return err
	}
	s.logger.Info("upsert", "points", len(points), "duration", time.Since(begin))
	return nil
}

// Search delegates to the wrapped store and logs hit counts.
func (s *LoggingVectorStore) Search(ctx context.Context, vector []float32, queryID string, topK int) ([]websearch.ScoredPoint, error) {
	begin := time.Now()
	hits, err := s.next.Search(ctx, vector, queryID, topK)
	if err != nil {
		s.logger.Error("search", "query_id", queryID, "duration", time.Since(begin), "err", err)
		return nil, err
	}
	s.logger.Info("search", "query_id", queryID, "hits", len(hits), "duration", time.Since(begin))
	return hits, nil
}

// DeleteByQuery delegates to the wrapped store.
func (s *LoggingVectorStore) DeleteByQuery(ctx context.Context, queryID string) error {
	err := s.next.DeleteByQuery(ctx, queryID)
	if err != nil {
		s.logger.Error("delete by query", "query_id", queryID, "err", err)
		return err
	}
	s.logger.Info("delete by query", "query_id", queryID)
	return nil
}

// DeleteOlderThan delegates to the wrapped store and logs how many points
// were removed.
func (s *LoggingVectorStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	deleted, err := s.next.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("delete older than", "cutoff", cutoff, "err", err)
		return 0, err
	}
	s.logger.Info("delete older than", "cutoff", cutoff, "deleted", deleted)
	return deleted, nil
}

// Stats delegates to the wrapped store.
func (s *LoggingVectorStore) Stats(ctx context.Context) (*websearch.CollectionStats, error) {
	return s.next.Stats(ctx)
}
