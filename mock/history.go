package mock

import (
	"context"
	"time"

	"github.com/fwojciec/websearch"
)

var _ websearch.HistoryService = (*HistoryService)(nil)

// HistoryService is a mock implementation of websearch.HistoryService.
type HistoryService struct {
	CreateEntryFn     func(ctx context.Context, entry *websearch.HistoryEntry) error
	RecentEntriesFn   func(ctx context.Context, limit int) ([]*websearch.HistoryEntry, error)
	DeleteOlderThanFn func(ctx context.Context, cutoff time.Time) (int, error)
}

func (s *HistoryService) CreateEntry(ctx context.Context, entry *websearch.HistoryEntry) error {
	return s.CreateEntryFn(ctx, entry)
}

func (s *HistoryService) RecentEntries(ctx context.Context, limit int) ([]*websearch.HistoryEntry, error) {
	return s.RecentEntriesFn(ctx, limit)
}

func (s *HistoryService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	return s.DeleteOlderThanFn(ctx, cutoff)
}
