package websearch

import (
	"context"
	"time"
)

// HistoryEntry records one answered query for the administrative surface.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Query      string    `json:"query"`
	Summary    string    `json:"summary"`
	Sources    []string  `json:"sources"`
	ChunkCount int       `json:"chunkCount"`
	Duration   float64   `json:"durationSeconds"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *HistoryEntry) Validate() error {
	if e.Query == "" {
		return Errorf(EINVALID, "history query required")
	}
	return nil
}

// HistoryService records answered queries. Recording is best-effort: the
// pipeline logs failures and moves on, it never fails a request over them.
type HistoryService interface {
	// CreateEntry records an answered query.
	CreateEntry(ctx context.Context, entry *HistoryEntry) error

	// RecentEntries returns up to limit entries, newest first.
	RecentEntries(ctx context.Context, limit int) ([]*HistoryEntry, error)

	// DeleteOlderThan removes entries created before cutoff and
	// returns how many were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
