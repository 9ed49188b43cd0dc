package sqlite

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ websearch.HistoryService = (*HistoryService)(nil)

// HistoryService implements websearch.HistoryService using SQLite.
type HistoryService struct {
	db *DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *DB) *HistoryService {
	return &HistoryService{db: db}
}

// CreateEntry records an answered query.
func (s *HistoryService) CreateEntry(ctx context.Context, entry *websearch.HistoryEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	entry.ID = uuid.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	sources, err := json.Marshal(entry.Sources)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO history (id, query, summary, sources, chunk_count, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Query, entry.Summary, string(sources), entry.ChunkCount,
		entry.Duration, entry.CreatedAt.UTC().Format(time.RFC3339))

	return err
}

// RecentEntries returns up to limit entries, newest first.
func (s *HistoryService) RecentEntries(ctx context.Context, limit int) ([]*websearch.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query, summary, sources, chunk_count, duration, created_at
		FROM history
		ORDER BY created_at DESC, id
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*websearch.HistoryEntry
	for rows.Next() {
		var entry websearch.HistoryEntry
		var sources string
		var createdAt string

		if err := rows.Scan(&entry.ID, &entry.Query, &entry.Summary, &sources,
			&entry.ChunkCount, &entry.Duration, &createdAt); err != nil {
			return nil, err
		}

		if err := json.Unmarshal([]byte(sources), &entry.Sources); err != nil {
			return nil, err
		}
		if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// DeleteOlderThan removes entries created before cutoff and returns how
// many were removed.
func (s *HistoryService) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM history WHERE created_at < ?",
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
