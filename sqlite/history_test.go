package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("creates and lists entries newest first", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHistoryService(mustOpenDB(t))

		now := time.Now().UTC()
		first := &websearch.HistoryEntry{
			Query:      "qual a capital do Brasil",
			Summary:    "Brasília é a capital do Brasil.",
			Sources:    []string{"https://example.com/brasilia"},
			ChunkCount: 12,
			Duration:   4.2,
			CreatedAt:  now.Add(-time.Hour),
		}
		second := &websearch.HistoryEntry{
			Query:     "população de Portugal",
			CreatedAt: now,
		}
		require.NoError(t, svc.CreateEntry(ctx, first))
		require.NoError(t, svc.CreateEntry(ctx, second))
		assert.NotEmpty(t, first.ID)

		entries, err := svc.RecentEntries(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "população de Portugal", entries[0].Query)
		assert.Equal(t, "qual a capital do Brasil", entries[1].Query)
		assert.Equal(t, []string{"https://example.com/brasilia"}, entries[1].Sources)
		assert.Equal(t, 12, entries[1].ChunkCount)
		assert.InDelta(t, 4.2, entries[1].Duration, 0.001)
	})

	t.Run("respects the limit", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHistoryService(mustOpenDB(t))

		for i := range 5 {
			entry := &websearch.HistoryEntry{
				Query:     "consulta",
				CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Minute),
			}
			require.NoError(t, svc.CreateEntry(ctx, entry))
		}

		entries, err := svc.RecentEntries(ctx, 3)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("rejects entries without a query", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHistoryService(mustOpenDB(t))

		err := svc.CreateEntry(ctx, &websearch.HistoryEntry{})
		require.Error(t, err)
		assert.Equal(t, websearch.EINVALID, websearch.ErrorCode(err))
	})

	t.Run("delete older than removes aged entries", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewHistoryService(mustOpenDB(t))

		now := time.Now().UTC()
		require.NoError(t, svc.CreateEntry(ctx, &websearch.HistoryEntry{
			Query:     "antiga",
			CreatedAt: now.Add(-48 * time.Hour),
		}))
		require.NoError(t, svc.CreateEntry(ctx, &websearch.HistoryEntry{
			Query:     "recente",
			CreatedAt: now,
		}))

		deleted, err := svc.DeleteOlderThan(ctx, now.Add(-24*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, deleted)

		entries, err := svc.RecentEntries(ctx, 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "recente", entries[0].Query)
	})
}
