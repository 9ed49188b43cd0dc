// Package index embeds chunks and manages their lifecycle in the vector
// store: batch indexing, namespace-filtered retrieval, and cleanup of
// stale namespaces.
package index

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultWorkers is the number of concurrent embedding batches.
	DefaultWorkers = 4

	// DefaultBatchSize caps how many chunk texts go into one embedding call.
	DefaultBatchSize = 32

	// DefaultBatchTimeout bounds one embedding batch during indexing.
	DefaultBatchTimeout = 120 * time.Second

	// DefaultQueryTimeout bounds the single query embedding at retrieval.
	DefaultQueryTimeout = 60 * time.Second

	// DefaultHighWaterPoints is the collection size past which indexing
	// schedules an opportunistic age cleanup.
	DefaultHighWaterPoints = 10_000

	// DefaultMaxPointAge is how long indexed points are kept before the
	// background cleaner removes them.
	DefaultMaxPointAge = 24 * time.Hour
)

// Index coordinates the embedder and the vector store.
type Index struct {
	Embedder websearch.Embedder
	Store    websearch.VectorStore
	Logger   *slog.Logger

	Workers         int
	BatchSize       int
	BatchTimeout    time.Duration
	QueryTimeout    time.Duration
	HighWaterPoints int64
	MaxPointAge     time.Duration

	cleaning sync.Mutex
	wg       sync.WaitGroup
}

// IndexChunks embeds the chunk texts on a bounded worker pool and upserts
// all resulting points as one batch. It returns the number of points
// written. Empty input is a no-op.
func (ix *Index) IndexChunks(ctx context.Context, chunks []websearch.Chunk) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}

	workers := ix.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	batchSize := ix.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	batchTimeout := ix.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	if err := ix.Store.EnsureCollection(ctx, ix.Embedder.Dimensions()); err != nil {
		return 0, err
	}

	vectors := make([][]float32, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(chunks); start += batchSize {
		start := start
		end := min(start+batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, chunk := range chunks[start:end] {
				texts = append(texts, chunk.Text)
			}

			bctx, cancel := context.WithTimeout(gctx, batchTimeout)
			defer cancel()

			embedded, err := ix.Embedder.Embed(bctx, texts)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					return websearch.Errorf(websearch.ETIMEOUT, "Embedding batch timed out.")
				}
				return err
			}
			if len(embedded) != len(texts) {
				return websearch.Errorf(websearch.EINTERNAL, "embedder returned %d vectors for %d texts", len(embedded), len(texts))
			}
			copy(vectors[start:end], embedded)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	points := make([]websearch.Point, len(chunks))
	for i, chunk := range chunks {
		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		points[i] = websearch.Point{
			ID:     uuid.New().String(),
			Vector: vectors[i],
			Payload: websearch.Payload{
				URL:       chunk.URL,
				Title:     chunk.Title,
				Text:      chunk.Text,
				QueryID:   chunk.QueryID,
				CreatedAt: createdAt,
			},
		}
	}

	if err := ix.Store.Upsert(ctx, points); err != nil {
		return 0, err
	}

	ix.maybeScheduleCleanup(ctx)
	return len(points), nil
}

// Retrieve embeds the query and returns the topK most similar points in
// the query namespace. Retrieval never crosses namespaces: an empty
// namespace yields an empty result, not a fallback.
func (ix *Index) Retrieve(ctx context.Context, query, queryID string, topK int) ([]websearch.ScoredPoint, error) {
	queryTimeout := ix.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}

	qctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	embedded, err := ix.Embedder.Embed(qctx, []string{query})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, websearch.Errorf(websearch.ETIMEOUT, "Query embedding timed out.")
		}
		return nil, err
	}
	if len(embedded) != 1 {
		return nil, websearch.Errorf(websearch.EINTERNAL, "embedder returned %d vectors for one query", len(embedded))
	}

	return ix.Store.Search(ctx, embedded[0], queryID, topK)
}

// CleanupByQuery removes the namespace of one answered query.
func (ix *Index) CleanupByQuery(ctx context.Context, queryID string) error {
	return ix.Store.DeleteByQuery(ctx, queryID)
}

// CleanupByAge removes points older than maxAge and returns how many were
// removed.
func (ix *Index) CleanupByAge(ctx context.Context, maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		maxAge = ix.MaxPointAge
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxPointAge
	}
	return ix.Store.DeleteOlderThan(ctx, time.Now().UTC().Add(-maxAge))
}

// Stats reports the state of the backing collection.
func (ix *Index) Stats(ctx context.Context) (*websearch.CollectionStats, error) {
	return ix.Store.Stats(ctx)
}

// Wait blocks until any background cleanup in flight has finished.
// Intended for shutdown and tests.
func (ix *Index) Wait() {
	ix.wg.Wait()
}

// maybeScheduleCleanup launches a detached age cleanup when the collection
// has grown past the high-water mark. Failures are logged, never
// propagated: cleanup must not affect the request that triggered it.
func (ix *Index) maybeScheduleCleanup(ctx context.Context) {
	highWater := ix.HighWaterPoints
	if highWater <= 0 {
		highWater = DefaultHighWaterPoints
	}

	stats, err := ix.Store.Stats(ctx)
	if err != nil || stats.Points <= highWater {
		return
	}

	if !ix.cleaning.TryLock() {
		return
	}
	ix.wg.Add(1)
	go func() {
		defer ix.wg.Done()
		defer ix.cleaning.Unlock()

		cctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		deleted, err := ix.CleanupByAge(cctx, ix.MaxPointAge)
		if err != nil {
			ix.logger().Error("background cleanup", "err", err)
			return
		}
		ix.logger().Info("background cleanup", "deleted", deleted)
	}()
}

func (ix *Index) logger() *slog.Logger {
	if ix.Logger != nil {
		return ix.Logger
	}
	return slog.Default()
}
