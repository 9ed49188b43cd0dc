package sqlite

import (
	"context"
	"encoding/binary"
	"math"
	"sort"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ websearch.VectorStore = (*VectorStore)(nil)

// VectorStore implements websearch.VectorStore using SQLite. Embeddings
// are stored as little-endian float32 blobs; similarity search loads the
// candidate rows for one query namespace and ranks them by cosine
// similarity in Go. Namespaces are small (one crawl batch), so a brute
// force scan is fast enough.
type VectorStore struct {
	db *DB

	dimensions int
}

// NewVectorStore creates a new VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// EnsureCollection records the embedding dimensionality. The backing table
// is created at Open, so this only validates and pins the dimension used
// to reject mismatched vectors later.
func (s *VectorStore) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return websearch.Errorf(websearch.EINVALID, "dimensions must be positive")
	}
	s.dimensions = dimensions
	return nil
}

// Upsert writes points as one batch inside a transaction. No-op on empty input.
func (s *VectorStore) Upsert(ctx context.Context, points []websearch.Point) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO points (id, query_id, url, title, text, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			query_id = excluded.query_id,
			url = excluded.url,
			title = excluded.title,
			text = excluded.text,
			embedding = excluded.embedding,
			created_at = excluded.created_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range points {
		if s.dimensions > 0 && len(p.Vector) != s.dimensions {
			return websearch.Errorf(websearch.EINVALID, "vector dimension mismatch: got %d, want %d", len(p.Vector), s.dimensions)
		}
		id := p.ID
		if id == "" {
			id = uuid.New().String()
		}
		createdAt := p.Payload.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		_, err := stmt.ExecContext(ctx, id, p.Payload.QueryID, p.Payload.URL, p.Payload.Title,
			p.Payload.Text, encodeEmbedding(p.Vector), createdAt.UTC().Format(time.RFC3339))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Search returns up to topK points in the query namespace ranked by cosine
// similarity, descending.
func (s *VectorStore) Search(ctx context.Context, vector []float32, queryID string, topK int) ([]websearch.ScoredPoint, error) {
	if topK <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, query_id, url, title, text, embedding, created_at
		FROM points
		WHERE query_id = ?
	`, queryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []websearch.ScoredPoint
	for rows.Next() {
		var p websearch.Point
		var embedding []byte
		var createdAt string

		if err := rows.Scan(&p.ID, &p.Payload.QueryID, &p.Payload.URL, &p.Payload.Title,
			&p.Payload.Text, &embedding, &createdAt); err != nil {
			return nil, err
		}

		p.Vector = decodeEmbedding(embedding)
		if p.Payload.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		score, ok := cosineSimilarity(vector, p.Vector)
		if !ok {
			continue
		}
		hits = append(hits, websearch.ScoredPoint{Point: p, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// DeleteByQuery removes all points of one namespace.
func (s *VectorStore) DeleteByQuery(ctx context.Context, queryID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM points WHERE query_id = ?", queryID)
	return err
}

// DeleteOlderThan removes all points created before cutoff and returns how
// many were removed. UTC RFC3339 strings compare lexicographically in
// timestamp order.
func (s *VectorStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM points WHERE created_at < ?",
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

// Stats returns collection counters.
func (s *VectorStore) Stats(ctx context.Context) (*websearch.CollectionStats, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM points").Scan(&count); err != nil {
		return nil, err
	}
	return &websearch.CollectionStats{
		Points:  count,
		Vectors: count,
		Status:  "green",
	}, nil
}

// encodeEmbedding encodes a float32 slice as a little-endian blob.
func encodeEmbedding(vec []float32) []byte {
	b := make([]byte, len(vec)*4)
	for i, v := range vec {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
	}
	return b
}

// decodeEmbedding decodes a blob produced by encodeEmbedding.
func decodeEmbedding(b []byte) []float32 {
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec
}

// cosineSimilarity computes cosine similarity between two vectors. The
// second return is false for mismatched dimensions or zero-magnitude
// vectors, which are skipped rather than failing the search.
func cosineSimilarity(a, b []float32) (float32, bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0, false
	}
	return float32(dot / (math.Sqrt(na2) * math.Sqrt(nb2))), true
}
