package websearch

import (
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// DefaultMinChunkChars is the floor below which a trimmed chunk text is
// discarded as noise.
const DefaultMinChunkChars = 200

// Deduplicator filters chunk texts for a single query namespace. A text is
// accepted at most once; repeats and texts under the minimum length are
// discarded. Scope is strictly per-namespace: construct one Deduplicator
// per request, never share across namespaces.
//
// Seen texts are tracked by xxhash of the trimmed text rather than the
// text itself, keeping the working set small for large crawls.
type Deduplicator struct {
	minChars int
	seen     map[uint64]struct{}
}

// NewDeduplicator creates a Deduplicator with the given minimum trimmed
// length. Non-positive minChars falls back to DefaultMinChunkChars.
func NewDeduplicator(minChars int) *Deduplicator {
	if minChars <= 0 {
		minChars = DefaultMinChunkChars
	}
	return &Deduplicator{
		minChars: minChars,
		seen:     make(map[uint64]struct{}),
	}
}

// Accept reports whether the text should be kept, and returns the trimmed
// text to use. The first occurrence of a sufficiently long text is
// accepted; later identical texts are rejected.
func (d *Deduplicator) Accept(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < d.minChars {
		return "", false
	}

	h := xxhash.Sum64String(trimmed)
	if _, ok := d.seen[h]; ok {
		return "", false
	}
	d.seen[h] = struct{}{}

	return trimmed, true
}

// Len returns the number of accepted texts.
func (d *Deduplicator) Len() int {
	return len(d.seen)
}
