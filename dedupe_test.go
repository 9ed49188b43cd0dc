package websearch_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/websearch"
	"github.com/stretchr/testify/assert"
)

func TestDeduplicator(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("conteúdo relevante ", 20) // well over 200 chars

	t.Run("accepts first occurrence and trims", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(0)

		got, ok := d.Accept("  " + long + "  ")

		assert.True(t, ok)
		assert.Equal(t, strings.TrimSpace(long), got)
		assert.Equal(t, 1, d.Len())
	})

	t.Run("rejects exact duplicate in same namespace", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(0)

		_, ok := d.Accept(long)
		assert.True(t, ok)

		_, ok = d.Accept(long)
		assert.False(t, ok)
		assert.Equal(t, 1, d.Len())
	})

	t.Run("duplicate detection ignores surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(0)

		_, ok := d.Accept(long)
		assert.True(t, ok)

		_, ok = d.Accept("\n\t" + long + " ")
		assert.False(t, ok)
	})

	t.Run("rejects text under minimum length", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(200)

		_, ok := d.Accept("too short")

		assert.False(t, ok)
		assert.Equal(t, 0, d.Len())
	})

	t.Run("minimum length counts characters, not bytes", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(200)

		// 180 accented characters occupy 360 bytes; the floor must still
		// reject them.
		_, ok := d.Accept(strings.Repeat("ã", 180))
		assert.False(t, ok)

		trimmed, ok := d.Accept(strings.Repeat("ã", 200))
		assert.True(t, ok)
		assert.Equal(t, 200, utf8.RuneCountInString(trimmed))
	})

	t.Run("separate deduplicators do not share state", func(t *testing.T) {
		t.Parallel()

		a := websearch.NewDeduplicator(0)
		b := websearch.NewDeduplicator(0)

		_, ok := a.Accept(long)
		assert.True(t, ok)

		_, ok = b.Accept(long)
		assert.True(t, ok)
	})

	t.Run("indexing identical content twice yields no duplicates", func(t *testing.T) {
		t.Parallel()

		d := websearch.NewDeduplicator(0)
		texts := []string{long + "um.", long + "dois.", long + "um."}

		var accepted []string
		for _, txt := range texts {
			if got, ok := d.Accept(txt); ok {
				accepted = append(accepted, got)
			}
		}

		assert.Len(t, accepted, 2)
	})
}
