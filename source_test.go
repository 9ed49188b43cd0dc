package websearch_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fwojciec/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSources(t *testing.T) {
	t.Parallel()

	t.Run("extracts bullet URL lines and cleans body", func(t *testing.T) {
		t.Parallel()

		text := "Resumo da resposta.\n* https://example.com/a\nMais texto.\n* https://example.com/b"

		summary, sources := websearch.ExtractSources(text, nil)

		assert.Equal(t, "Resumo da resposta.\nMais texto.", summary)
		assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, sources)
	})

	t.Run("unwraps JSON content envelope", func(t *testing.T) {
		t.Parallel()

		text := `{"content": "Resposta sintetizada.\n* https://example.com/fonte"}`

		summary, sources := websearch.ExtractSources(text, nil)

		assert.Equal(t, "Resposta sintetizada.", summary)
		assert.Equal(t, []string{"https://example.com/fonte"}, sources)
	})

	t.Run("malformed JSON treated as plain text", func(t *testing.T) {
		t.Parallel()

		text := "{not valid json\n* https://example.com/x"

		summary, sources := websearch.ExtractSources(text, nil)

		assert.Equal(t, "{not valid json", summary)
		assert.Equal(t, []string{"https://example.com/x"}, sources)
	})

	t.Run("falls back to first four original URLs when no citations", func(t *testing.T) {
		t.Parallel()

		fallback := []string{"https://a.com", "https://b.com", "https://c.com", "https://d.com", "https://e.com"}

		summary, sources := websearch.ExtractSources("Sem citações aqui.", fallback)

		assert.Equal(t, "Sem citações aqui.", summary)
		assert.Equal(t, fallback[:4], sources)
	})

	t.Run("deduplicates preserving first-seen order", func(t *testing.T) {
		t.Parallel()

		text := strings.Join([]string{
			"* https://example.com/1",
			"* https://example.com/2",
			"* https://example.com/1",
			"* https://example.com/3",
			"* https://example.com/2",
		}, "\n")

		_, sources := websearch.ExtractSources(text, nil)

		assert.Equal(t, []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}, sources)
	})

	t.Run("caps at eight sources even with repeats in input", func(t *testing.T) {
		t.Parallel()

		var lines []string
		for i := 0; i < 20; i++ {
			lines = append(lines, fmt.Sprintf("* https://example.com/%d", i%12))
		}

		_, sources := websearch.ExtractSources(strings.Join(lines, "\n"), nil)

		assert.Len(t, sources, 8)
		seen := make(map[string]bool)
		for _, s := range sources {
			assert.False(t, seen[s], "source %s repeated", s)
			seen[s] = true
		}
	})

	t.Run("no citations and no fallback yields empty list", func(t *testing.T) {
		t.Parallel()

		summary, sources := websearch.ExtractSources("Apenas prosa.", nil)

		assert.Equal(t, "Apenas prosa.", summary)
		assert.Empty(t, sources)
	})

	t.Run("indented bullets are still citations", func(t *testing.T) {
		t.Parallel()

		text := "Corpo.\n  * https://example.com/indentado"

		summary, sources := websearch.ExtractSources(text, nil)

		require.Len(t, sources, 1)
		assert.Equal(t, "https://example.com/indentado", sources[0])
		assert.Equal(t, "Corpo.", summary)
	})
}
