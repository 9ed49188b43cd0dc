package websearch_test

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fwojciec/websearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncateContext(t *testing.T) {
	t.Parallel()

	t.Run("short text passes through", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "contexto", websearch.TruncateContext("contexto"))
	})

	t.Run("long text is bounded", func(t *testing.T) {
		t.Parallel()

		got := websearch.TruncateContext(strings.Repeat("x", 5000))

		assert.Len(t, got, websearch.DegradedAnswerLimit)
	})

	t.Run("limit counts characters, not bytes", func(t *testing.T) {
		t.Parallel()

		// Accented text at the limit: more bytes than the limit, but not
		// more characters, so nothing is cut.
		exact := strings.Repeat("ã", websearch.DegradedAnswerLimit)
		assert.Equal(t, exact, websearch.TruncateContext(exact))

		got := websearch.TruncateContext(strings.Repeat("ã", websearch.DegradedAnswerLimit+100))
		assert.Equal(t, websearch.DegradedAnswerLimit, utf8.RuneCountInString(got))
		assert.True(t, utf8.ValidString(got))
		assert.True(t, strings.HasSuffix(got, "ã"))
	})
}

func TestRawContextSummarizer(t *testing.T) {
	t.Parallel()

	s := &websearch.RawContextSummarizer{}

	got, err := s.Summarize(context.Background(), "contexto recuperado", "pergunta", "pt-BR", nil)
	require.NoError(t, err)
	assert.Equal(t, "contexto recuperado", got)

	got, err = s.Summarize(context.Background(), strings.Repeat("x", 5000), "pergunta", "pt-BR", nil)
	require.NoError(t, err)
	assert.Len(t, got, websearch.DegradedAnswerLimit)
}
