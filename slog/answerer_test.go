package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/mock"
	wsslog "github.com/fwojciec/websearch/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingAnswerer_Answer(t *testing.T) {
	t.Parallel()

	t.Run("logs query, source count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Answerer{
			AnswerFn: func(ctx context.Context, req *websearch.Request) (*websearch.Answer, error) {
				return &websearch.Answer{
					Summary: "Brasília é a capital.",
					Sources: []string{"https://example.com/brasilia"},
				}, nil
			},
		}

		answerer := wsslog.NewLoggingAnswerer(inner, logger)
		answer, err := answerer.Answer(context.Background(), &websearch.Request{Query: "capital do Brasil"})

		require.NoError(t, err)
		assert.Equal(t, "Brasília é a capital.", answer.Summary)
		output := buf.String()
		assert.Contains(t, output, "answer")
		assert.Contains(t, output, "query=\"capital do Brasil\"")
		assert.Contains(t, output, "sources=1")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Answerer{
			AnswerFn: func(ctx context.Context, req *websearch.Request) (*websearch.Answer, error) {
				return nil, websearch.Errorf(websearch.EINVALID, "query required")
			},
		}

		answerer := wsslog.NewLoggingAnswerer(inner, logger)
		_, err := answerer.Answer(context.Background(), &websearch.Request{})

		require.Error(t, err)
		assert.Contains(t, buf.String(), "level=ERROR")
	})
}

func TestLoggingAnswerer_Context(t *testing.T) {
	t.Parallel()

	t.Run("logs snippet count", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Answerer{
			ContextFn: func(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error) {
				return []websearch.Snippet{{URL: "https://example.com", Snippet: "trecho"}}, nil
			},
		}

		answerer := wsslog.NewLoggingAnswerer(inner, logger)
		snippets, err := answerer.Context(context.Background(), &websearch.Request{Query: "consulta"})

		require.NoError(t, err)
		assert.Len(t, snippets, 1)
		assert.Contains(t, buf.String(), "snippets=1")
	})
}
