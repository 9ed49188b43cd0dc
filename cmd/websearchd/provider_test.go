package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/config"
)

func TestBuildProvider_NoCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, provider := range []config.ProviderType{config.ProviderGemini, config.ProviderOpenAI} {
		t.Run(string(provider), func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Provider = provider

			embedder, summarizer, err := buildProvider(context.Background(), cfg, io.Discard)
			require.NoError(t, err, "a missing key must degrade, not fail startup")
			assert.Nil(t, embedder)
			require.IsType(t, &websearch.RawContextSummarizer{}, summarizer)

			got, err := summarizer.Summarize(context.Background(), "contexto recuperado", "pergunta", "pt-BR", nil)
			require.NoError(t, err)
			assert.Equal(t, "contexto recuperado", got)
		})
	}
}
