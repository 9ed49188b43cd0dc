package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/websearch"
	"github.com/fwojciec/websearch/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Summarize_ReturnsErrorWhenQueryEmpty(t *testing.T) {
	t.Parallel()

	summarizer := gemini.NewSummarizer(nil) // nil client ok for this test

	_, err := summarizer.Summarize(context.Background(), "algum contexto", "", "pt-BR", nil)

	require.Error(t, err)
	assert.Equal(t, websearch.EINVALID, websearch.ErrorCode(err))
	assert.Contains(t, websearch.ErrorMessage(err), "query required")
}

func TestSummarizer_Summarize_ReturnsErrorWhenContextEmpty(t *testing.T) {
	t.Parallel()

	summarizer := gemini.NewSummarizer(nil)

	_, err := summarizer.Summarize(context.Background(), "", "qual a capital do Brasil", "pt-BR", nil)

	require.Error(t, err)
	assert.Equal(t, websearch.EINVALID, websearch.ErrorCode(err))
	assert.Contains(t, websearch.ErrorMessage(err), "context required")
}

func TestBuildConfig_SetsSystemInstruction(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("pt-BR")

	require.NotNil(t, config.SystemInstruction)
	require.Len(t, config.SystemInstruction.Parts, 1)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "only the web content provided")
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, "pt-BR")
}

func TestBuildConfig_DefaultsLanguage(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("")

	require.NotNil(t, config.SystemInstruction)
	assert.Contains(t, config.SystemInstruction.Parts[0].Text, websearch.DefaultLanguage)
}

func TestBuildConfig_ConstrainsResponseToJSON(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("pt-BR")

	assert.Equal(t, "application/json", config.ResponseMIMEType)
	require.NotNil(t, config.ResponseSchema)
	assert.Contains(t, config.ResponseSchema.Properties, "content")
	assert.Equal(t, []string{"content"}, config.ResponseSchema.Required)
}

func TestBuildConfig_SetsTemperature(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig("pt-BR")

	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, *config.Temperature, 0.001)
}

func TestBuildUserPrompt_ContainsContextSourcesAndQuestion(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildUserPrompt(
		"Brasília é a capital do Brasil.",
		"qual a capital do Brasil",
		[]string{"https://example.com/brasilia"},
	)

	assert.Contains(t, prompt, "<context>")
	assert.Contains(t, prompt, "Brasília é a capital do Brasil.")
	assert.Contains(t, prompt, "* https://example.com/brasilia")
	assert.Contains(t, prompt, "Question: qual a capital do Brasil")
}

func TestBuildUserPrompt_OmitsSourcesBlockWhenEmpty(t *testing.T) {
	t.Parallel()

	prompt := gemini.BuildUserPrompt("contexto", "consulta", nil)

	assert.NotContains(t, prompt, "<sources>")
}
