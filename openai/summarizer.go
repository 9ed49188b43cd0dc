// Package openai implements summarization and embeddings against OpenAI
// and OpenAI-compatible endpoints.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/websearch"
	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the chat model used for summarization.
const DefaultModel = "gpt-4o-mini"

// Ensure Summarizer implements websearch.Summarizer at compile time.
var _ websearch.Summarizer = (*Summarizer)(nil)

// Summarizer implements websearch.Summarizer using the Chat Completions
// API. Any endpoint speaking the OpenAI protocol works through
// openai.ClientConfig.BaseURL.
type Summarizer struct {
	client *openai.Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model falls back to
// DefaultModel.
func NewSummarizer(client *openai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize answers the query from the retrieved context. JSON mode pins
// the output to an object envelope; the raw model text is returned and
// unwrapped downstream.
func (s *Summarizer) Summarize(ctx context.Context, contextText, query, language string, sources []string) (string, error) {
	if query == "" {
		return "", websearch.Errorf(websearch.EINVALID, "query required")
	}
	if contextText == "" {
		return "", websearch.Errorf(websearch.EINVALID, "context required")
	}
	if language == "" {
		language = websearch.DefaultLanguage
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("You are an assistant that answers questions using only the web content provided. "+
					"Answer in %s. Be exhaustive and instructional: cover every relevant detail the context offers. "+
					"End the answer with a bulleted list of the source URLs you actually used, one '* <url>' per line. "+
					"If the context does not contain the answer, say so instead of guessing. "+
					`Respond with a JSON object of the form {"content": "<answer>"}.`, language),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildUserPrompt(contextText, query, sources),
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", websearch.Errorf(websearch.EINTERNAL, "openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// buildUserPrompt builds the user prompt containing the retrieved context,
// the candidate sources, and the question.
func buildUserPrompt(contextText, query string, sources []string) string {
	var sb strings.Builder
	sb.WriteString("<context>\n")
	sb.WriteString(contextText)
	sb.WriteString("\n</context>\n\n")
	if len(sources) > 0 {
		sb.WriteString("<sources>\n")
		for _, source := range sources {
			fmt.Fprintf(&sb, "* %s\n", source)
		}
		sb.WriteString("</sources>\n\n")
	}
	fmt.Fprintf(&sb, "Question: %s", query)
	return sb.String()
}
