// Package gemini implements summarization and embeddings using Google
// Gemini.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/fwojciec/websearch"
	"google.golang.org/genai"
)

const model = "gemini-2.5-flash"

// Ensure Summarizer implements websearch.Summarizer at compile time.
var _ websearch.Summarizer = (*Summarizer)(nil)

// Summarizer implements websearch.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
}

// NewSummarizer creates a new Summarizer.
func NewSummarizer(client *genai.Client) *Summarizer {
	return &Summarizer{client: client}
}

// Summarize answers the query from the retrieved context. The model is
// constrained to a JSON object with a single content field; the raw model
// text is returned and unwrapped downstream.
func (s *Summarizer) Summarize(ctx context.Context, contextText, query, language string, sources []string) (string, error) {
	if query == "" {
		return "", websearch.Errorf(websearch.EINVALID, "query required")
	}
	if contextText == "" {
		return "", websearch.Errorf(websearch.EINVALID, "context required")
	}

	prompt := BuildUserPrompt(contextText, query, sources)
	config := BuildConfig(language)

	result, err := s.client.Models.GenerateContent(ctx, model,
		[]*genai.Content{{
			Parts: []*genai.Part{{Text: prompt}},
		}},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", websearch.Errorf(websearch.EINTERNAL, "gemini returned nil result")
	}

	return result.Text(), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// The response schema pins the output to {"content": "..."}.
func BuildConfig(language string) *genai.GenerateContentConfig {
	if language == "" {
		language = websearch.DefaultLanguage
	}
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: fmt.Sprintf("You are an assistant that answers questions using only the web content provided. "+
					"Answer in %s. Be exhaustive and instructional: cover every relevant detail the context offers. "+
					"End the answer with a bulleted list of the source URLs you actually used, one '* <url>' per line. "+
					"If the context does not contain the answer, say so instead of guessing.", language),
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"content": {Type: genai.TypeString},
			},
			Required: []string{"content"},
		},
	}
}

// BuildUserPrompt builds the user prompt containing the retrieved context,
// the candidate sources, and the question.
func BuildUserPrompt(contextText, query string, sources []string) string {
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
