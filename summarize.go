package websearch

import (
	"context"
	"unicode/utf8"
)

// Summarizer compresses retrieved context into a cited answer using an LLM.
type Summarizer interface {
	// Summarize issues one generation call with a fixed system
	// instruction: use only the supplied context, answer in the target
	// language, be exhaustive and instructional, cite sources, and say
	// so when the context does not cover the question. The reply is a
	// structured JSON envelope with a single content field.
	//
	// Errors are reported as-is; callers degrade to a bounded prefix of
	// the raw context rather than failing the request.
	Summarize(ctx context.Context, contextText, query, language string, sources []string) (string, error)
}

// DegradedAnswerLimit bounds the raw-context prefix returned when
// synthesis is unavailable or fails.
const DegradedAnswerLimit = 1000

// Ensure RawContextSummarizer implements Summarizer at compile time.
var _ Summarizer = (*RawContextSummarizer)(nil)

// RawContextSummarizer is the no-credential synthesis fallback: it never
// issues an LLM call and instead returns a bounded prefix of the retrieved
// context, leaving source attribution to the caller's URL fallback. Wired
// in place of a provider summarizer when no API key is configured, so the
// service still answers from retrieval alone.
type RawContextSummarizer struct{}

// Summarize returns at most DegradedAnswerLimit characters of the context.
func (s *RawContextSummarizer) Summarize(_ context.Context, contextText, _, _ string, _ []string) (string, error) {
	return TruncateContext(contextText), nil
}

// TruncateContext returns at most DegradedAnswerLimit characters of text,
// the degraded answer used when no synthesis is possible. The limit counts
// runes, not bytes, so accented text is not short-changed.
func TruncateContext(text string) string {
	if utf8.RuneCountInString(text) <= DegradedAnswerLimit {
		return text
	}
	seen := 0
	for i := range text {
		if seen == DegradedAnswerLimit {
			return text[:i]
		}
		seen++
	}
	return text
}
