package websearch

import (
	"context"
	"regexp"
	"strings"
	"time"
)

// Chunk represents a bounded, sentence-aligned slice of document text
// tagged with provenance and a query namespace.
type Chunk struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"text"`
	QueryID   string    `json:"queryId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Splitter defaults. Token counts are approximated by word counts.
const (
	DefaultMaxChunkTokens     = 800
	DefaultMinChunkTokens     = 100
	DefaultOverlapChunkTokens = 150

	// splitYieldEvery controls how often Split checks for context
	// cancellation while processing large documents.
	splitYieldEvery = 100
)

// sentenceEndRe matches end-of-sentence punctuation followed by whitespace.
var sentenceEndRe = regexp.MustCompile(`[.!?]+\s+`)

// Splitter splits document text into overlapping, sentence-aligned windows.
//
// Sentences are accumulated into a window until the next sentence would push
// the window past MaxTokens. The window then closes (becoming a chunk if it
// meets MinTokens) and the next window is seeded with the last OverlapTokens
// words of the closed window, producing deterministic lexical overlap across
// chunk boundaries. A lone sentence longer than MaxTokens is never split
// mid-sentence; it is emitted whole as its own chunk.
type Splitter struct {
	// Maximum window size in words. Defaults to DefaultMaxChunkTokens.
	MaxTokens int

	// Minimum window size in words for a closed window to become a
	// chunk. Defaults to DefaultMinChunkTokens.
	MinTokens int

	// Number of trailing words carried over into the next window.
	// Defaults to DefaultOverlapChunkTokens.
	OverlapTokens int
}

// Split breaks text into chunk texts. It checks for context cancellation
// periodically so large documents never monopolize the caller.
func (s *Splitter) Split(ctx context.Context, text string) ([]string, error) {
	maxTokens := s.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxChunkTokens
	}
	minTokens := s.MinTokens
	if minTokens <= 0 {
		minTokens = DefaultMinChunkTokens
	}
	overlap := s.OverlapTokens
	if overlap <= 0 {
		overlap = DefaultOverlapChunkTokens
	}
	if overlap >= maxTokens {
		overlap = maxTokens - 1
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []string
	var window []string // current window as words

	for i, sentence := range sentences {
		if i%splitYieldEvery == splitYieldEvery-1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		words := strings.Fields(sentence)
		if len(words) == 0 {
			continue
		}

		// An oversized sentence is emitted whole rather than split
		// mid-sentence.
		if len(words) > maxTokens {
			if len(window) >= minTokens {
				chunks = append(chunks, strings.Join(window, " "))
			}
			chunks = append(chunks, strings.Join(words, " "))
			window = tailWords(words, overlap)
			continue
		}

		if len(window)+len(words) > maxTokens {
			if len(window) >= minTokens {
				chunks = append(chunks, strings.Join(window, " "))
			}
			window = append(tailWords(window, overlap), words...)
			continue
		}

		window = append(window, words...)
	}

	// A trailing partial window is flushed only if it meets the minimum.
	if len(window) >= minTokens {
		chunks = append(chunks, strings.Join(window, " "))
	}

	return chunks, nil
}

// splitSentences splits text on end-of-sentence punctuation followed by
// whitespace, keeping the punctuation attached to the sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEndRe.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[start:loc[1]])
		if s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// tailWords returns the last n words of words, sharing no backing array
// with the input so appends by the caller cannot clobber a closed window.
func tailWords(words []string, n int) []string {
	if len(words) > n {
		words = words[len(words)-n:]
	}
	out := make([]string, len(words))
	copy(out, words)
	return out
}
