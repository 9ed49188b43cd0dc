package websearch

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Source list bounds.
const (
	MaxSources            = 8
	FallbackSourceCount   = 4
	sourceBulletRawRegexp = `^\*\s+(https?://\S+)`
)

var sourceBulletRe = regexp.MustCompile(sourceBulletRawRegexp)

// ExtractSources parses citations out of synthesized text. Lines matching a
// "bullet + URL" pattern are collected as sources and removed from the
// prose body. When the text is a JSON envelope with a content field it is
// unwrapped first. If no citations are found, the first
// FallbackSourceCount fallback URLs are used instead. The returned source
// list preserves first-seen order, contains no repeats, and never exceeds
// MaxSources entries.
func ExtractSources(text string, fallback []string) (summary string, sources []string) {
	text = unwrapContentEnvelope(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if m := sourceBulletRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			sources = append(sources, m[1])
		} else {
			lines = append(lines, line)
		}
	}

	if len(sources) == 0 && len(fallback) > 0 {
		n := len(fallback)
		if n > FallbackSourceCount {
			n = FallbackSourceCount
		}
		sources = fallback[:n]
	}

	seen := make(map[string]struct{}, len(sources))
	deduped := make([]string, 0, len(sources))
	for _, url := range sources {
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		deduped = append(deduped, url)
		if len(deduped) >= MaxSources {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), deduped
}

// unwrapContentEnvelope returns the content field of a JSON object when the
// text looks like one; otherwise the text is returned unchanged. Synthesis
// providers configured for structured output reply with {"content": ...}.
func unwrapContentEnvelope(text string) string {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return text
	}

	var envelope struct {
		Content *string `json:"content"`
	}
	if err := json.Unmarshal([]byte(text), &envelope); err != nil || envelope.Content == nil {
		return text
	}
	return *envelope.Content
}
