package websearch

import (
	"regexp"
	"sort"
	"strings"
)

// Relevance selection defaults.
const (
	DefaultRelevanceTopN   = 50
	DefaultTokenBudget     = 100000
	relevancePositionWords = 200
)

// stopWords are common Portuguese terms removed from queries before
// lexical scoring.
var stopWords = map[string]struct{}{
	"o": {}, "a": {}, "os": {}, "as": {}, "um": {}, "uma": {}, "uns": {}, "umas": {},
	"de": {}, "do": {}, "da": {}, "dos": {}, "das": {},
	"e": {}, "ou": {}, "mas": {}, "que": {}, "para": {}, "por": {}, "com": {},
	"em": {}, "no": {}, "na": {}, "nos": {}, "nas": {},
	"se": {}, "é": {}, "são": {}, "foi": {}, "ser": {}, "ter": {}, "tem": {},
	"seu": {}, "sua": {}, "seus": {}, "suas": {},
	"esse": {}, "essa": {}, "esses": {}, "essas": {},
	"este": {}, "esta": {}, "estes": {}, "estas": {},
	"aquele": {}, "aquela": {}, "aqueles": {}, "aquelas": {},
	"como": {}, "quando": {}, "onde": {}, "porque": {}, "qual": {}, "quais": {},
	"quanto": {}, "quantos": {}, "quanta": {}, "quantas": {},
}

// wordRe matches word runs, unicode-aware so accented terms survive.
var wordRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// RelevanceRetriever scores and selects chunks lexically, without a vector
// index. It is the cheaper retrieval path used for context-only responses.
//
// Per chunk the score combines Jaccard similarity of term sets (weight
// 0.5), query-term density in the chunk (0.3), a 0.2 boost when the full
// query phrase appears verbatim, and up to 0.1 proportional to the fraction
// of query terms appearing within the chunk's first 200 words. Scores cap
// at 1.0. Ties always resolve to original chunk order.
type RelevanceRetriever struct {
	// Size of the initial selection before budget trimming.
	// Defaults to DefaultRelevanceTopN.
	TopN int

	// Estimated token budget for SelectWithinBudget. Estimation is
	// text length divided by four. Defaults to DefaultTokenBudget.
	TokenBudget int
}

// Select returns up to TopN chunks ranked by relevance to the query.
// When the query has no scoreable terms the chunks are returned in their
// original order instead.
func (r *RelevanceRetriever) Select(chunks []Chunk, query string) []Chunk {
	topN := r.TopN
	if topN <= 0 {
		topN = DefaultRelevanceTopN
	}
	if len(chunks) == 0 {
		return nil
	}

	queryTerms := termSet(query)
	if len(queryTerms) == 0 {
		if len(chunks) > topN {
			chunks = chunks[:topN]
		}
		out := make([]Chunk, len(chunks))
		copy(out, chunks)
		return out
	}

	phrase := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		score float64
		index int
	}
	ranked := make([]scored, 0, len(chunks))
	for i, c := range chunks {
		if c.Text == "" {
			continue
		}
		ranked = append(ranked, scored{score: lexicalScore(c.Text, queryTerms, phrase), index: i})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].index < ranked[j].index
	})

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	out := make([]Chunk, 0, len(ranked))
	for _, s := range ranked {
		out = append(out, chunks[s.index])
	}
	return out
}

// SelectWithinBudget ranks chunks and then drops the lowest-ranked one at a
// time until the estimated token count fits the budget. Returns an empty
// selection when nothing fits.
func (r *RelevanceRetriever) SelectWithinBudget(chunks []Chunk, query string) []Chunk {
	budget := r.TokenBudget
	if budget <= 0 {
		budget = DefaultTokenBudget
	}

	selected := r.Select(chunks, query)
	for len(selected) > 0 && EstimateTokens(selected) > budget {
		selected = selected[:len(selected)-1]
	}
	return selected
}

// EstimateTokens approximates the token count of the chunk texts.
// Approximation: one token per four characters.
func EstimateTokens(chunks []Chunk) int {
	var chars int
	for _, c := range chunks {
		chars += len(c.Text)
	}
	return chars / 4
}

// lexicalScore computes the combined relevance score of a chunk text.
func lexicalScore(text string, queryTerms map[string]struct{}, phrase string) float64 {
	lower := strings.ToLower(text)
	textTerms := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(lower, -1) {
		textTerms[w] = struct{}{}
	}
	if len(textTerms) == 0 {
		return 0
	}

	var intersection int
	for term := range queryTerms {
		if _, ok := textTerms[term]; ok {
			intersection++
		}
	}
	union := len(queryTerms) + len(textTerms) - intersection

	jaccard := 0.0
	if union > 0 {
		jaccard = float64(intersection) / float64(union)
	}
	density := float64(intersection) / float64(len(textTerms))

	var phraseBoost float64
	if len(phrase) > 5 && strings.Contains(lower, phrase) {
		phraseBoost = 0.2
	}

	var positionBoost float64
	if len(queryTerms) > 0 {
		head := strings.Fields(lower)
		if len(head) > relevancePositionWords {
			head = head[:relevancePositionWords]
		}
		headTerms := make(map[string]struct{})
		for _, w := range wordRe.FindAllString(strings.Join(head, " "), -1) {
			headTerms[w] = struct{}{}
		}
		var early int
		for term := range queryTerms {
			if _, ok := headTerms[term]; ok {
				early++
			}
		}
		positionBoost = float64(early) / float64(len(queryTerms)) * 0.1
	}

	score := jaccard*0.5 + density*0.3 + phraseBoost + positionBoost
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// termSet tokenizes text to a lowercase word set with stop words removed.
func termSet(text string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		terms[w] = struct{}{}
	}
	return terms
}
