// Package pipeline orchestrates the answer flow: search fanout, crawl,
// chunking, namespace-scoped indexing, retrieval, and synthesis. Every
// upstream failure past request validation degrades into a user-facing
// answer instead of an error.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/websearch"
	"github.com/google/uuid"
)

// DefaultTopK is the number of chunks retrieved for synthesis.
const DefaultTopK = 8

// DegradedSourceCount is how many of the original search URLs accompany a
// degraded answer.
const DegradedSourceCount = 3

// Crawler turns search results into markdown documents.
type Crawler interface {
	Crawl(ctx context.Context, results []websearch.SearchResult) ([]websearch.Document, error)
}

// Indexer embeds chunks into a namespace and retrieves from it.
type Indexer interface {
	IndexChunks(ctx context.Context, chunks []websearch.Chunk) (int, error)
	Retrieve(ctx context.Context, query, queryID string, topK int) ([]websearch.ScoredPoint, error)
	CleanupByQuery(ctx context.Context, queryID string) error
}

// Ensure Service implements websearch.Answerer at compile time.
var _ websearch.Answerer = (*Service)(nil)

// Service implements websearch.Answerer.
type Service struct {
	Searcher websearch.Searcher
	Crawler  Crawler

	// Indexer may be nil when no embedding credential is configured;
	// Answer and Context then rank the deduplicated chunks lexically
	// instead of going through the vector store.
	Indexer Indexer

	Summarizer websearch.Summarizer
	History    websearch.HistoryService      // optional
	Relevance  *websearch.RelevanceRetriever // optional, for LexicalContext
	Splitter   websearch.Splitter
	Logger     *slog.Logger

	TopK          int
	MinChunkChars int

	wg sync.WaitGroup
}

// Answer runs the full pipeline. Each stage failure maps to a fixed
// degraded answer; the error return is reserved for invalid requests and
// context cancellation.
func (s *Service) Answer(ctx context.Context, req *websearch.Request) (*websearch.Answer, error) {
	if req == nil {
		return nil, websearch.Errorf(websearch.EINVALID, "request required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	started := time.Now()

	results, err := s.search(ctx, req)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, err
		}
		s.logger().Error("search", "query", req.Query, "err", err)
		return &websearch.Answer{Summary: websearch.MsgUnexpected}, nil
	}
	if len(results) == 0 {
		return &websearch.Answer{Summary: websearch.MsgNoResults}, nil
	}
	urls := resultURLs(results)

	docs, err := s.Crawler.Crawl(ctx, results)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, err
		}
		if websearch.ErrorCode(err) == websearch.EEMPTY {
			return &websearch.Answer{Summary: websearch.MsgNoResults}, nil
		}
		s.logger().Error("crawl", "query", req.Query, "err", err)
		return &websearch.Answer{Summary: websearch.MsgUnexpected}, nil
	}

	queryID := uuid.New().String()
	chunks, err := s.buildChunks(ctx, docs, queryID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return &websearch.Answer{Summary: websearch.MsgNoRelevant, Sources: firstN(urls, DegradedSourceCount)}, nil
	}

	var contextText string
	var hitURLs []string
	if s.Indexer == nil {
		// No embedding credential: rank the deduplicated chunks
		// lexically and answer from that context directly.
		selected := s.relevance().SelectWithinBudget(chunks, req.Query)
		if len(selected) == 0 {
			return &websearch.Answer{Summary: websearch.MsgNoRelevant, Sources: firstN(urls, DegradedSourceCount)}, nil
		}
		contextText, hitURLs = buildChunkContext(selected)
	} else {
		if _, err := s.Indexer.IndexChunks(ctx, chunks); err != nil {
			if isCanceled(ctx, err) {
				return nil, err
			}
			s.logger().Error("index", "query", req.Query, "chunks", len(chunks), "err", err)
			return &websearch.Answer{Summary: websearch.MsgIndexError}, nil
		}
		defer s.cleanupAsync(queryID)

		hits, err := s.Indexer.Retrieve(ctx, req.Query, queryID, s.topK())
		if err != nil {
			if isCanceled(ctx, err) {
				return nil, err
			}
			s.logger().Error("retrieve", "query", req.Query, "err", err)
			return &websearch.Answer{Summary: websearch.MsgPipelineError, Sources: firstN(urls, DegradedSourceCount)}, nil
		}
		if len(hits) == 0 {
			return &websearch.Answer{Summary: websearch.MsgNoRelevant, Sources: firstN(urls, DegradedSourceCount)}, nil
		}

		contextText, hitURLs = buildContext(hits)
	}

	var summary string
	var sources []string
	raw, err := s.Summarizer.Summarize(ctx, contextText, req.Query, language(req), hitURLs)
	if err != nil {
		if isCanceled(ctx, err) {
			return nil, err
		}
		// Synthesis failures degrade to a bounded prefix of the raw
		// context; the request still succeeds.
		s.logger().Error("summarize", "query", req.Query, "err", err)
		summary = websearch.TruncateContext(contextText)
		sources = firstN(hitURLs, websearch.FallbackSourceCount)
	} else {
		summary, sources = websearch.ExtractSources(raw, hitURLs)
	}

	answer := &websearch.Answer{Summary: summary, Sources: sources}
	s.recordHistory(ctx, req.Query, answer, len(chunks), time.Since(started))
	return answer, nil
}

// Context runs the retrieval half of the pipeline and returns raw
// snippets. Empty stages yield empty results, not degraded messages.
func (s *Service) Context(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error) {
	if req == nil {
		return nil, websearch.Errorf(websearch.EINVALID, "request required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if s.Indexer == nil {
		return s.LexicalContext(ctx, req)
	}

	chunks, _, err := s.gatherChunks(ctx, req)
	if err != nil || len(chunks) == 0 {
		return nil, err
	}
	queryID := chunks[0].QueryID

	if _, err := s.Indexer.IndexChunks(ctx, chunks); err != nil {
		return nil, err
	}
	defer s.cleanupAsync(queryID)

	hits, err := s.Indexer.Retrieve(ctx, req.Query, queryID, s.topK())
	if err != nil {
		return nil, err
	}

	snippets := make([]websearch.Snippet, len(hits))
	for i, hit := range hits {
		snippets[i] = websearch.Snippet{
			URL:     hit.Point.Payload.URL,
			Title:   hit.Point.Payload.Title,
			Snippet: hit.Point.Payload.Text,
		}
	}
	return snippets, nil
}

// LexicalContext is the context variant that skips the vector store: the
// deduplicated chunks are ranked lexically against the query within a
// token budget.
func (s *Service) LexicalContext(ctx context.Context, req *websearch.Request) ([]websearch.Snippet, error) {
	if req == nil {
		return nil, websearch.Errorf(websearch.EINVALID, "request required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	chunks, _, err := s.gatherChunks(ctx, req)
	if err != nil || len(chunks) == 0 {
		return nil, err
	}

	selected := s.relevance().SelectWithinBudget(chunks, req.Query)

	snippets := make([]websearch.Snippet, len(selected))
	for i, chunk := range selected {
		snippets[i] = websearch.Snippet{
			URL:     chunk.URL,
			Title:   chunk.Title,
			Snippet: chunk.Text,
		}
	}
	return snippets, nil
}

// Wait blocks until any namespace cleanup in flight has finished.
// Intended for shutdown and tests.
func (s *Service) Wait() {
	s.wg.Wait()
}

// gatherChunks runs search, crawl, chunking, and dedup under a fresh
// query namespace. A batch where nothing survives returns empty chunks
// and the original search URLs.
func (s *Service) gatherChunks(ctx context.Context, req *websearch.Request) ([]websearch.Chunk, []string, error) {
	results, err := s.search(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	if len(results) == 0 {
		return nil, nil, nil
	}
	urls := resultURLs(results)

	docs, err := s.Crawler.Crawl(ctx, results)
	if err != nil {
		if websearch.ErrorCode(err) == websearch.EEMPTY {
			return nil, urls, nil
		}
		return nil, urls, err
	}

	queryID := uuid.New().String()
	chunks, err := s.buildChunks(ctx, docs, queryID)
	if err != nil {
		return nil, urls, err
	}
	return chunks, urls, nil
}

// buildChunks splits each document and deduplicates the chunk texts
// within the request's namespace.
func (s *Service) buildChunks(ctx context.Context, docs []websearch.Document, queryID string) ([]websearch.Chunk, error) {
	dedupe := websearch.NewDeduplicator(s.MinChunkChars)
	now := time.Now().UTC()

	var chunks []websearch.Chunk
	for _, doc := range docs {
		texts, err := s.Splitter.Split(ctx, doc.Markdown)
		if err != nil {
			return nil, err
		}
		for _, text := range texts {
			trimmed, ok := dedupe.Accept(text)
			if !ok {
				continue
			}
			chunks = append(chunks, websearch.Chunk{
				URL:       doc.URL,
				Title:     doc.Title,
				Text:      trimmed,
				QueryID:   queryID,
				CreatedAt: now,
			})
		}
	}
	return chunks, nil
}

func (s *Service) search(ctx context.Context, req *websearch.Request) ([]websearch.SearchResult, error) {
	return s.Searcher.Search(ctx, req.Query, websearch.SearchOptions{
		Limit:         req.K,
		Language:      language(req),
		FreshnessDays: req.FreshnessDays,
	})
}

// cleanupAsync removes the request's namespace in the background. Answers
// never wait on it and never fail over it.
func (s *Service) cleanupAsync(queryID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.Indexer.CleanupByQuery(ctx, queryID); err != nil {
			s.logger().Error("namespace cleanup", "query_id", queryID, "err", err)
		}
	}()
}

// recordHistory persists the answered query. Best-effort only.
func (s *Service) recordHistory(ctx context.Context, query string, answer *websearch.Answer, chunkCount int, duration time.Duration) {
	if s.History == nil {
		return
	}
	entry := &websearch.HistoryEntry{
		Query:      query,
		Summary:    answer.Summary,
		Sources:    answer.Sources,
		ChunkCount: chunkCount,
		Duration:   duration.Seconds(),
	}
	if err := s.History.CreateEntry(ctx, entry); err != nil {
		s.logger().Error("record history", "query", query, "err", err)
	}
}

func (s *Service) relevance() *websearch.RelevanceRetriever {
	if s.Relevance != nil {
		return s.Relevance
	}
	return &websearch.RelevanceRetriever{}
}

func (s *Service) topK() int {
	if s.TopK > 0 {
		return s.TopK
	}
	return DefaultTopK
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func language(req *websearch.Request) string {
	if req.Language != "" {
		return req.Language
	}
	return websearch.DefaultLanguage
}

func resultURLs(results []websearch.SearchResult) []string {
	urls := make([]string, len(results))
	for i, result := range results {
		urls[i] = result.URL
	}
	return urls
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

// buildContext joins the retrieved chunk texts and collects their unique
// URLs in hit order.
func buildContext(hits []websearch.ScoredPoint) (string, []string) {
	var sb strings.Builder
	seen := make(map[string]struct{})
	var urls []string
	for i, hit := range hits {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(hit.Point.Payload.Text)

		url := hit.Point.Payload.URL
		if _, ok := seen[url]; !ok && url != "" {
			seen[url] = struct{}{}
			urls = append(urls, url)
		}
	}
	return sb.String(), urls
}

// buildChunkContext joins lexically selected chunk texts and collects
// their unique URLs in selection order.
func buildChunkContext(chunks []websearch.Chunk) (string, []string) {
	var sb strings.Builder
	seen := make(map[string]struct{})
	var urls []string
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(chunk.Text)

		if _, ok := seen[chunk.URL]; !ok && chunk.URL != "" {
			seen[chunk.URL] = struct{}{}
			urls = append(urls, chunk.URL)
		}
	}
	return sb.String(), urls
}

// isCanceled reports whether err or the context reflects cancellation, in
// which case the error is returned to the caller instead of a degraded
// answer.
func isCanceled(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
