// Package crawl fans search-result URLs out to the crawl provider with
// bounded concurrency and re-joins the surviving pages in their original
// search order.
package crawl

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/websearch"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultConcurrency is the number of URLs crawled in parallel.
	DefaultConcurrency = 5

	// DefaultMinDocumentChars is the minimum markdown length for a crawled
	// page to be kept. Shorter pages carry too little signal to chunk.
	DefaultMinDocumentChars = 300
)

// Pool crawls a batch of search results concurrently. Individual page
// failures are soft: a URL that fails or yields too little content is
// dropped, and the batch fails only when nothing survives.
type Pool struct {
	Fetcher          websearch.PageFetcher
	Limiter          websearch.DomainLimiter
	Concurrency      int
	MinDocumentChars int
	RetryDelays      []time.Duration
}

// crawlResult holds the outcome of processing a single URL.
type crawlResult struct {
	position int
	doc      *websearch.Document
	err      error
}

// Crawl fetches every search-result URL and returns the documents that
// produced usable content, in the order of the input results. It returns
// an EEMPTY error only when no URL yielded a document.
func (p *Pool) Crawl(ctx context.Context, results []websearch.SearchResult) ([]websearch.Document, error) {
	if len(results) == 0 {
		return nil, websearch.Errorf(websearch.EEMPTY, "No URLs to crawl.")
	}

	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	minChars := p.MinDocumentChars
	if minChars <= 0 {
		minChars = DefaultMinDocumentChars
	}

	resultCh := make(chan crawlResult, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, sr := range results {
			i, sr := i, sr
			g.Go(func() error {
				resultCh <- p.processURL(gctx, i, sr, minChars)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results in original position order.
	ordered := make([]*websearch.Document, len(results))
	for result := range resultCh {
		if result.err != nil {
			continue
		}
		ordered[result.position] = result.doc
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	docs := make([]websearch.Document, 0, len(results))
	for _, doc := range ordered {
		if doc == nil {
			continue
		}
		docs = append(docs, *doc)
	}

	if len(docs) == 0 {
		return nil, websearch.Errorf(websearch.EEMPTY, "No page returned usable content.")
	}

	return docs, nil
}

// processURL rate limits, fetches, and filters a single URL.
func (p *Pool) processURL(ctx context.Context, position int, sr websearch.SearchResult, minChars int) crawlResult {
	result := crawlResult{position: position}

	if p.Limiter != nil {
		if err := p.Limiter.Wait(ctx, hostOf(sr.URL)); err != nil {
			result.err = err
			return result
		}
	}

	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	page, err := FetchWithRetryDelays(ctx, sr.URL, p.Fetcher.Fetch, delays)
	if err != nil {
		result.err = err
		return result
	}
	if !page.Success {
		result.err = websearch.Errorf(websearch.EUNAVAILABLE, "Crawl failed for %s: %s", sr.URL, page.ErrorMessage)
		return result
	}

	markdown := strings.TrimSpace(page.Markdown)
	if utf8.RuneCountInString(markdown) < minChars {
		result.err = websearch.Errorf(websearch.EEMPTY, "Content below minimum length for %s.", sr.URL)
		return result
	}

	result.doc = &websearch.Document{
		URL:      sr.URL,
		Title:    sr.Title,
		Markdown: markdown,
		Position: position,
	}
	return result
}

// hostOf extracts the host for rate limiting, falling back to the raw
// string when the URL does not parse.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
