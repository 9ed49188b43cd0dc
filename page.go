package websearch

import "context"

// PageContent holds the outcome of crawling a single URL through the
// external crawl provider. A failed crawl is represented as an unsuccessful
// PageContent, not an error: individual page failures are soft and must
// never abort a batch.
type PageContent struct {
	URL          string
	Markdown     string
	Success      bool
	StatusCode   int
	ErrorMessage string
}

// PageFetcher retrieves extracted page content from URLs.
// Implementations call an external crawl service and normalize its
// response shapes at this one boundary.
type PageFetcher interface {
	// Fetch returns the extracted content for the URL. Transport
	// failures, timeouts, and empty extractions are reported through the
	// returned PageContent; the error return is reserved for malformed
	// requests and context cancellation.
	Fetch(ctx context.Context, url string) (*PageContent, error)
}

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, ads) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Used as the last-resort extraction path when the crawl provider returns
// raw HTML instead of markdown.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	Extract(html string) (*ExtractResult, error)
}

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	Convert(html string) (string, error)
}

// DomainLimiter rate limits outgoing requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to the domain is allowed or the
	// context is canceled.
	Wait(ctx context.Context, domain string) error
}

// Document is a crawled page that survived content-floor filtering and is
// ready for chunking. Documents keep the position of the search result
// they came from so downstream output preserves search order.
type Document struct {
	URL      string
	Title    string
	Markdown string
	Position int
}
