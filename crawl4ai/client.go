// Package crawl4ai provides a websearch.PageFetcher backed by a Crawl4AI
// service. The provider's variable response shapes (bare object vs
// results-wrapped) are normalized here, at the boundary; nothing downstream
// branches on shape.
package crawl4ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fwojciec/websearch"
)

// Default timeouts for crawl requests.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultTimeout        = 30 * time.Second

	// DefaultMinContentChars is the floor below which the primary
	// content field is considered empty and alternate extraction
	// fields are attempted.
	DefaultMinContentChars = 50
)

// Ensure Client implements websearch.PageFetcher at compile time.
var _ websearch.PageFetcher = (*Client)(nil)

// Client fetches extracted page content from a Crawl4AI endpoint.
type Client struct {
	endpoint        string
	client          *http.Client
	converter       websearch.Converter
	extractor       websearch.Extractor
	connectTimeout  time.Duration
	timeout         time.Duration
	minContentChars int
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the total timeout for one crawl request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithConnectTimeout sets the connection timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(c *Client) { c.connectTimeout = d }
}

// WithConverter sets the HTML-to-markdown converter used when the provider
// returns cleaned HTML instead of markdown.
func WithConverter(conv websearch.Converter) Option {
	return func(c *Client) { c.converter = conv }
}

// WithExtractor sets the last-resort content extractor applied to the raw
// HTML field when every other field came back empty.
func WithExtractor(ex websearch.Extractor) Option {
	return func(c *Client) { c.extractor = ex }
}

// WithMinContentChars overrides the empty-content floor.
func WithMinContentChars(n int) Option {
	return func(c *Client) { c.minContentChars = n }
}

// NewClient creates a new Client for the Crawl4AI service at endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:        endpoint,
		connectTimeout:  DefaultConnectTimeout,
		timeout:         DefaultTimeout,
		minContentChars: DefaultMinContentChars,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{
			Timeout: c.timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: c.connectTimeout}).DialContext,
			},
		}
	}
	return c
}

// crawlRequest is the Crawl4AI Docker API request format.
type crawlRequest struct {
	URLs          []string      `json:"urls"`
	BrowserConfig typedParams   `json:"browser_config"`
	CrawlerConfig crawlerConfig `json:"crawler_config"`
}

type typedParams struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

type crawlerConfig struct {
	Type   string         `json:"type"`
	Params map[string]any `json:"params"`
}

// crawlDoc is one crawled document as returned by the provider.
type crawlDoc struct {
	Markdown         json.RawMessage `json:"markdown"`
	CleanedHTML      string          `json:"cleaned_html"`
	ExtractedContent string          `json:"extracted_content"`
	HTML             string          `json:"html"`
	Success          bool            `json:"success"`
	StatusCode       int             `json:"status_code"`
	ErrorMessage     string          `json:"error_message"`
}

// crawlEnvelope covers the results-wrapped response shape. The bare-object
// shape is decoded directly into crawlDoc.
type crawlEnvelope struct {
	Results []crawlDoc `json:"results"`
}

// Fetch crawls one URL. Per-URL failures (timeout, HTTP status, transport,
// empty content) are soft: they come back as an unsuccessful PageContent.
// The error return is reserved for context cancellation and malformed
// requests.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*websearch.PageContent, error) {
	if pageURL == "" {
		return nil, websearch.Errorf(websearch.EINVALID, "url required")
	}

	payload := crawlRequest{
		URLs: []string{pageURL},
		BrowserConfig: typedParams{
			Type:   "BrowserConfig",
			Params: map[string]any{"headless": true},
		},
		CrawlerConfig: crawlerConfig{
			Type: "CrawlerRunConfig",
			Params: map[string]any{
				"stream":               false,
				"cache_mode":           "bypass",
				"word_count_threshold": 100,
				"only_text":            false,
				"skip_internal_links":  true,
				"extraction_strategy": map[string]any{
					"type": "BM25ExtractionStrategy",
					"params": map[string]any{
						"top_k":                10,
						"word_count_threshold": 100,
					},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if isTimeout(err) {
			return failed(pageURL, 0, "timeout after "+c.timeout.String()), nil
		}
		return failed(pageURL, 0, "transport error: "+err.Error()), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failed(pageURL, resp.StatusCode, "HTTP "+resp.Status), nil
	}

	doc, err := decodeDoc(resp.Body)
	if err != nil {
		return failed(pageURL, resp.StatusCode, "decode response: "+err.Error()), nil
	}

	markdown := c.normalize(doc)
	if !c.longEnough(markdown) {
		msg := doc.ErrorMessage
		if msg == "" {
			msg = "empty content"
		}
		return &websearch.PageContent{
			URL:          pageURL,
			Success:      false,
			StatusCode:   doc.StatusCode,
			ErrorMessage: msg,
		}, nil
	}

	status := doc.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	return &websearch.PageContent{
		URL:        pageURL,
		Markdown:   markdown,
		Success:    true,
		StatusCode: status,
	}, nil
}

// decodeDoc normalizes the two provider response shapes into one document.
func decodeDoc(r io.Reader) (*crawlDoc, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}

	var envelope crawlEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Results) > 0 {
		return &envelope.Results[0], nil
	}

	var doc crawlDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// normalize walks the extraction ladder: the primary markdown field first,
// then cleaned_html through the converter, then extracted_content, then the
// raw html field through the extractor and converter.
func (c *Client) normalize(doc *crawlDoc) string {
	md := markdownField(doc.Markdown)
	if c.longEnough(md) {
		return md
	}

	if doc.CleanedHTML != "" && c.converter != nil {
		if converted, err := c.converter.Convert(doc.CleanedHTML); err == nil && c.longEnough(converted) {
			return converted
		}
	}

	if c.longEnough(doc.ExtractedContent) {
		return doc.ExtractedContent
	}

	if doc.HTML != "" && c.extractor != nil {
		extracted, err := c.extractor.Extract(doc.HTML)
		if err == nil && extracted.ContentHTML != "" && c.converter != nil {
			if converted, err := c.converter.Convert(extracted.ContentHTML); err == nil && c.longEnough(converted) {
				return converted
			}
		}
	}

	return md
}

// longEnough counts runes so accented text is measured the same way the
// configured floors are expressed.
func (c *Client) longEnough(s string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(s)) >= c.minContentChars
}

// markdownField tolerates both the plain-string and the object form of the
// provider's markdown field.
func markdownField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		RawMarkdown string `json:"raw_markdown"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.RawMarkdown
	}
	return ""
}

func failed(url string, status int, msg string) *websearch.PageContent {
	return &websearch.PageContent{
		URL:          url,
		Success:      false,
		StatusCode:   status,
		ErrorMessage: msg,
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Timeout()
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
