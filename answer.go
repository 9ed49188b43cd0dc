package websearch

import "context"

// Degraded-answer messages. These are part of the service's user-facing
// contract and match the original deployment's language.
const (
	MsgNoResults     = "Não encontrei informação suficiente."
	MsgNoRelevant    = "Não encontrei informação relevante."
	MsgIndexError    = "Erro ao indexar conteúdo."
	MsgPipelineError = "Erro no processamento de informações."
	MsgUnexpected    = "Erro inesperado na busca."
)

// Request is a web search invocation.
type Request struct {
	// Query is the natural-language question or search terms.
	Query string `json:"query"`

	// K is the maximum number of initial search results, clamped to
	// [MinSearchLimit, MaxSearchLimit]. Zero means DefaultSearchLimit.
	K int `json:"k"`

	// Language is the preferred language for results and the summary.
	// Empty means DefaultLanguage.
	Language string `json:"lang"`

	// FreshnessDays optionally restricts the search to recent content.
	FreshnessDays int `json:"freshness_days"`
}

// Validate returns an error if the request contains invalid fields.
func (r *Request) Validate() error {
	if r.Query == "" {
		return Errorf(EINVALID, "query required")
	}
	if r.FreshnessDays < 0 {
		return Errorf(EINVALID, "freshness days must not be negative")
	}
	return nil
}

// Answer is the final output of the pipeline: a synthesized (or degraded)
// summary plus up to MaxSources unique cited URLs in first-seen order.
type Answer struct {
	Summary string   `json:"summary"`
	Sources []string `json:"sources"`
}

// Snippet is a single retrieved context fragment, returned by the
// context-only variant that skips synthesis.
type Snippet struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Answerer is the downstream surface of the retrieval pipeline.
type Answerer interface {
	// Answer runs the full pipeline and returns a cited summary.
	// Upstream failures surface as degraded answers, never as errors;
	// the error return is reserved for invalid requests and context
	// cancellation.
	Answer(ctx context.Context, req *Request) (*Answer, error)

	// Context runs the retrieval half of the pipeline only, returning
	// raw snippets without LLM synthesis.
	Context(ctx context.Context, req *Request) ([]Snippet, error)
}
