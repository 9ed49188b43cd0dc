package mock

import (
	"github.com/fwojciec/websearch"
)

var _ websearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of websearch.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*websearch.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*websearch.ExtractResult, error) {
	return e.ExtractFn(html)
}
