package mock

import (
	"github.com/fwojciec/websearch"
)

var _ websearch.Converter = (*Converter)(nil)

// Converter is a mock implementation of websearch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
