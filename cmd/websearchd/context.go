package main

import (
	"fmt"

	"github.com/fwojciec/websearch"
)

// Run executes the context command.
func (c *ContextCmd) Run(deps *Dependencies) error {
	req := &websearch.Request{
		Query:    c.Query,
		K:        c.K,
		Language: c.Lang,
	}

	var snippets []websearch.Snippet
	var err error
	if c.Lexical {
		snippets, err = deps.Service.LexicalContext(deps.Ctx, req)
	} else {
		snippets, err = deps.Service.Context(deps.Ctx, req)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", websearch.ErrorMessage(err))
		return err
	}

	if len(snippets) == 0 {
		fmt.Fprintln(deps.Stdout, "No context found.")
		return nil
	}

	for i, s := range snippets {
		if i > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintf(deps.Stdout, "[%d] %s\n%s\n%s\n", i+1, s.Title, s.URL, s.Snippet)
	}
	return nil
}
