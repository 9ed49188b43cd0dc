package main

import (
	"fmt"

	"github.com/fwojciec/websearch"
)

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	answer, err := deps.Answerer.Answer(deps.Ctx, &websearch.Request{
		Query:         c.Query,
		K:             c.K,
		Language:      c.Lang,
		FreshnessDays: c.Freshness,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", websearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, answer.Summary)
	if len(answer.Sources) > 0 {
		fmt.Fprintln(deps.Stdout)
		for _, src := range answer.Sources {
			fmt.Fprintf(deps.Stdout, "* %s\n", src)
		}
	}
	return nil
}
