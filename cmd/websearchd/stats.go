package main

import (
	"fmt"

	"github.com/fwojciec/websearch"
)

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	stats, err := deps.Index.Stats(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", websearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Points:  %d\n", stats.Points)
	fmt.Fprintf(deps.Stdout, "Vectors: %d\n", stats.Vectors)
	fmt.Fprintf(deps.Stdout, "Status:  %s\n", stats.Status)
	return nil
}
