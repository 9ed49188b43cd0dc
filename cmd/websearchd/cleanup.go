package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/websearch"
)

// Run executes the cleanup command.
func (c *CleanupCmd) Run(deps *Dependencies) error {
	if c.MaxAgeHours <= 0 {
		return websearch.Errorf(websearch.EINVALID, "max age must be positive")
	}

	maxAge := time.Duration(c.MaxAgeHours * float64(time.Hour))
	deleted, err := deps.Index.CleanupByAge(deps.Ctx, maxAge)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", websearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted %d points older than %s.\n", deleted, maxAge)
	return nil
}
