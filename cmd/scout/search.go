package main

import (
	"fmt"

	"github.com/scoutkit/scout"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	candidates, err := deps.Candidates.FindCandidates(deps.Ctx, scout.CandidateFilter{
		Keywords: c.Keywords,
		Limit:    c.Limit,
	})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scout.ErrorMessage(err))
		return err
	}

	if len(candidates) == 0 {
		fmt.Fprintln(deps.Stdout, "No matches.")
		return nil
	}

	printCandidates(deps, candidates)
	return nil
}
