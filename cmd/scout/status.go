package main

import (
	"fmt"

	"github.com/scoutkit/scout"
)

// Run executes the status command.
func (c *StatusCmd) Run(deps *Dependencies) error {
	status := scout.Status(c.Status)
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", c.Status)
	}

	candidate, err := deps.Candidates.UpdateCandidateStatus(deps.Ctx, c.Key, status)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scout.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "%s -> %s  %s\n", candidate.NaturalKey, candidate.Status, candidate.Title)
	return nil
}
