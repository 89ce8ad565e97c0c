package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scoutkit/scout"
	scoutcsv "github.com/scoutkit/scout/csv"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	filter := scout.CandidateFilter{Sources: c.Source}

	statuses, err := parseStatuses(c.Status)
	if err != nil {
		return err
	}
	filter.Statuses = statuses

	if c.MinScore >= 0 {
		filter.MinScore = &c.MinScore
	}

	var out io.Writer = deps.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return fmt.Errorf("create %s: %w", c.Out, err)
		}
		defer f.Close()
		out = f
	}

	n, err := scoutcsv.NewExporter(deps.Candidates).Export(deps.Ctx, out, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scout.ErrorMessage(err))
		return err
	}

	if c.Out != "" {
		fmt.Fprintf(deps.Stdout, "Exported %d candidates to %s\n", n, c.Out)
	}
	return nil
}
