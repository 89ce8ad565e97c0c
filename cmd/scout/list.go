package main

import (
	"fmt"
	"time"

	"github.com/scoutkit/scout"
	"github.com/scoutkit/scout/score"
)

// Run executes the list command.
func (c *ListCmd) Run(deps *Dependencies) error {
	filter := scout.CandidateFilter{
		Sources:    c.Source,
		Categories: c.Category,
		Offset:     c.Offset,
		Limit:      c.Limit,
	}

	statuses, err := parseStatuses(c.Status)
	if err != nil {
		return err
	}
	filter.Statuses = statuses

	if c.MinScore >= 0 {
		filter.MinScore = &c.MinScore
	}
	if filter.From, err = parseDate(c.From, "--from"); err != nil {
		return err
	}
	if filter.To, err = parseDate(c.To, "--to"); err != nil {
		return err
	}

	candidates, err := deps.Candidates.FindCandidates(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scout.ErrorMessage(err))
		return err
	}

	if len(candidates) == 0 {
		fmt.Fprintln(deps.Stdout, "No candidates found. Use 'scout run' to aggregate sources.")
		return nil
	}

	printCandidates(deps, candidates)
	return nil
}

func printCandidates(deps *Dependencies, candidates []*scout.Candidate) {
	for _, c := range candidates {
		date := "          "
		if !c.EventDate.IsZero() {
			date = c.EventDate.Format("2006-01-02")
		}
		fmt.Fprintf(deps.Stdout, "%5s  %s  %-11s  %-14s  %s\n",
			score.String(c.OverallScore), date, c.Status, c.Source, c.Title)
	}
}

func parseStatuses(raw []string) ([]scout.Status, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	statuses := make([]scout.Status, len(raw))
	for i, s := range raw {
		status := scout.Status(s)
		if !status.Valid() {
			return nil, fmt.Errorf("unknown status %q", s)
		}
		statuses[i] = status
	}
	return statuses, nil
}

func parseDate(raw, flag string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: expected YYYY-MM-DD, got %q", flag, raw)
	}
	return t, nil
}
