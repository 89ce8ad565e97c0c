package main

import (
	"fmt"
	"time"

	"github.com/scoutkit/scout/aggregate"
	"github.com/scoutkit/scout/normalize"
	"github.com/scoutkit/scout/score"
	scoutslog "github.com/scoutkit/scout/slog"
)

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	sources, err := loadSources(c.Config)
	if err != nil {
		return err
	}
	for i := range sources {
		sources[i].Source = scoutslog.NewLoggingSource(sources[i].Source, sources[i].ID, deps.Logger)
	}

	scorer, err := score.New(score.DefaultConfig(score.DefaultProfile()))
	if err != nil {
		return fmt.Errorf("build scorer: %w", err)
	}

	agg := &aggregate.Aggregator{
		Sources:     sources,
		Normalizer:  normalize.New(),
		Scorer:      scorer,
		Candidates:  deps.Candidates,
		Limiter:     aggregate.NewIntervalLimiter(sources),
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	summary, err := agg.Run(deps.Ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Run %s\n", summary.RunID)
	for _, r := range summary.Results {
		status := "ok"
		if r.Failed {
			status = "FAILED"
		}
		fmt.Fprintf(deps.Stdout, "  %-20s %s  fetched=%d upserted=%d new=%d skipped=%d in %s\n",
			r.SourceID, status, r.Fetched, r.Upserted, r.Created, r.Skipped, r.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(deps.Stdout, "Total: %d upserted, %d skipped, %d source failures\n",
		summary.TotalUpserted(), summary.TotalSkipped(), len(summary.Failures))

	for _, f := range summary.Failures {
		fmt.Fprintf(deps.Stderr, "warning: %s: %s\n", f.SourceID, f.Message)
	}
	return nil
}
