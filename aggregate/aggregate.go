// Package aggregate orchestrates a scout run: for every configured source
// it rate-limits, fetches, normalizes, scores and upserts, collecting
// per-source failures without ever aborting the run. Idempotent upserts
// make at-least-once delivery safe to retry on the next run.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/scoutkit/scout"
	"golang.org/x/sync/errgroup"
)

// Aggregator runs the fetch, normalize, score, upsert pipeline.
type Aggregator struct {
	Sources    []scout.SourceConfig
	Normalizer scout.Normalizer
	Scorer     scout.Scorer
	Candidates scout.CandidateService

	// Limiter throttles fetches per source. Nil builds an IntervalLimiter
	// from the source configs.
	Limiter scout.SourceLimiter

	// Concurrency bounds parallel source fetches. At most Concurrency
	// sources are in flight; all store writes happen on the collecting
	// goroutine, so the store always has a single writer. Values < 2 mean
	// strictly sequential processing.
	Concurrency int

	// RetryDelays override the fetch backoff schedule. Nil means
	// DefaultRetryDelays.
	RetryDelays []time.Duration

	// Logger receives per-source progress. Nil discards.
	Logger *slog.Logger
}

// SourceFailure records one failure attributable to a source.
type SourceFailure struct {
	SourceID string `json:"sourceId"`
	Message  string `json:"message"`
}

// SourceResult summarizes one source's contribution to a run.
type SourceResult struct {
	SourceID string        `json:"sourceId"`
	Fetched  int           `json:"fetched"`
	Upserted int           `json:"upserted"`
	Created  int           `json:"created"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
	Failed   bool          `json:"failed"`
}

// Summary is the outcome of a run. A run is done once every configured
// source has been attempted, regardless of individual failures.
type Summary struct {
	RunID      string          `json:"runId"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Results    []SourceResult  `json:"results"`
	Failures   []SourceFailure `json:"failures"`
}

// TotalUpserted returns the number of candidates written across sources.
func (s *Summary) TotalUpserted() int {
	var n int
	for _, r := range s.Results {
		n += r.Upserted
	}
	return n
}

// TotalSkipped returns the number of records dropped by normalization.
func (s *Summary) TotalSkipped() int {
	var n int
	for _, r := range s.Results {
		n += r.Skipped
	}
	return n
}

// fetchResult carries one source's fetch outcome to the collector.
type fetchResult struct {
	index    int
	records  []scout.RawRecord
	duration time.Duration
	err      error
}

// Run executes one aggregation pass over every configured source.
// It returns an error only for invalid configuration or a canceled
// context; source and per-record failures are reported in the summary.
func (a *Aggregator) Run(ctx context.Context) (*Summary, error) {
	if a.Normalizer == nil || a.Scorer == nil || a.Candidates == nil {
		return nil, scout.Errorf(scout.EINVALID, "aggregator requires a normalizer, a scorer and a candidate store")
	}

	limiter := a.Limiter
	if limiter == nil {
		limiter = NewIntervalLimiter(a.Sources)
	}

	concurrency := a.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	logger := a.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	summary := &Summary{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Results:   make([]SourceResult, len(a.Sources)),
	}
	for i, cfg := range a.Sources {
		summary.Results[i].SourceID = cfg.ID
	}

	// Fetch workers feed the collector; the collector owns every store
	// write, so parallel fetching never produces concurrent writers.
	resultCh := make(chan fetchResult, len(a.Sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, cfg := range a.Sources {
			i, cfg := i, cfg
			g.Go(func() error {
				start := time.Now()
				records, err := a.fetchSource(gctx, limiter, cfg)
				resultCh <- fetchResult{
					index:    i,
					records:  records,
					duration: time.Since(start),
					err:      err,
				}
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	for fr := range resultCh {
		cfg := a.Sources[fr.index]
		result := &summary.Results[fr.index]
		result.Duration = fr.duration

		if fr.err != nil {
			result.Failed = true
			summary.Failures = append(summary.Failures, SourceFailure{
				SourceID: cfg.ID,
				Message:  fr.err.Error(),
			})
			logger.Error("source fetch failed", "source", cfg.ID, "err", fr.err)
			continue
		}

		result.Fetched = len(fr.records)
		a.processRecords(ctx, cfg.ID, fr.records, result, summary)
		logger.Info("source processed",
			"source", cfg.ID,
			"fetched", result.Fetched,
			"upserted", result.Upserted,
			"created", result.Created,
			"skipped", result.Skipped,
			"duration", fr.duration)
	}

	summary.FinishedAt = time.Now().UTC()
	return summary, ctx.Err()
}

// fetchSource rate-limits and fetches one source with retry.
func (a *Aggregator) fetchSource(ctx context.Context, limiter scout.SourceLimiter, cfg scout.SourceConfig) ([]scout.RawRecord, error) {
	if cfg.Source == nil {
		return nil, scout.Errorf(scout.EINVALID, "source %q has no adapter", cfg.ID)
	}
	if err := limiter.Wait(ctx, cfg.ID); err != nil {
		return nil, err
	}
	if a.RetryDelays == nil {
		return FetchWithRetry(ctx, cfg.ID, cfg.Source.Fetch, nil)
	}
	return FetchWithRetryDelays(ctx, cfg.ID, cfg.Source.Fetch, nil, a.RetryDelays)
}

// processRecords normalizes, scores and upserts one source's records.
// A record missing identity fields is skipped and counted; a store write
// failure is recorded as a failure for that record and processing
// continues, since the store's durability boundary is per record.
func (a *Aggregator) processRecords(ctx context.Context, sourceID string, records []scout.RawRecord, result *SourceResult, summary *Summary) {
	for _, raw := range records {
		c, err := a.Normalizer.Normalize(raw, sourceID)
		if err != nil {
			result.Skipped++
			continue
		}

		c.Scores, c.OverallScore = a.Scorer.Score(c)

		created, err := a.Candidates.UpsertCandidate(ctx, c)
		if err != nil {
			summary.Failures = append(summary.Failures, SourceFailure{
				SourceID: sourceID,
				Message:  fmt.Sprintf("upsert %s: %v", c.NaturalKey, err),
			})
			continue
		}
		result.Upserted++
		if created {
			result.Created++
		}
	}
}
