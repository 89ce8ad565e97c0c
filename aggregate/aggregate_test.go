package aggregate_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scoutkit/scout"
	"github.com/scoutkit/scout/aggregate"
	"github.com/scoutkit/scout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughNormalizer maps url/title straight onto a candidate and fails
// records without a title, like the real normalizer.
func passthroughNormalizer() *mock.Normalizer {
	return &mock.Normalizer{
		NormalizeFn: func(raw scout.RawRecord, sourceID string) (*scout.Candidate, error) {
			title, _ := raw["title"].(string)
			if title == "" {
				return nil, scout.Errorf(scout.EINVALID, "record has no title")
			}
			url, _ := raw["url"].(string)
			return &scout.Candidate{NaturalKey: url, Title: title, Source: sourceID}, nil
		},
	}
}

func constantScorer() *mock.Scorer {
	return &mock.Scorer{
		ScoreFn: func(c *scout.Candidate) (map[string]float64, float64) {
			return map[string]float64{"relevance": 5}, 5
		},
	}
}

// memoryStore is an in-memory upsert recorder safe for the collector's
// single-writer access pattern.
type memoryStore struct {
	mu   sync.Mutex
	rows map[string]*scout.Candidate
}

func newMemoryStore() (*memoryStore, *mock.CandidateService) {
	store := &memoryStore{rows: map[string]*scout.Candidate{}}
	svc := &mock.CandidateService{
		UpsertCandidateFn: func(ctx context.Context, c *scout.Candidate) (bool, error) {
			store.mu.Lock()
			defer store.mu.Unlock()
			_, exists := store.rows[c.NaturalKey]
			store.rows[c.NaturalKey] = c
			return !exists, nil
		},
	}
	return store, svc
}

func staticSource(records ...scout.RawRecord) *mock.Source {
	return &mock.Source{
		FetchFn: func(ctx context.Context) ([]scout.RawRecord, error) {
			return records, nil
		},
	}
}

func record(url, title string) scout.RawRecord {
	return scout.RawRecord{"url": url, "title": title}
}

func TestAggregator_Run(t *testing.T) {
	t.Parallel()

	t.Run("upserts every record from every source", func(t *testing.T) {
		t.Parallel()

		store, svc := newMemoryStore()
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "eventbrite", Source: staticSource(
					record("https://example.com/a", "Conf A"),
					record("https://example.com/b", "Conf B"),
				)},
				{ID: "haro", Source: staticSource(
					record("https://example.com/c", "Query C"),
				)},
			},
			Normalizer: passthroughNormalizer(),
			Scorer:     constantScorer(),
			Candidates: svc,
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, summary.TotalUpserted())
		assert.Len(t, store.rows, 3)
		assert.Empty(t, summary.Failures)
		assert.NotEmpty(t, summary.RunID)
		require.Len(t, summary.Results, 2)
		assert.Equal(t, "eventbrite", summary.Results[0].SourceID)
		assert.Equal(t, 2, summary.Results[0].Upserted)
		assert.Equal(t, 2, summary.Results[0].Created)
		assert.Equal(t, 1, summary.Results[1].Upserted)
	})

	t.Run("one failing source never affects the others", func(t *testing.T) {
		t.Parallel()

		store, svc := newMemoryStore()
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "good-1", Source: staticSource(record("https://example.com/a", "A"))},
				{ID: "broken", Source: &mock.Source{
					FetchFn: func(ctx context.Context) ([]scout.RawRecord, error) {
						return nil, errors.New("connection refused")
					},
				}},
				{ID: "good-2", Source: staticSource(record("https://example.com/b", "B"))},
			},
			Normalizer:  passthroughNormalizer(),
			Scorer:      constantScorer(),
			Candidates:  svc,
			RetryDelays: []time.Duration{}, // no backoff in tests
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)

		assert.Len(t, store.rows, 2, "candidates from healthy sources are upserted")
		require.Len(t, summary.Failures, 1, "exactly one failure entry for the broken source")
		assert.Equal(t, "broken", summary.Failures[0].SourceID)
		assert.Contains(t, summary.Failures[0].Message, "connection refused")
		assert.True(t, summary.Results[1].Failed)
	})

	t.Run("empty source is a result, not a failure", func(t *testing.T) {
		t.Parallel()

		_, svc := newMemoryStore()
		agg := &aggregate.Aggregator{
			Sources:    []scout.SourceConfig{{ID: "stub", Source: staticSource()}},
			Normalizer: passthroughNormalizer(),
			Scorer:     constantScorer(),
			Candidates: svc,
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)
		assert.Empty(t, summary.Failures)
		assert.Equal(t, 0, summary.Results[0].Fetched)
		assert.False(t, summary.Results[0].Failed)
	})

	t.Run("skips records that fail normalization and keeps siblings", func(t *testing.T) {
		t.Parallel()

		store, svc := newMemoryStore()
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "feed", Source: staticSource(
					record("https://example.com/a", "A"),
					record("https://example.com/broken", ""), // no title
					record("https://example.com/b", "B"),
				)},
			},
			Normalizer: passthroughNormalizer(),
			Scorer:     constantScorer(),
			Candidates: svc,
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)

		assert.Len(t, store.rows, 2)
		assert.Equal(t, 1, summary.TotalSkipped())
		assert.Empty(t, summary.Failures)
	})

	t.Run("store failure is per record, not per run", func(t *testing.T) {
		t.Parallel()

		var upserts int
		svc := &mock.CandidateService{
			UpsertCandidateFn: func(ctx context.Context, c *scout.Candidate) (bool, error) {
				upserts++
				if c.NaturalKey == "https://example.com/poison" {
					return false, errors.New("disk full")
				}
				return true, nil
			},
		}
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "feed", Source: staticSource(
					record("https://example.com/a", "A"),
					record("https://example.com/poison", "Poison"),
					record("https://example.com/b", "B"),
				)},
			},
			Normalizer: passthroughNormalizer(),
			Scorer:     constantScorer(),
			Candidates: svc,
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, upserts, "processing continues past the failed record")
		assert.Equal(t, 2, summary.Results[0].Upserted)
		require.Len(t, summary.Failures, 1)
		assert.Contains(t, summary.Failures[0].Message, "disk full")
	})

	t.Run("assigns scores before upserting", func(t *testing.T) {
		t.Parallel()

		var got *scout.Candidate
		svc := &mock.CandidateService{
			UpsertCandidateFn: func(ctx context.Context, c *scout.Candidate) (bool, error) {
				got = c
				return true, nil
			},
		}
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "feed", Source: staticSource(record("https://example.com/a", "A"))},
			},
			Normalizer: passthroughNormalizer(),
			Scorer: &mock.Scorer{
				ScoreFn: func(c *scout.Candidate) (map[string]float64, float64) {
					return map[string]float64{"relevance": 8, "audience": 4}, 6.8
				},
			},
			Candidates: svc,
		}

		_, err := agg.Run(context.Background())
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 6.8, got.OverallScore)
		assert.Equal(t, 8.0, got.Scores["relevance"])
	})

	t.Run("parallel fetch keeps a single store writer", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var inWrite bool
		svc := &mock.CandidateService{
			UpsertCandidateFn: func(ctx context.Context, c *scout.Candidate) (bool, error) {
				mu.Lock()
				require.False(t, inWrite, "concurrent store write detected")
				inWrite = true
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inWrite = false
				mu.Unlock()
				return true, nil
			},
		}

		sources := make([]scout.SourceConfig, 4)
		for i := range sources {
			id := string(rune('a' + i))
			sources[i] = scout.SourceConfig{ID: id, Source: staticSource(
				record("https://example.com/"+id, "Item "+id),
			)}
		}

		agg := &aggregate.Aggregator{
			Sources:     sources,
			Normalizer:  passthroughNormalizer(),
			Scorer:      constantScorer(),
			Candidates:  svc,
			Concurrency: 4,
		}

		summary, err := agg.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, summary.TotalUpserted())
	})

	t.Run("waits on the limiter once per source", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		waited := map[string]int{}
		_, svc := newMemoryStore()
		agg := &aggregate.Aggregator{
			Sources: []scout.SourceConfig{
				{ID: "one", Source: staticSource()},
				{ID: "two", Source: staticSource()},
			},
			Limiter: &mock.SourceLimiter{
				WaitFn: func(ctx context.Context, sourceID string) error {
					mu.Lock()
					waited[sourceID]++
					mu.Unlock()
					return nil
				},
			},
			Normalizer: passthroughNormalizer(),
			Scorer:     constantScorer(),
			Candidates: svc,
		}

		_, err := agg.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"one": 1, "two": 1}, waited)
	})

	t.Run("requires core collaborators", func(t *testing.T) {
		t.Parallel()

		agg := &aggregate.Aggregator{}
		_, err := agg.Run(context.Background())
		require.Error(t, err)
		assert.Equal(t, scout.EINVALID, scout.ErrorCode(err))
	})
}
