// Package mock provides function-field mock implementations of the scout
// domain interfaces for use in tests.
package mock

import (
	"context"

	"github.com/scoutkit/scout"
)

var _ scout.Source = (*Source)(nil)

// Source is a mock implementation of scout.Source.
type Source struct {
	FetchFn func(ctx context.Context) ([]scout.RawRecord, error)
}

func (s *Source) Fetch(ctx context.Context) ([]scout.RawRecord, error) {
	return s.FetchFn(ctx)
}

var _ scout.SourceLimiter = (*SourceLimiter)(nil)

// SourceLimiter is a mock implementation of scout.SourceLimiter.
type SourceLimiter struct {
	WaitFn func(ctx context.Context, sourceID string) error
}

func (l *SourceLimiter) Wait(ctx context.Context, sourceID string) error {
	return l.WaitFn(ctx, sourceID)
}

var _ scout.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of scout.Normalizer.
type Normalizer struct {
	NormalizeFn func(raw scout.RawRecord, sourceID string) (*scout.Candidate, error)
}

func (n *Normalizer) Normalize(raw scout.RawRecord, sourceID string) (*scout.Candidate, error) {
	return n.NormalizeFn(raw, sourceID)
}

var _ scout.Scorer = (*Scorer)(nil)

// Scorer is a mock implementation of scout.Scorer.
type Scorer struct {
	ScoreFn func(c *scout.Candidate) (map[string]float64, float64)
}

func (s *Scorer) Score(c *scout.Candidate) (map[string]float64, float64) {
	return s.ScoreFn(c)
}
