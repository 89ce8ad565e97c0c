package scout

import (
	"context"
	"time"
)

// RawRecord is a loosely-typed record as produced by a source adapter,
// before normalization. Keys and value types vary per source; the
// normalizer is the only component that looks inside one.
type RawRecord map[string]any

// Source fetches raw records from one external backend: an HTTP API, a
// feed, or a curated list. Implementations must be independent of each
// other; a failing source never affects its siblings. Returning zero
// records is a legitimate result, not an error.
type Source interface {
	Fetch(ctx context.Context) ([]RawRecord, error)
}

// SourceConfig binds a source adapter to its identity and rate limit.
// The surrounding application supplies the full set per run; the engine
// does not discover adapters dynamically.
type SourceConfig struct {
	// ID tags every candidate produced by this source.
	ID string
	// MinInterval is the minimum spacing between fetch calls to this
	// source. Zero disables throttling for the source.
	MinInterval time.Duration
	Source      Source
}

// SourceLimiter throttles fetch calls per source. Wait blocks until the
// source's configured minimum interval has elapsed since the previous
// call for the same source ID. Sources do not interact.
type SourceLimiter interface {
	Wait(ctx context.Context, sourceID string) error
}

// Normalizer maps a source's raw record into the canonical Candidate.
// It fills defaults for missing optional attributes and returns EINVALID
// only when the record lacks the minimum identity fields.
type Normalizer interface {
	Normalize(raw RawRecord, sourceID string) (*Candidate, error)
}

// Scorer computes bounded sub-scores and the weighted overall score for a
// candidate. Scoring is pure: same candidate, same scores. It never fails;
// missing or invalid attributes yield the lowest valid sub-score.
type Scorer interface {
	Score(c *Candidate) (scores map[string]float64, overall float64)
}
