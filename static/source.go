// Package static provides a source backed by a fixed, curated list of
// records. Hand-maintained target lists (dream podcasts, must-attend
// conferences) enter the pipeline through it and get the same
// normalization, dedup and scoring as records from live providers.
package static

import (
	"context"

	"github.com/scoutkit/scout"
)

var _ scout.Source = (*Source)(nil)

// Source yields a fixed set of records on every fetch. Upserts are
// idempotent, so re-running an aggregation over the same curated list is
// harmless.
type Source struct {
	records []scout.RawRecord
}

// NewSource creates a source over the given records.
func NewSource(records ...scout.RawRecord) *Source {
	return &Source{records: records}
}

// Fetch returns a copy of the curated records.
func (s *Source) Fetch(ctx context.Context) ([]scout.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]scout.RawRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}
