package csv_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/scoutkit/scout"
	scoutcsv "github.com/scoutkit/scout/csv"
	"github.com/scoutkit/scout/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes header and one row per candidate", func(t *testing.T) {
		t.Parallel()

		discovered := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
		svc := &mock.CandidateService{
			FindCandidatesFn: func(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error) {
				return []*scout.Candidate{
					{
						NaturalKey:   "https://example.com/conf",
						Title:        "ProductCon",
						Source:       "eventbrite",
						EventDate:    time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC),
						Price:        450,
						Audience:     1200,
						Categories:   []string{"conference", "product"},
						OverallScore: 7.25,
						Status:       scout.StatusNotApplied,
						DiscoveredAt: discovered,
						Description:  "Annual PM conference",
					},
					{
						NaturalKey:   "haro:pm-query",
						Title:        "Looking for PM voices",
						Source:       "haro",
						Status:       scout.StatusApplied,
						DiscoveredAt: discovered,
					},
				}, nil
			},
		}

		var buf bytes.Buffer
		n, err := scoutcsv.NewExporter(svc).Export(context.Background(), &buf, scout.CandidateFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, "natural_key", rows[0][0])
		assert.Equal(t, []string{
			"https://example.com/conf",
			"ProductCon",
			"eventbrite",
			"2026-10-05",
			"450",
			"1200",
			"conference; product",
			"7.2",
			"not_applied",
			"2026-08-01T10:00:00Z",
			"Annual PM conference",
		}, rows[1])

		// Zero-valued date and audience render empty, free price renders 0.
		assert.Equal(t, "", rows[2][3])
		assert.Equal(t, "0", rows[2][4])
		assert.Equal(t, "", rows[2][5])
	})

	t.Run("passes the filter through to the service", func(t *testing.T) {
		t.Parallel()

		var got scout.CandidateFilter
		svc := &mock.CandidateService{
			FindCandidatesFn: func(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error) {
				got = filter
				return nil, nil
			},
		}

		minScore := 5.0
		var buf bytes.Buffer
		_, err := scoutcsv.NewExporter(svc).Export(context.Background(), &buf, scout.CandidateFilter{
			Sources:  []string{"haro"},
			MinScore: &minScore,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"haro"}, got.Sources)
		require.NotNil(t, got.MinScore)
		assert.Equal(t, 5.0, *got.MinScore)
	})

	t.Run("query errors abort the export", func(t *testing.T) {
		t.Parallel()

		svc := &mock.CandidateService{
			FindCandidatesFn: func(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error) {
				return nil, errors.New("db locked")
			},
		}

		var buf bytes.Buffer
		_, err := scoutcsv.NewExporter(svc).Export(context.Background(), &buf, scout.CandidateFilter{})
		require.Error(t, err)
		assert.Zero(t, buf.Len(), "nothing written on failure")
	})
}
