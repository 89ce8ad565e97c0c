// Package csv exports candidate query results as CSV for spreadsheet
// review and sharing outside the tool.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/scoutkit/scout"
)

// header is the fixed column set, stable so downstream spreadsheets can
// rely on the order.
var header = []string{
	"natural_key",
	"title",
	"source",
	"event_date",
	"price",
	"audience",
	"categories",
	"overall_score",
	"status",
	"discovered_at",
	"description",
}

// Exporter writes candidates matching a filter to CSV.
type Exporter struct {
	candidates scout.CandidateService
}

// NewExporter creates an exporter backed by the given service.
func NewExporter(candidates scout.CandidateService) *Exporter {
	return &Exporter{candidates: candidates}
}

// Export queries candidates with the filter and writes them as CSV,
// header first. Returns the number of exported rows.
func (e *Exporter) Export(ctx context.Context, w io.Writer, filter scout.CandidateFilter) (int, error) {
	candidates, err := e.candidates.FindCandidates(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("query candidates: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	for _, c := range candidates {
		if err := cw.Write(row(c)); err != nil {
			return 0, fmt.Errorf("write row %s: %w", c.NaturalKey, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flush: %w", err)
	}
	return len(candidates), nil
}

func row(c *scout.Candidate) []string {
	eventDate := ""
	if !c.EventDate.IsZero() {
		eventDate = c.EventDate.Format("2006-01-02")
	}
	audience := ""
	if c.Audience > 0 {
		audience = strconv.Itoa(c.Audience)
	}
	return []string{
		c.NaturalKey,
		c.Title,
		c.Source,
		eventDate,
		strconv.FormatFloat(c.Price, 'f', -1, 64),
		audience,
		strings.Join(c.Categories, "; "),
		strconv.FormatFloat(c.OverallScore, 'f', 1, 64),
		string(c.Status),
		c.DiscoveredAt.Format(time.RFC3339),
		c.Description,
	}
}
