package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/scoutkit/scout"
)

// Compile-time interface verification.
var _ scout.CandidateService = (*CandidateService)(nil)

// CandidateService implements scout.CandidateService using SQLite.
type CandidateService struct {
	db *DB
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(db *DB) *CandidateService {
	return &CandidateService{db: db}
}

// candidateColumns is the scan/select column order used throughout.
const candidateColumns = `natural_key, title, description, long_text, source, event_date,
	price, audience, categories, attributes, scores, overall_score, status,
	discovered_at, updated_at`

// UpsertCandidate inserts the candidate if its natural key is unseen,
// otherwise merges the fresh attributes and scores into the existing row.
// DiscoveredAt and workflow status of an existing row are preserved;
// UpdatedAt is always refreshed. The passed candidate is updated to reflect
// the stored state.
func (s *CandidateService) UpsertCandidate(ctx context.Context, c *scout.Candidate) (bool, error) {
	if err := c.Validate(); err != nil {
		return false, err
	}

	now := time.Now().UTC()

	var storedDiscovered, storedStatus string
	err := s.db.QueryRowContext(ctx, `
		SELECT discovered_at, status FROM candidates WHERE natural_key = ?
	`, c.NaturalKey).Scan(&storedDiscovered, &storedStatus)

	if err == sql.ErrNoRows {
		if c.Status == "" {
			c.Status = scout.StatusNotApplied
		}
		c.DiscoveredAt = now
		c.UpdatedAt = now

		_, err := s.db.ExecContext(ctx, `
			INSERT INTO candidates (natural_key, title, description, long_text, source,
				event_date, price, audience, categories, attributes, scores,
				overall_score, status, discovered_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, c.NaturalKey, c.Title, c.Description, c.LongText, c.Source,
			formatEventDate(c.EventDate), c.Price, c.Audience,
			encodeJSON(c.Categories, "[]"), encodeJSON(c.Attributes, "{}"),
			encodeJSON(c.Scores, "{}"), c.OverallScore, string(c.Status),
			formatTimestamp(c.DiscoveredAt), formatTimestamp(c.UpdatedAt))
		if err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		return false, err
	}

	// Existing row: keep its discovery time and workflow status.
	c.DiscoveredAt, err = parseTimestamp(storedDiscovered, "discovered_at")
	if err != nil {
		return false, err
	}
	c.Status = scout.Status(storedStatus)
	c.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		UPDATE candidates
		SET title = ?, description = ?, long_text = ?, source = ?, event_date = ?,
			price = ?, audience = ?, categories = ?, attributes = ?, scores = ?,
			overall_score = ?, updated_at = ?
		WHERE natural_key = ?
	`, c.Title, c.Description, c.LongText, c.Source, formatEventDate(c.EventDate),
		c.Price, c.Audience, encodeJSON(c.Categories, "[]"),
		encodeJSON(c.Attributes, "{}"), encodeJSON(c.Scores, "{}"),
		c.OverallScore, formatTimestamp(c.UpdatedAt), c.NaturalKey)
	if err != nil {
		return false, err
	}
	return false, nil
}

// FindCandidateByKey retrieves a candidate by natural key.
func (s *CandidateService) FindCandidateByKey(ctx context.Context, key string) (*scout.Candidate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+candidateColumns+`
		FROM candidates
		WHERE natural_key = ?
	`, key)

	c, err := scanCandidate(row)
	if err == sql.ErrNoRows {
		return nil, scout.Errorf(scout.ENOTFOUND, "candidate not found")
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// FindCandidates retrieves candidates matching the filter, ordered per the
// filter's sort order.
func (s *CandidateService) FindCandidates(ctx context.Context, filter scout.CandidateFilter) ([]*scout.Candidate, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + candidateColumns + " FROM candidates WHERE 1=1")
	appendFilter(&query, &args, filter)

	switch filter.SortBy {
	case scout.SortByEventDate:
		// Candidates without a date sort last.
		query.WriteString(" ORDER BY CASE WHEN event_date = '' THEN 1 ELSE 0 END, event_date ASC, natural_key ASC")
	case scout.SortByDiscovered:
		query.WriteString(" ORDER BY discovered_at DESC, natural_key ASC")
	default:
		query.WriteString(" ORDER BY overall_score DESC, discovered_at DESC, natural_key ASC")
	}

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []*scout.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// CountCandidates returns the number of candidates matching the filter,
// ignoring pagination.
func (s *CandidateService) CountCandidates(ctx context.Context, filter scout.CandidateFilter) (int, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT COUNT(*) FROM candidates WHERE 1=1")
	appendFilter(&query, &args, filter)

	var count int
	if err := s.db.QueryRowContext(ctx, query.String(), args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateCandidateStatus advances the workflow state of a candidate.
func (s *CandidateService) UpdateCandidateStatus(ctx context.Context, key string, status scout.Status) (*scout.Candidate, error) {
	c, err := s.FindCandidateByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	if !c.Status.CanTransition(status) {
		return nil, scout.Errorf(scout.EINVALID, "cannot transition candidate from %q to %q", c.Status, status)
	}

	c.Status = status
	c.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE candidates SET status = ?, updated_at = ? WHERE natural_key = ?
	`, string(c.Status), formatTimestamp(c.UpdatedAt), key)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// appendFilter appends the WHERE clauses shared by FindCandidates and
// CountCandidates. All clauses are ANDed; membership within a clause is ORed.
func appendFilter(query *strings.Builder, args *[]any, filter scout.CandidateFilter) {
	if !filter.From.IsZero() {
		query.WriteString(" AND event_date >= ?")
		*args = append(*args, formatEventDate(filter.From))
	}
	if !filter.To.IsZero() {
		query.WriteString(" AND event_date != '' AND event_date <= ?")
		*args = append(*args, formatEventDate(filter.To))
	}
	if len(filter.Sources) > 0 {
		query.WriteString(" AND source IN (" + placeholders(len(filter.Sources)) + ")")
		for _, src := range filter.Sources {
			*args = append(*args, src)
		}
	}
	if len(filter.Statuses) > 0 {
		query.WriteString(" AND status IN (" + placeholders(len(filter.Statuses)) + ")")
		for _, st := range filter.Statuses {
			*args = append(*args, string(st))
		}
	}
	if len(filter.Categories) > 0 {
		query.WriteString(" AND EXISTS (SELECT 1 FROM json_each(candidates.categories)" +
			" WHERE json_each.value IN (" + placeholders(len(filter.Categories)) + "))")
		for _, cat := range filter.Categories {
			*args = append(*args, cat)
		}
	}
	if filter.MinScore != nil {
		query.WriteString(" AND overall_score >= ?")
		*args = append(*args, *filter.MinScore)
	}
	if filter.MaxPrice != nil {
		// Free or unpriced candidates pass a price ceiling.
		query.WriteString(" AND (price <= ? OR price = 0)")
		*args = append(*args, *filter.MaxPrice)
	}
	if filter.MinAudience != nil {
		query.WriteString(" AND audience >= ?")
		*args = append(*args, *filter.MinAudience)
	}
	if match := ftsQuery(filter.Keywords); match != "" {
		query.WriteString(" AND rowid IN (SELECT rowid FROM candidates_fts WHERE candidates_fts MATCH ?)")
		*args = append(*args, match)
	}
}

// scanner abstracts *sql.Row and *sql.Rows for scanCandidate.
type scanner interface {
	Scan(dest ...any) error
}

// scanCandidate reads one candidate row in candidateColumns order.
func scanCandidate(row scanner) (*scout.Candidate, error) {
	var c scout.Candidate
	var eventDate, categories, attributes, scores, status, discoveredAt, updatedAt string

	if err := row.Scan(&c.NaturalKey, &c.Title, &c.Description, &c.LongText,
		&c.Source, &eventDate, &c.Price, &c.Audience, &categories, &attributes,
		&scores, &c.OverallScore, &status, &discoveredAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.EventDate, err = parseEventDate(eventDate); err != nil {
		return nil, err
	}
	if c.DiscoveredAt, err = parseTimestamp(discoveredAt, "discovered_at"); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	c.Categories = decodeStrings(categories)
	c.Attributes = decodeAttributes(attributes)
	c.Scores = decodeScores(scores)
	c.Status = scout.Status(status)

	return &c, nil
}
