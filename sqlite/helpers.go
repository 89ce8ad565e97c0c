package sqlite

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// parseTimestamp parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseTimestamp(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// timestampLayout is a fixed-width UTC layout: all nine fractional digits
// are always rendered, so lexical comparison over the stored TEXT matches
// chronological order, which the discovered_at tie-break relies on.
// RFC3339Nano would drop trailing fractional zeros and break that property.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTimestamp renders a timestamp for storage.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// formatEventDate renders an event date for storage; zero dates become the
// empty string and sort before any real date.
func formatEventDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// parseEventDate is the inverse of formatEventDate.
func parseEventDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return parseTimestamp(value, "event_date")
}

// appendPagination appends LIMIT and OFFSET clauses to a query builder if
// values are > 0. SQLite only accepts OFFSET after a LIMIT clause, so an
// offset without a limit gets LIMIT -1 (unbounded).
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}

// encodeJSON marshals a value to its JSON storage form, substituting a
// fallback literal for nil or unmarshalable values.
func encodeJSON(v any, fallback string) string {
	if v == nil {
		return fallback
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

// decodeStrings unmarshals a stored JSON array of strings.
func decodeStrings(data string) []string {
	if data == "" || data == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil
	}
	return out
}

// decodeAttributes unmarshals a stored JSON attribute object.
func decodeAttributes(data string) map[string]any {
	out := map[string]any{}
	if data == "" {
		return out
	}
	_ = json.Unmarshal([]byte(data), &out)
	return out
}

// decodeScores unmarshals a stored JSON score object.
func decodeScores(data string) map[string]float64 {
	out := map[string]float64{}
	if data == "" {
		return out
	}
	_ = json.Unmarshal([]byte(data), &out)
	return out
}

// ftsQuery builds an FTS5 MATCH expression from free-text keywords.
// Each keyword becomes a quoted prefix phrase, so "roadmap" matches
// "roadmaps"; keywords are ORed within the clause.
func ftsQuery(keywords []string) string {
	terms := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		escaped := strings.ReplaceAll(kw, `"`, `""`)
		terms = append(terms, `"`+escaped+`"*`)
	}
	return strings.Join(terms, " OR ")
}

// placeholders returns a comma-separated list of n SQL placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
