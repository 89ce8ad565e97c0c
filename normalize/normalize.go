// Package normalize maps loosely-typed source records into the canonical
// scout.Candidate. It computes a deterministic natural key, coerces value
// types, and fills defaults for missing optional attributes.
package normalize

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/scoutkit/scout"
)

// Well-known raw record keys consumed into typed Candidate fields.
// Everything else lands in the attribute map.
const (
	keyURL         = "url"
	keyTitle       = "title"
	keyDescription = "description"
	keyLongText    = "long_text"
	keyDate        = "date"
	keyPrice       = "price"
	keyAudience    = "audience"
	keyCategories  = "categories"
)

// Compile-time interface verification.
var _ scout.Normalizer = (*Normalizer)(nil)

// Normalizer implements scout.Normalizer.
type Normalizer struct{}

// New creates a new Normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize converts a raw record into a Candidate. It returns EINVALID only
// when the record lacks the minimum identity fields: a title plus either a
// URL or a date. Missing optional data never fails; it defaults.
func (n *Normalizer) Normalize(raw scout.RawRecord, sourceID string) (*scout.Candidate, error) {
	title := strings.TrimSpace(stringValue(raw[keyTitle]))
	if title == "" {
		return nil, scout.Errorf(scout.EINVALID, "record from %q has no title", sourceID)
	}

	rawURL := strings.TrimSpace(stringValue(raw[keyURL]))
	date, _ := timeValue(raw[keyDate])

	key := CanonicalURL(rawURL)
	if key == "" {
		if date.IsZero() {
			return nil, scout.Errorf(scout.EINVALID, "record %q from %q has neither URL nor date", title, sourceID)
		}
		key = fallbackKey(title, sourceID, date)
	}

	c := &scout.Candidate{
		NaturalKey:  key,
		Title:       title,
		Description: stringValue(raw[keyDescription]),
		LongText:    stringValue(raw[keyLongText]),
		Source:      sourceID,
		EventDate:   date,
		Categories:  stringsValue(raw[keyCategories]),
		Attributes:  map[string]any{},
	}

	if price, ok := floatValue(raw[keyPrice]); ok {
		c.Price = price
	}
	if audience, ok := floatValue(raw[keyAudience]); ok {
		c.Audience = int(audience)
	}

	for k, v := range raw {
		switch k {
		case keyURL, keyTitle, keyDescription, keyLongText, keyDate,
			keyPrice, keyAudience, keyCategories:
			continue
		}
		c.Attributes[k] = attributeValue(v)
	}
	if rawURL != "" {
		c.Attributes["source_url"] = rawURL
	}

	return c, nil
}

// CanonicalURL reduces a URL to its stable canonical form so that repeated
// fetches of the same item key to the same row: lowercase scheme and host,
// default ports, fragments and tracking parameters stripped, trailing slash
// trimmed. Returns "" if the input is not an absolute http(s) URL.
func CanonicalURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	if host == "" {
		return ""
	}

	path := strings.TrimSuffix(u.Path, "/")

	query := u.Query()
	for param := range query {
		if strings.HasPrefix(param, "utm_") || param == "fbclid" || param == "gclid" || param == "ref" {
			query.Del(param)
		}
	}

	canonical := scheme + "://" + host + path
	if encoded := query.Encode(); encoded != "" {
		canonical += "?" + encoded
	}
	return canonical
}

// fallbackKey derives a natural key for records without a URL. The title is
// casefolded and whitespace-collapsed first so that incidental formatting
// differences between fetches hash identically.
func fallbackKey(title, sourceID string, date time.Time) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(title), " "))
	h := xxhash.Sum64String(normalized + "|" + sourceID + "|" + date.UTC().Format("2006-01-02"))
	return fmt.Sprintf("%s:%016x", sourceID, h)
}

// stringValue coerces a raw value to a string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return ""
	}
}

// floatValue coerces a raw numeric value. The second return reports whether
// a usable number was present.
func floatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// stringsValue coerces a raw value to a list of strings. Absent or
// unrecognized values yield an empty list, never nil text splitting.
func stringsValue(v any) []string {
	switch val := v.(type) {
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := stringValue(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if val == "" {
			return []string{}
		}
		return []string{val}
	default:
		return []string{}
	}
}

// timeValue coerces a raw value to a time. Accepts time.Time, RFC3339, and
// plain dates.
func timeValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		val = strings.TrimSpace(val)
		if val == "" {
			return time.Time{}, false
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, val); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// attributeValue normalizes attribute values for storage: list values become
// []string, numbers stay numeric, everything else passes through.
func attributeValue(v any) any {
	switch v.(type) {
	case []string, []any:
		return stringsValue(v)
	default:
		return v
	}
}
