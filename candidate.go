package scout

import (
	"context"
	"time"
)

// Candidate is the canonical unit of aggregation: one conference, podcast,
// press query, paper or trend item, regardless of which source produced it.
type Candidate struct {
	// NaturalKey is stable across re-fetches of the same real-world item:
	// a canonical URL where one exists, otherwise a hash of the identity
	// fields. The store upserts by this key.
	NaturalKey string `json:"naturalKey"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// LongText is extracted long-form text (an abstract, requirements
	// blurb, show notes). Indexed for full-text search alongside title
	// and description. Empty when the source has none.
	LongText string `json:"longText"`

	// Source identifies the adapter that produced this candidate.
	Source string `json:"source"`

	// EventDate is the date the item is anchored to (conference start,
	// episode publication, submission deadline). Zero when unknown.
	EventDate time.Time `json:"eventDate"`

	// Price is the cost ceiling relevant to the item (ticket price,
	// sponsorship fee). Zero when free or unknown.
	Price float64 `json:"price"`

	// Audience is the estimated reach (attendees, listeners, readers).
	// Zero when unknown.
	Audience int `json:"audience"`

	// Categories are topic tags used for set-membership filtering.
	Categories []string `json:"categories"`

	// Attributes holds the remaining domain-specific fields. Values are
	// strings, numbers, bools, or []string; list-valued attributes are
	// always proper slices, never delimited text.
	Attributes map[string]any `json:"attributes"`

	// Scores maps dimension name to a value in [0,10].
	Scores       map[string]float64 `json:"scores"`
	OverallScore float64            `json:"overallScore"`

	Status Status `json:"status"`

	// DiscoveredAt is set on first upsert and never changes.
	DiscoveredAt time.Time `json:"discoveredAt"`
	// UpdatedAt is refreshed on every upsert.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate returns an error if the candidate lacks required identity fields.
func (c *Candidate) Validate() error {
	if c.NaturalKey == "" {
		return Errorf(EINVALID, "candidate natural key required")
	}
	if c.Title == "" {
		return Errorf(EINVALID, "candidate title required")
	}
	if c.Source == "" {
		return Errorf(EINVALID, "candidate source required")
	}
	if c.Status != "" && !c.Status.Valid() {
		return Errorf(EINVALID, "invalid candidate status %q", c.Status)
	}
	return nil
}

// Status is the outreach workflow state of a candidate.
type Status string

// Workflow states. Completed and Rejected are terminal.
const (
	StatusNotApplied Status = "not_applied"
	StatusApplied    Status = "applied"
	StatusResponded  Status = "responded"
	StatusScheduled  Status = "scheduled"
	StatusCompleted  Status = "completed"
	StatusRejected   Status = "rejected"
)

// statusRank orders the forward progression of the workflow.
var statusRank = map[Status]int{
	StatusNotApplied: 0,
	StatusApplied:    1,
	StatusResponded:  2,
	StatusScheduled:  3,
	StatusCompleted:  4,
}

// Valid reports whether s is a known workflow state.
func (s Status) Valid() bool {
	if s == StatusRejected {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// CanTransition reports whether the workflow permits moving from s to next.
// Transitions only move forward; rejection is allowed from any non-terminal
// state; nothing re-enters not_applied.
func (s Status) CanTransition(next Status) bool {
	if !s.Valid() || !next.Valid() || s.Terminal() {
		return false
	}
	if next == StatusRejected {
		return true
	}
	if next == StatusNotApplied {
		return false
	}
	return statusRank[next] > statusRank[s]
}

// SortOrder represents the sort order for candidate queries.
type SortOrder string

// SortOrder constants for CandidateFilter.
const (
	// SortByScore orders by overall score descending, then discovered_at
	// descending (newer wins ties), then natural key. This is the default
	// and yields a total order, so pagination is stable.
	SortByScore SortOrder = "score"
	// SortByEventDate orders by event date ascending (soonest first).
	SortByEventDate SortOrder = "event_date"
	// SortByDiscovered orders by discovery time descending.
	SortByDiscovered SortOrder = "discovered"
)

// CandidateFilter represents a filter for FindCandidates. All clauses are
// ANDed; within Categories, Sources, Statuses and Keywords membership is
// ORed.
type CandidateFilter struct {
	// From and To bound the event date (inclusive). Zero means unbounded.
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Statuses   []Status `json:"statuses"`

	// MinScore is a lower bound on overall score. Nil means no bound.
	MinScore *float64 `json:"minScore"`
	// MaxPrice is an upper bound on price. Candidates with no recorded
	// price pass the filter. Nil means no bound.
	MaxPrice *float64 `json:"maxPrice"`
	// MinAudience is a lower bound on audience size. Nil means no bound.
	MinAudience *int `json:"minAudience"`

	// Keywords are free-text terms matched against the full-text index
	// over title, description and long-form text. Prefix matching, so
	// "roadmap" matches "roadmaps".
	Keywords []string `json:"keywords"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`

	SortBy SortOrder `json:"sortBy"`
}

// CandidateService represents the durable candidate store.
type CandidateService interface {
	// UpsertCandidate inserts the candidate if its natural key is unseen,
	// otherwise merges attributes and scores into the existing row and
	// refreshes updated_at. DiscoveredAt and workflow status of an
	// existing row are preserved. Returns true when a new row was created.
	// Idempotent: repeated calls with identical input keep exactly one row.
	UpsertCandidate(ctx context.Context, c *Candidate) (created bool, err error)

	// FindCandidateByKey retrieves a candidate by natural key.
	// Returns ENOTFOUND if the candidate does not exist.
	FindCandidateByKey(ctx context.Context, key string) (*Candidate, error)

	// FindCandidates retrieves candidates matching the filter, ordered per
	// the filter's sort order (SortByScore by default).
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]*Candidate, error)

	// CountCandidates returns the number of candidates matching the
	// filter, ignoring pagination.
	CountCandidates(ctx context.Context, filter CandidateFilter) (int, error)

	// UpdateCandidateStatus advances the workflow state of a candidate.
	// Returns ENOTFOUND if the key is unknown and EINVALID if the
	// transition is not permitted.
	UpdateCandidateStatus(ctx context.Context, key string, status Status) (*Candidate, error)
}
