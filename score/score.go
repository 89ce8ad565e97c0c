// Package score computes bounded sub-scores and the weighted overall score
// for candidates. Scoring is pure arithmetic over candidate fields: no
// state, no randomness, no errors. Missing or malformed attributes yield
// the lowest valid sub-score.
package score

import (
	"fmt"
	"math"
	"strings"

	"github.com/scoutkit/scout"
)

// Default score dimensions.
const (
	DimensionRelevance  = "relevance"
	DimensionAudience   = "audience"
	DimensionEngagement = "engagement"
)

// DefaultMax is the upper score bound used by this deployment.
const DefaultMax = 10.0

// weightTolerance is the floating-point slack allowed when checking that
// weights sum to 1.
const weightTolerance = 1e-9

// Dimension is one independently computed sub-score.
type Dimension struct {
	Name   string
	Weight float64
	Fn     func(c *scout.Candidate) float64
}

// Config configures an Engine.
type Config struct {
	// Max is the inclusive upper bound for every sub-score and the overall
	// score. Zero means DefaultMax.
	Max        float64
	Dimensions []Dimension
}

// Compile-time interface verification.
var _ scout.Scorer = (*Engine)(nil)

// Engine implements scout.Scorer as a fixed weighted linear combination of
// its configured dimensions.
type Engine struct {
	max  float64
	dims []Dimension
}

// New creates an Engine. Dimension weights must sum to 1.
func New(cfg Config) (*Engine, error) {
	if len(cfg.Dimensions) == 0 {
		return nil, scout.Errorf(scout.EINVALID, "at least one score dimension required")
	}

	max := cfg.Max
	if max == 0 {
		max = DefaultMax
	}

	var sum float64
	seen := map[string]bool{}
	for _, dim := range cfg.Dimensions {
		if dim.Name == "" || dim.Fn == nil {
			return nil, scout.Errorf(scout.EINVALID, "score dimension needs a name and a function")
		}
		if seen[dim.Name] {
			return nil, scout.Errorf(scout.EINVALID, "duplicate score dimension %q", dim.Name)
		}
		seen[dim.Name] = true
		if dim.Weight < 0 {
			return nil, scout.Errorf(scout.EINVALID, "score dimension %q has negative weight", dim.Name)
		}
		sum += dim.Weight
	}
	if math.Abs(sum-1) > weightTolerance {
		return nil, scout.Errorf(scout.EINVALID, "dimension weights sum to %v, want 1", sum)
	}

	return &Engine{max: max, dims: cfg.Dimensions}, nil
}

// Score computes every sub-score and the weighted overall score. All values
// are clamped to [0, max].
func (e *Engine) Score(c *scout.Candidate) (map[string]float64, float64) {
	scores := make(map[string]float64, len(e.dims))
	var overall float64
	for _, dim := range e.dims {
		v := e.clamp(dim.Fn(c))
		scores[dim.Name] = v
		overall += dim.Weight * v
	}
	return scores, e.clamp(overall)
}

func (e *Engine) clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > e.max {
		return e.max
	}
	return v
}

// Profile holds the keyword lists driving the relevance dimension.
type Profile struct {
	// PrimaryKeywords mark the deployment's core focus (strong signal).
	PrimaryKeywords []string
	// SecondaryKeywords mark adjacent interest (weak signal).
	SecondaryKeywords []string
}

// DefaultProfile returns the AI product management profile.
func DefaultProfile() Profile {
	return Profile{
		PrimaryKeywords: []string{
			"ai", "artificial intelligence", "machine learning", "ml",
			"deep learning", "neural", "generative ai", "llm", "gpt",
		},
		SecondaryKeywords: []string{
			"product manager", "product management", "product strategy",
			"roadmap", "saas", "startup", "data", "innovation",
		},
	}
}

// DefaultConfig returns the deployment's standard dimensions:
// relevance 0.5, audience 0.3, engagement 0.2, bounded to [0,10].
func DefaultConfig(p Profile) Config {
	return Config{
		Max: DefaultMax,
		Dimensions: []Dimension{
			{Name: DimensionRelevance, Weight: 0.5, Fn: Relevance(p)},
			{Name: DimensionAudience, Weight: 0.3, Fn: Audience},
			{Name: DimensionEngagement, Weight: 0.2, Fn: Engagement},
		},
	}
}

// Relevance scores keyword evidence across categories, title and text.
// Category tags are the strongest signal, then title mentions, then body
// text, mirroring how much editorial intent each carries.
func Relevance(p Profile) func(c *scout.Candidate) float64 {
	primary := lowerAll(p.PrimaryKeywords)
	secondary := lowerAll(p.SecondaryKeywords)

	return func(c *scout.Candidate) float64 {
		var score float64

		categories := strings.ToLower(strings.Join(c.Categories, " "))
		switch {
		case containsAny(categories, primary):
			score += 4
		case containsAny(categories, secondary):
			score += 2
		}

		title := strings.ToLower(c.Title)
		score += math.Min(2, 0.5*float64(countMatches(title, primary)))

		text := strings.ToLower(c.Description + " " + c.LongText)
		score += math.Min(3, 0.5*float64(countMatches(text, primary)))

		if containsAny(text, secondary) {
			score++
		}
		return score
	}
}

// Audience maps estimated reach to a tier score. Unknown reach gets the
// minimum non-zero score rather than zero: small shows are still worth a
// look.
func Audience(c *scout.Candidate) float64 {
	a := c.Audience
	switch {
	case a >= 100000:
		return 10
	case a >= 50000:
		return 9
	case a >= 25000:
		return 8
	case a >= 10000:
		return 7
	case a >= 5000:
		return 6
	case a >= 2000:
		return 5
	case a >= 1000:
		return 4
	case a >= 500:
		return 3
	case a > 0:
		return 2
	default:
		return 1
	}
}

// Engagement scores traction metrics (upvotes, comments) from the
// attribute map. Absent metrics score zero.
func Engagement(c *scout.Candidate) float64 {
	upvotes := numericAttr(c, "upvotes")
	comments := numericAttr(c, "comments")

	var score float64
	switch {
	case upvotes >= 500:
		score = 6
	case upvotes >= 250:
		score = 5
	case upvotes >= 100:
		score = 4
	case upvotes >= 50:
		score = 3
	case upvotes >= 10:
		score = 2
	case upvotes > 0:
		score = 1
	}
	score += math.Min(4, comments/25)
	return score
}

// numericAttr reads a numeric attribute, tolerating the types that survive
// JSON round-trips.
func numericAttr(c *scout.Candidate, key string) float64 {
	switch v := c.Attributes[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func lowerAll(keywords []string) []string {
	out := make([]string, len(keywords))
	for i, kw := range keywords {
		out[i] = strings.ToLower(kw)
	}
	return out
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func countMatches(text string, keywords []string) int {
	var n int
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

// String renders a score for display, one decimal as the reports use.
func String(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
