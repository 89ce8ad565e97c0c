package score_test

import (
	"testing"

	"github.com/scoutkit/scout"
	"github.com/scoutkit/scout/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultEngine(t *testing.T) *score.Engine {
	t.Helper()
	engine, err := score.New(score.DefaultConfig(score.DefaultProfile()))
	require.NoError(t, err)
	return engine
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("accepts weights summing to one", func(t *testing.T) {
		t.Parallel()

		_, err := score.New(score.DefaultConfig(score.DefaultProfile()))
		require.NoError(t, err)
	})

	t.Run("rejects weights not summing to one", func(t *testing.T) {
		t.Parallel()

		_, err := score.New(score.Config{Dimensions: []score.Dimension{
			{Name: "relevance", Weight: 0.5, Fn: score.Audience},
			{Name: "audience", Weight: 0.3, Fn: score.Audience},
		}})
		require.Error(t, err)
		assert.Equal(t, scout.EINVALID, scout.ErrorCode(err))
	})

	t.Run("rejects duplicate dimension names", func(t *testing.T) {
		t.Parallel()

		_, err := score.New(score.Config{Dimensions: []score.Dimension{
			{Name: "audience", Weight: 0.5, Fn: score.Audience},
			{Name: "audience", Weight: 0.5, Fn: score.Audience},
		}})
		require.Error(t, err)
		assert.Equal(t, scout.EINVALID, scout.ErrorCode(err))
	})

	t.Run("rejects empty dimensions", func(t *testing.T) {
		t.Parallel()

		_, err := score.New(score.Config{})
		require.Error(t, err)
	})
}

func TestEngine_Score(t *testing.T) {
	t.Parallel()

	t.Run("overall equals the weighted sum", func(t *testing.T) {
		t.Parallel()

		engine := defaultEngine(t)
		c := &scout.Candidate{
			Title:       "AI Product Summit",
			Description: "machine learning roadmaps for product managers",
			Categories:  []string{"AI/ML"},
			Audience:    30000,
			Attributes:  map[string]any{"upvotes": float64(120), "comments": float64(50)},
		}

		scores, overall := engine.Score(c)
		want := 0.5*scores[score.DimensionRelevance] +
			0.3*scores[score.DimensionAudience] +
			0.2*scores[score.DimensionEngagement]
		assert.InDelta(t, want, overall, 1e-9)
	})

	t.Run("every score stays within bounds for extreme inputs", func(t *testing.T) {
		t.Parallel()

		engine := defaultEngine(t)
		candidates := []*scout.Candidate{
			{}, // entirely empty
			{
				Title:       "ai ai ai machine learning deep learning neural llm gpt generative ai",
				Description: "ai machine learning deep learning neural llm gpt product manager roadmap",
				Categories:  []string{"AI/ML", "data"},
				Audience:    1 << 40,
				Attributes:  map[string]any{"upvotes": float64(1e12), "comments": float64(1e12)},
			},
			{Audience: -5, Attributes: map[string]any{"upvotes": "garbage"}},
		}

		for _, c := range candidates {
			scores, overall := engine.Score(c)
			for name, v := range scores {
				assert.GreaterOrEqual(t, v, 0.0, name)
				assert.LessOrEqual(t, v, score.DefaultMax, name)
			}
			assert.GreaterOrEqual(t, overall, 0.0)
			assert.LessOrEqual(t, overall, score.DefaultMax)
		}
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		engine := defaultEngine(t)
		c := &scout.Candidate{
			Title:       "AI Product Summit",
			Description: "machine learning roadmaps",
			Categories:  []string{"AI/ML"},
			Audience:    5000,
		}

		first, firstOverall := engine.Score(c)
		for i := 0; i < 10; i++ {
			scores, overall := engine.Score(c)
			assert.Equal(t, first, scores)
			assert.Equal(t, firstOverall, overall)
		}
	})

	t.Run("missing attributes never error and score low", func(t *testing.T) {
		t.Parallel()

		engine := defaultEngine(t)
		scores, overall := engine.Score(&scout.Candidate{Title: "Untitled gathering"})

		assert.Equal(t, 0.0, scores[score.DimensionRelevance])
		assert.Equal(t, 1.0, scores[score.DimensionAudience], "unknown audience gets the minimum tier")
		assert.Equal(t, 0.0, scores[score.DimensionEngagement])
		assert.InDelta(t, 0.3, overall, 1e-9)
	})
}

func TestAudience(t *testing.T) {
	t.Parallel()

	tests := []struct {
		audience int
		want     float64
	}{
		{150000, 10},
		{100000, 10},
		{60000, 9},
		{30000, 8},
		{12000, 7},
		{5000, 6},
		{2500, 5},
		{1200, 4},
		{700, 3},
		{100, 2},
		{0, 1},
	}
	for _, tt := range tests {
		got := score.Audience(&scout.Candidate{Audience: tt.audience})
		assert.Equal(t, tt.want, got, "audience %d", tt.audience)
	}
}

func TestRelevance(t *testing.T) {
	t.Parallel()

	relevance := score.Relevance(score.DefaultProfile())

	t.Run("category tag is the strongest signal", func(t *testing.T) {
		t.Parallel()

		tagged := relevance(&scout.Candidate{Categories: []string{"AI/ML"}})
		untagged := relevance(&scout.Candidate{Categories: []string{"design"}})
		assert.Greater(t, tagged, untagged)
	})

	t.Run("keyword mentions accumulate but saturate", func(t *testing.T) {
		t.Parallel()

		few := relevance(&scout.Candidate{Description: "ai roadmaps"})
		many := relevance(&scout.Candidate{
			Description: "ai machine learning deep learning neural llm gpt generative ai roadmaps",
		})
		assert.Greater(t, many, few)
		assert.LessOrEqual(t, many, score.DefaultMax)
	})
}

func TestEngagement(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, score.Engagement(&scout.Candidate{}))

	buzzing := score.Engagement(&scout.Candidate{
		Attributes: map[string]any{"upvotes": float64(600), "comments": float64(200)},
	})
	assert.Equal(t, 10.0, buzzing)

	quiet := score.Engagement(&scout.Candidate{
		Attributes: map[string]any{"upvotes": float64(12)},
	})
	assert.Equal(t, 2.0, quiet)
}
