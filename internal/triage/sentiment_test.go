package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/grievance-service/internal/domain"
)

func TestScore_StrongNegativeExample(t *testing.T) {
	score := DefaultScorer().Score("This is absolutely unacceptable and urgent, I am furious")
	assert.InDelta(t, -0.9, score.Polarity, 1e-9)
	assert.Equal(t, domain.SentimentHighlyNegative, score.Label)
}

func TestScore_PositiveExample(t *testing.T) {
	score := DefaultScorer().Score("Thank you, the new library resources are excellent and helpful")
	assert.InDelta(t, 0.75, score.Polarity, 1e-9)
	assert.Equal(t, domain.SentimentPositive, score.Label)
}

func TestScore_CaseInsensitive(t *testing.T) {
	lower := DefaultScorer().Score("the wifi is terrible")
	upper := DefaultScorer().Score("THE WIFI IS TERRIBLE")
	assert.Equal(t, lower, upper)
	assert.Equal(t, domain.SentimentNegative, upper.Label)
}

func TestScore_CueCountsOnce(t *testing.T) {
	score := DefaultScorer().Score("bad bad bad bad bad")
	assert.InDelta(t, -0.15, score.Polarity, 1e-9)
	assert.Equal(t, domain.SentimentNegative, score.Label)
}

func TestScore_SubstringMatch(t *testing.T) {
	// "issues" contains "issue", "goodness" contains "good"
	score := DefaultScorer().Score("several issues, goodness")
	assert.InDelta(t, 0.10, score.Polarity, 1e-9)
}

func TestScore_EmptyTextIsNeutral(t *testing.T) {
	score := DefaultScorer().Score("")
	assert.Equal(t, 0.0, score.Polarity)
	assert.Equal(t, domain.SentimentNeutral, score.Label)
}

func TestScore_MildlyPositiveReadsNeutral(t *testing.T) {
	score := DefaultScorer().Score("the canteen food is good")
	assert.InDelta(t, 0.25, score.Polarity, 1e-9)
	assert.Equal(t, domain.SentimentNeutral, score.Label)
}

func TestScore_ClampsLowerBound(t *testing.T) {
	text := strings.Join(DefaultLexicon.StrongNegative, " ")
	score := DefaultScorer().Score(text)
	assert.Equal(t, -1.0, score.Polarity)
	assert.Equal(t, domain.SentimentHighlyNegative, score.Label)
}

func TestScore_ClampsUpperBound(t *testing.T) {
	text := strings.Join(DefaultLexicon.Positive, " ")
	score := DefaultScorer().Score(text)
	assert.Equal(t, 1.0, score.Polarity)
	assert.Equal(t, domain.SentimentPositive, score.Label)
}

func TestScore_ExactBoundaryIsNegative(t *testing.T) {
	// five strong cues and four positive cues sum to exactly -0.5
	score := DefaultScorer().Score("terrible awful horrible worst angry great excellent wonderful amazing")
	assert.Equal(t, -0.5, score.Polarity)
	assert.Equal(t, domain.SentimentNegative, score.Label)
}

func TestScore_PolarityAlwaysBounded(t *testing.T) {
	inputs := []string{
		"",
		"hello",
		strings.Repeat("terrible awful urgent ", 50),
		strings.Repeat("great thank good ", 50),
		"bad poor slow delay issue problem annoying frustrated disappointing",
		"ünïcödé text with no cues ✓",
	}
	for _, in := range inputs {
		score := DefaultScorer().Score(in)
		assert.GreaterOrEqual(t, score.Polarity, -1.0, in)
		assert.LessOrEqual(t, score.Polarity, 1.0, in)
	}
}

func TestNewScorer_CustomLexicon(t *testing.T) {
	scorer := NewScorer(Lexicon{
		StrongNegative: []string{"Broken", "  "},
		Positive:       []string{"FIXED"},
	})
	assert.InDelta(t, -0.3, scorer.Score("it is broken").Polarity, 1e-9)
	assert.InDelta(t, 0.25, scorer.Score("all fixed").Polarity, 1e-9)
	assert.Equal(t, 0.0, scorer.Score("   ").Polarity)
}

func TestLabelForScore(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.Sentiment
	}{
		{-1, domain.SentimentHighlyNegative},
		{-0.51, domain.SentimentHighlyNegative},
		{-0.5, domain.SentimentNegative},
		{-0.01, domain.SentimentNegative},
		{0, domain.SentimentNeutral},
		{0.49, domain.SentimentNeutral},
		{0.5, domain.SentimentPositive},
		{1, domain.SentimentPositive},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LabelForScore(tc.score), "score %v", tc.score)
	}
}
