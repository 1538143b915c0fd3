package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/grievance-service/internal/domain"
)

func TestMapPriority(t *testing.T) {
	want := map[domain.Sentiment]domain.Priority{
		domain.SentimentHighlyNegative: domain.PriorityHigh,
		domain.SentimentNegative:       domain.PriorityMedium,
		domain.SentimentNeutral:        domain.PriorityLow,
		domain.SentimentPositive:       domain.PriorityLow,
	}
	for _, sentiment := range domain.Sentiments {
		assert.Equal(t, want[sentiment], MapPriority(sentiment), sentiment)
		assert.Equal(t, MapPriority(sentiment), MapPriority(sentiment))
	}
}

func TestDerive_EndToEnd(t *testing.T) {
	scorer := DefaultScorer()

	score, priority := scorer.Derive("This is absolutely unacceptable and urgent, I am furious")
	assert.Equal(t, domain.SentimentHighlyNegative, score.Label)
	assert.Equal(t, domain.PriorityHigh, priority)

	score, priority = scorer.Derive("Thank you, the new library resources are excellent and helpful")
	assert.Equal(t, domain.SentimentPositive, score.Label)
	assert.Equal(t, domain.PriorityLow, priority)

	score, priority = scorer.Derive("There is a delay with my scholarship payment")
	assert.Equal(t, domain.SentimentNegative, score.Label)
	assert.Equal(t, domain.PriorityMedium, priority)
}

func TestDerive_Deterministic(t *testing.T) {
	text := "The projector in room 4 is slow and the service was poor, please fix immediately"
	firstScore, firstPriority := DefaultScorer().Derive(text)
	for i := 0; i < 20; i++ {
		score, priority := DefaultScorer().Derive(text)
		assert.Equal(t, firstScore, score)
		assert.Equal(t, firstPriority, priority)
	}
}
