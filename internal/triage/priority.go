package triage

import "github.com/spec-kit/grievance-service/internal/domain"

// MapPriority derives the priority for a sentiment label.
func MapPriority(sentiment domain.Sentiment) domain.Priority {
	switch sentiment {
	case domain.SentimentHighlyNegative:
		return domain.PriorityHigh
	case domain.SentimentNegative:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// Derive scores text and maps the resulting label to a priority.
func (s *Scorer) Derive(text string) (SentimentScore, domain.Priority) {
	score := s.Score(text)
	return score, MapPriority(score.Label)
}
