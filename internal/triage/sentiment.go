package triage

import (
	"math"
	"strings"

	"github.com/spec-kit/grievance-service/internal/domain"
)

const (
	strongNegativeWeight = -0.30
	mildNegativeWeight   = -0.15
	positiveWeight       = 0.25
)

// Lexicon holds the cue lists the scorer matches against.
type Lexicon struct {
	StrongNegative []string
	MildNegative   []string
	Positive       []string
}

// DefaultLexicon is the built-in cue list version.
var DefaultLexicon = Lexicon{
	StrongNegative: []string{
		"terrible", "awful", "horrible", "worst", "angry", "furious", "unacceptable",
		"disgusting", "outraged", "extremely", "severely", "urgent", "immediately",
	},
	MildNegative: []string{
		"bad", "poor", "disappointing", "frustrated", "annoying", "problem", "issue",
		"delay", "slow",
	},
	Positive: []string{
		"great", "excellent", "wonderful", "amazing", "happy", "pleased", "satisfied",
		"thank", "appreciate", "helpful", "good",
	},
}

// SentimentScore is the result of scoring a piece of text.
type SentimentScore struct {
	Label    domain.Sentiment
	Polarity float64
}

// Scorer is a keyword heuristic over a fixed Lexicon. A cue counts at most
// once no matter how often it appears.
type Scorer struct {
	lexicon Lexicon
}

// NewScorer builds a scorer for the given lexicon. Cues are lower-cased and
// empty cues are dropped.
func NewScorer(lexicon Lexicon) *Scorer {
	return &Scorer{lexicon: Lexicon{
		StrongNegative: normalizeCues(lexicon.StrongNegative),
		MildNegative:   normalizeCues(lexicon.MildNegative),
		Positive:       normalizeCues(lexicon.Positive),
	}}
}

// DefaultScorer returns a scorer over DefaultLexicon.
func DefaultScorer() *Scorer {
	return NewScorer(DefaultLexicon)
}

// Score returns the clamped polarity in [-1, 1] and its label.
func (s *Scorer) Score(text string) SentimentScore {
	lower := strings.ToLower(text)

	score := 0.0
	score += weigh(lower, s.lexicon.StrongNegative, strongNegativeWeight)
	score += weigh(lower, s.lexicon.MildNegative, mildNegativeWeight)
	score += weigh(lower, s.lexicon.Positive, positiveWeight)

	// Accumulated float error would otherwise put sums like -0.5 on either side of a threshold.
	score = math.Round(score*1e9) / 1e9
	score = math.Max(-1, math.Min(1, score))

	return SentimentScore{Label: LabelForScore(score), Polarity: score}
}

// LabelForScore maps a polarity to its sentiment band.
func LabelForScore(score float64) domain.Sentiment {
	switch {
	case score < -0.5:
		return domain.SentimentHighlyNegative
	case score < 0:
		return domain.SentimentNegative
	case score < 0.5:
		return domain.SentimentNeutral
	default:
		return domain.SentimentPositive
	}
}

func weigh(text string, cues []string, weight float64) float64 {
	total := 0.0
	for _, cue := range cues {
		if strings.Contains(text, cue) {
			total += weight
		}
	}
	return total
}

func normalizeCues(cues []string) []string {
	out := make([]string, 0, len(cues))
	for _, cue := range cues {
		cue = strings.ToLower(strings.TrimSpace(cue))
		if cue == "" {
			continue
		}
		out = append(out, cue)
	}
	return out
}
