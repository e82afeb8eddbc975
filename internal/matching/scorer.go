package matching

import (
	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

// Contribution is the score one signal added for a candidate.
type Contribution struct {
	Signal string  `json:"signal"`
	Score  float64 `json:"score"`
}

// Explanation breaks a final score into its signal contributions.
type Explanation struct {
	Contributions []Contribution `json:"contributions"`
	Raw           float64        `json:"raw"`
	Final         float64        `json:"final"`
}

// Scorer computes the multi-signal match score of a query against a template.
type Scorer struct {
	signals []Signal
}

// NewScorer creates a scorer with the default signals over vocab.
// A nil vocab means DefaultVocabulary.
func NewScorer(vocab *Vocabulary) *Scorer {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Scorer{signals: DefaultSignals(vocab)}
}

// NewScorerWithSignals creates a scorer from an explicit signal list.
func NewScorerWithSignals(signals ...Signal) *Scorer {
	return &Scorer{signals: signals}
}

// Score returns the adjusted match score of goal and domain against t.
func (s *Scorer) Score(goal, domain string, t *roadmap.Template) float64 {
	return s.ScoreCandidate(NewQuery(goal, domain), NewCandidate(t))
}

// ScoreCandidate is Score for a prepared query and candidate.
func (s *Scorer) ScoreCandidate(q *Query, c *Candidate) float64 {
	raw := 0.0
	for _, signal := range s.signals {
		raw += signal.Score(q, c)
	}
	return adjust(raw)
}

// Explain returns the per-signal breakdown behind ScoreCandidate.
func (s *Scorer) Explain(q *Query, c *Candidate) Explanation {
	exp := Explanation{Contributions: make([]Contribution, 0, len(s.signals))}
	for _, signal := range s.signals {
		score := signal.Score(q, c)
		exp.Raw += score
		exp.Contributions = append(exp.Contributions, Contribution{Signal: signal.Name(), Score: score})
	}
	exp.Final = adjust(exp.Raw)
	return exp
}

// adjust damps weak totals and boosts strong ones.
func adjust(score float64) float64 {
	switch {
	case score < weakScoreThreshold:
		return score * weakScoreDamping
	case score > strongScoreThreshold:
		return score * strongScoreBoost
	}
	return score
}
