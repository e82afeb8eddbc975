package matching

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

// DefaultConfidenceFloor is the best score below which the selector falls back to load order.
const DefaultConfidenceFloor = 10.0

// Match is the outcome of a selection.
type Match struct {
	Template *roadmap.Template
	// Score is the raw selection score of the best scored candidate.
	Score float64
	// Fallback is set when no candidate reached the confidence floor.
	Fallback bool
	// Candidates is the number of templates considered after domain filtering.
	Candidates int
}

// Selector picks the best template for a goal.
type Selector struct {
	scorer *Scorer
	floor  float64
	logger *zap.Logger
}

// NewSelector creates a selector. A nil scorer uses the default vocabulary.
func NewSelector(scorer *Scorer, logger *zap.Logger) *Selector {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{scorer: scorer, floor: DefaultConfidenceFloor, logger: logger}
}

// Scorer returns the scorer used by the selector.
func (s *Selector) Scorer() *Scorer { return s.scorer }

// FilterByDomain returns the templates whose domain contains domain, case-insensitively.
// An empty domain yields every template.
func FilterByDomain(templates []roadmap.Template, domain string) []roadmap.Template {
	needle := Normalize(domain)
	if needle == "" {
		return templates
	}

	filtered := make([]roadmap.Template, 0)
	for _, t := range templates {
		if strings.Contains(Normalize(t.Domain), needle) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Select scores templates, which must be in load order, and returns the best match.
// The first template wins ties. When the domain filter leaves nothing the full set is used.
func (s *Selector) Select(goal, domain string, templates []roadmap.Template) (*Match, error) {
	if len(templates) == 0 {
		return nil, roadmap.ErrNoTemplatesAvailable
	}

	candidates := FilterByDomain(templates, domain)
	if len(candidates) == 0 {
		s.logger.Debug("no templates match the domain, using the full set",
			zap.String("domain", domain),
			zap.Int("templates", len(templates)),
		)
		candidates = templates
	}

	q := NewQuery(goal, domain)

	var (
		best       *roadmap.Template
		bestScore  float64
		firstValid *roadmap.Template
	)

	for i := range candidates {
		t := &candidates[i]
		if err := t.Validate(); err != nil {
			s.logger.Debug("skipping template", zap.String("template_id", t.ID), zap.Error(err))
			continue
		}
		if firstValid == nil {
			firstValid = t
		}

		score := s.scorer.ScoreCandidate(q, NewCandidate(t))
		if score > bestScore {
			best = t
			bestScore = score
		}
	}

	if firstValid == nil {
		return nil, fmt.Errorf("%w: all %d candidates are invalid", roadmap.ErrNoTemplatesAvailable, len(candidates))
	}

	match := &Match{Template: best, Score: bestScore, Candidates: len(candidates)}
	if best == nil || bestScore < s.floor {
		match.Template = firstValid
		match.Fallback = true
	}

	s.logger.Debug("template selected",
		zap.String("goal", goal),
		zap.String("template_id", match.Template.ID),
		zap.String("template_goal", match.Template.Goal),
		zap.Float64("score", match.Score),
		zap.Bool("fallback", match.Fallback),
	)

	return match, nil
}
