package matching

import (
	"strings"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

const (
	exactGoalBonus         = 100.0
	goalInTemplateBonus    = 50.0
	templateInGoalBonus    = 40.0
	similarityWeight       = 30.0
	exactDomainBonus       = 35.0
	domainInTemplateBonus  = 20.0
	templateInDomainBonus  = 15.0
	categoryInGoalBonus    = 12.0
	categoryInDomainBonus  = 10.0
	categoryInTextBonus    = 5.0
	keywordInGoalBonus     = 6.0
	sharedWordBonus        = 8.0
	levelBonus             = 15.0
	roleBonus              = 8.0
	techInGoalDomainBonus  = 10.0
	techInTextBonus        = 3.0
	weakScoreThreshold     = 5.0
	weakScoreDamping       = 0.3
	strongScoreThreshold   = 50.0
	strongScoreBoost       = 1.2
	minKeywordLength       = 3
	defaultDifficultyLevel = "intermediate"
)

// Query is a normalized (goal, domain) request.
type Query struct {
	Goal   string
	Domain string

	words map[string]struct{}
}

// NewQuery normalizes goal and domain for scoring.
func NewQuery(goal, domain string) *Query {
	q := &Query{Goal: Normalize(goal), Domain: Normalize(domain)}
	q.words = wordSet(q.Goal)
	return q
}

// HasDomain reports whether the caller supplied a domain.
func (q *Query) HasDomain() bool { return q.Domain != "" }

// Candidate is a template prepared for scoring.
type Candidate struct {
	Template *roadmap.Template

	goal       string
	domain     string
	text       string
	difficulty string
	words      map[string]struct{}
}

// NewCandidate normalizes the text fields of t.
func NewCandidate(t *roadmap.Template) *Candidate {
	c := &Candidate{
		Template:   t,
		goal:       Normalize(t.Goal),
		domain:     Normalize(t.Domain),
		text:       Normalize(t.RawText),
		difficulty: Normalize(t.Difficulty),
	}
	if c.difficulty == "" {
		c.difficulty = defaultDifficultyLevel
	}
	c.words = wordSet(c.goal)
	return c
}

// Signal is one additive contribution to the match score.
type Signal interface {
	Name() string
	Score(q *Query, c *Candidate) float64
}

type goalMatchSignal struct{}

func (goalMatchSignal) Name() string { return "goal_match" }

func (goalMatchSignal) Score(q *Query, c *Candidate) float64 {
	switch {
	case q.Goal == c.goal:
		return exactGoalBonus
	case strings.Contains(c.goal, q.Goal):
		return goalInTemplateBonus
	case strings.Contains(q.Goal, c.goal):
		return templateInGoalBonus
	}
	return 0
}

type similaritySignal struct{}

func (similaritySignal) Name() string { return "similarity" }

func (similaritySignal) Score(q *Query, c *Candidate) float64 {
	if len(q.words) == 0 || len(c.words) == 0 {
		return 0
	}
	return jaccard(q.words, c.words) * similarityWeight
}

type domainSignal struct{}

func (domainSignal) Name() string { return "domain" }

func (domainSignal) Score(q *Query, c *Candidate) float64 {
	if !q.HasDomain() {
		return 0
	}
	switch {
	case q.Domain == c.domain:
		return exactDomainBonus
	case strings.Contains(c.domain, q.Domain):
		return domainInTemplateBonus
	case strings.Contains(q.Domain, c.domain):
		return templateInDomainBonus
	}
	return 0
}

type categorySignal struct {
	vocab *Vocabulary
}

func (categorySignal) Name() string { return "category" }

func (s categorySignal) Score(q *Query, c *Candidate) float64 {
	score := 0.0
	for word := range q.words {
		for _, category := range s.vocab.Categories {
			if !category.HasKeyword(word) {
				continue
			}

			switch {
			case strings.Contains(c.goal, category.Name):
				score += categoryInGoalBonus
			case strings.Contains(c.domain, category.Name):
				score += categoryInDomainBonus
			case strings.Contains(c.text, category.Name):
				score += categoryInTextBonus
			}

			for _, kw := range category.Keywords {
				if longKeyword(kw) && strings.Contains(c.goal, kw) {
					score += keywordInGoalBonus
				}
			}
		}
	}
	return score
}

type wordOverlapSignal struct{}

func (wordOverlapSignal) Name() string { return "word_overlap" }

func (wordOverlapSignal) Score(q *Query, c *Candidate) float64 {
	return float64(sharedWords(q.words, c.words)) * sharedWordBonus
}

type levelSignal struct {
	vocab *Vocabulary
}

func (levelSignal) Name() string { return "experience_level" }

func (s levelSignal) Score(q *Query, c *Candidate) float64 {
	score := 0.0
	for _, level := range s.vocab.Levels {
		if !strings.Contains(c.difficulty, level.Name) {
			continue
		}
		for _, kw := range level.Keywords {
			if strings.Contains(q.Goal, kw) {
				score += levelBonus
				break
			}
		}
	}
	return score
}

type roleSignal struct {
	vocab *Vocabulary
}

func (roleSignal) Name() string { return "role" }

func (s roleSignal) Score(q *Query, c *Candidate) float64 {
	score := 0.0
	for _, role := range s.vocab.Roles {
		if strings.Contains(q.Goal, role) && strings.Contains(c.goal, role) {
			score += roleBonus
		}
	}
	return score
}

type technologySignal struct {
	vocab *Vocabulary
}

func (technologySignal) Name() string { return "technology" }

func (s technologySignal) Score(q *Query, c *Candidate) float64 {
	score := 0.0
	for _, tech := range s.technologies(q) {
		switch {
		case strings.Contains(c.goal, tech) || strings.Contains(c.domain, tech):
			score += techInGoalDomainBonus
		case strings.Contains(c.text, tech):
			score += techInTextBonus
		}
	}
	return score
}

// technologies returns the distinct long keywords contained in the goal, in vocabulary order.
func (s technologySignal) technologies(q *Query) []string {
	seen := make(map[string]struct{})
	var techs []string
	for _, category := range s.vocab.Categories {
		for _, kw := range category.Keywords {
			if !longKeyword(kw) || !strings.Contains(q.Goal, kw) {
				continue
			}
			if _, ok := seen[kw]; ok {
				continue
			}
			seen[kw] = struct{}{}
			techs = append(techs, kw)
		}
	}
	return techs
}

// DefaultSignals returns every scoring signal backed by vocab.
func DefaultSignals(vocab *Vocabulary) []Signal {
	return []Signal{
		goalMatchSignal{},
		similaritySignal{},
		domainSignal{},
		categorySignal{vocab: vocab},
		wordOverlapSignal{},
		levelSignal{vocab: vocab},
		roleSignal{vocab: vocab},
		technologySignal{vocab: vocab},
	}
}
