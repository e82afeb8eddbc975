package engine

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/spigell/roadmap-matcher/internal/matching"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
	"github.com/spigell/roadmap-matcher/internal/store"
)

const (
	DefaultPageLimit       = 50
	DefaultSimilarLimit    = 5
	DefaultRecommendLimit  = 5
	DefaultTimeCommitment  = 300
	DefaultExperienceLevel = "intermediate"

	domainSkillsTemplates = 10

	interestInGoalBonus   = 10.0
	interestInDomainBonus = 8.0
	interestInTextBonus   = 5.0
	timeFitMax            = 10.0
	timeFitHoursPerPoint  = 50.0
)

var ErrEmptyDomain = errors.New("domain must not be empty")

var experienceLevels = map[string]struct{}{
	"beginner":     {},
	"intermediate": {},
	"advanced":     {},
}

// ScoredTemplate is a template with the score that ranked it.
type ScoredTemplate struct {
	roadmap.Template
	Score float64 `json:"score"`
}

// SimilarRoadmaps ranks templates by how many goal words appear in their goal.
// Only templates matching domain are considered when domain is set.
func (e *Engine) SimilarRoadmaps(ctx context.Context, goal, domain string, limit int) ([]ScoredTemplate, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, roadmap.ErrEmptyGoal
	}
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	templates, err := e.store.ListTemplates(ctx, store.TemplateFilter{Domain: domain})
	if err != nil {
		return nil, err
	}

	words := strings.Fields(strings.ToLower(goal))
	scored := make([]ScoredTemplate, 0)
	for _, t := range templates {
		templateGoal := matching.Normalize(t.Goal)
		hits := 0
		for _, w := range words {
			if strings.Contains(templateGoal, w) {
				hits++
			}
		}
		if hits > 0 {
			scored = append(scored, ScoredTemplate{Template: t, Score: float64(hits)})
		}
	}

	return top(scored, limit), nil
}

// Preferences drive Recommend.
type Preferences struct {
	Interests       string `json:"interests"`
	ExperienceLevel string `json:"experience_level"`
	TimeCommitment  int    `json:"time_commitment"`
	Limit           int    `json:"limit"`
}

// Recommend ranks templates by interest keywords and by how close their duration is to the time commitment.
func (e *Engine) Recommend(ctx context.Context, prefs Preferences) ([]ScoredTemplate, error) {
	level := strings.ToLower(strings.TrimSpace(prefs.ExperienceLevel))
	if level == "" {
		level = DefaultExperienceLevel
	}
	commitment := prefs.TimeCommitment
	if commitment <= 0 {
		commitment = DefaultTimeCommitment
	}
	limit := prefs.Limit
	if limit <= 0 {
		limit = DefaultRecommendLimit
	}

	filter := store.TemplateFilter{}
	if _, ok := experienceLevels[level]; ok {
		filter.Difficulty = level
	}

	templates, err := e.store.ListTemplates(ctx, filter)
	if err != nil {
		return nil, err
	}

	interests := strings.Fields(strings.ToLower(prefs.Interests))
	scored := make([]ScoredTemplate, 0, len(templates))
	for _, t := range templates {
		score := interestScore(interests, t) + timeFit(t.EstimatedHours, commitment)
		if score > 0 {
			scored = append(scored, ScoredTemplate{Template: t, Score: math.Round(score*100) / 100})
		}
	}

	return top(scored, limit), nil
}

func interestScore(words []string, t roadmap.Template) float64 {
	goal := strings.ToLower(t.Goal)
	domain := strings.ToLower(t.Domain)
	text := strings.ToLower(t.RawText)

	score := 0.0
	for _, w := range words {
		switch {
		case strings.Contains(goal, w):
			score += interestInGoalBonus
		case strings.Contains(domain, w):
			score += interestInDomainBonus
		case strings.Contains(text, w):
			score += interestInTextBonus
		}
	}
	return score
}

// timeFit is 10 for an exact duration match and loses a point per 50 hours of difference.
func timeFit(hours, commitment int) float64 {
	if hours <= 0 {
		return 0
	}
	diff := math.Abs(float64(hours - commitment))
	return math.Max(0, timeFitMax-diff/timeFitHoursPerPoint)
}

func top(scored []ScoredTemplate, limit int) []ScoredTemplate {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// DomainSkillSet lists the skills taught by the first templates of a domain.
type DomainSkillSet struct {
	Domain       string   `json:"domain"`
	Skills       []string `json:"skills"`
	RoadmapCount int      `json:"roadmap_count"`
}

// DomainSkills collects the distinct skills of up to ten templates matching domain.
func (e *Engine) DomainSkills(ctx context.Context, domain string) (*DomainSkillSet, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, ErrEmptyDomain
	}

	templates, err := e.store.ListTemplates(ctx, store.TemplateFilter{Domain: domain, Limit: domainSkillsTemplates})
	if err != nil {
		return nil, err
	}

	return &DomainSkillSet{
		Domain:       domain,
		Skills:       distinctSkills(templates),
		RoadmapCount: len(templates),
	}, nil
}

// SkillCatalog is the set of skills across all templates.
type SkillCatalog struct {
	Skills        []string `json:"skills"`
	TotalSkills   int      `json:"total_skills"`
	TotalRoadmaps int      `json:"total_roadmaps"`
}

// AllSkills collects the distinct skills of every template.
func (e *Engine) AllSkills(ctx context.Context) (*SkillCatalog, error) {
	templates, err := e.store.ListTemplates(ctx, store.TemplateFilter{})
	if err != nil {
		return nil, err
	}

	skills := distinctSkills(templates)
	return &SkillCatalog{
		Skills:        skills,
		TotalSkills:   len(skills),
		TotalRoadmaps: len(templates),
	}, nil
}

func distinctSkills(templates []roadmap.Template) []string {
	seen := make(map[string]struct{})
	skills := make([]string, 0)
	for i := range templates {
		for _, skill := range templates[i].Skills() {
			if _, ok := seen[skill]; ok {
				continue
			}
			seen[skill] = struct{}{}
			skills = append(skills, skill)
		}
	}
	sort.Strings(skills)
	return skills
}
