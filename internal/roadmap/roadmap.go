package roadmap

import (
	"errors"
	"strings"
	"time"
)

const (
	// OriginBulkImport tags templates created by the dataset importer.
	OriginBulkImport = "bulk_import"

	DefaultDifficulty     = "Intermediate"
	DefaultEstimatedHours = 300
)

var (
	ErrEmptyGoal            = errors.New("goal must not be empty")
	ErrNoTemplatesAvailable = errors.New("no roadmap templates available")
	ErrMalformedRoadmapText = errors.New("malformed roadmap text")
	ErrInvalidTemplate      = errors.New("invalid roadmap template")
	ErrNotFound             = errors.New("roadmap not found")
)

// Step is one ordered unit of a roadmap: a category and the skills to learn in it.
type Step struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// Template is an immutable roadmap loaded from a dataset.
type Template struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Dataset  string `json:"dataset"`
	Origin   string `json:"origin"`
	// Position is the load order across all datasets of one import.
	Position int `json:"position"`

	Goal             string    `json:"goal"`
	Domain           string    `json:"domain"`
	RawText          string    `json:"roadmap_text"`
	Steps            []Step    `json:"steps"`
	Difficulty       string    `json:"difficulty"`
	EstimatedHours   int       `json:"estimated_hours"`
	Prerequisites    string    `json:"prerequisites"`
	LearningOutcomes string    `json:"learning_outcomes"`
	CreatedAt        time.Time `json:"created_at"`
}

// Validate reports whether the template can take part in matching.
func (t *Template) Validate() error {
	if t == nil {
		return ErrInvalidTemplate
	}
	if strings.TrimSpace(t.Goal) == "" {
		return errors.Join(ErrInvalidTemplate, errors.New("goal is empty"))
	}
	if strings.TrimSpace(t.Domain) == "" {
		return errors.Join(ErrInvalidTemplate, errors.New("domain is empty"))
	}
	if len(t.Steps) == 0 {
		return errors.Join(ErrInvalidTemplate, errors.New("steps are empty"))
	}
	return nil
}

// Skills returns every skill of the template in step order.
func (t *Template) Skills() []string {
	var skills []string
	for _, step := range t.Steps {
		skills = append(skills, step.Skills...)
	}
	return skills
}

// UserRoadmap is a user-owned copy of a template. There is at most one per (UserID, Goal)
// when UserID is set.
type UserRoadmap struct {
	ID              string    `json:"id"`
	UserID          *string   `json:"user_id,omitempty"`
	Title           string    `json:"title"`
	Goal            string    `json:"goal"`
	Domain          string    `json:"domain"`
	Steps           []Step    `json:"steps"`
	BaseTemplateID  string    `json:"base_template_id"`
	GenerationCount int       `json:"generation_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Owner returns the owner id or an empty string for anonymous roadmaps.
func (r *UserRoadmap) Owner() string {
	if r == nil || r.UserID == nil {
		return ""
	}
	return *r.UserID
}

// CloneSteps returns a deep copy so stored records never share slices with templates.
func CloneSteps(steps []Step) []Step {
	if steps == nil {
		return nil
	}
	out := make([]Step, len(steps))
	for i, step := range steps {
		out[i] = Step{
			Category: step.Category,
			Skills:   append([]string(nil), step.Skills...),
		}
	}
	return out
}
