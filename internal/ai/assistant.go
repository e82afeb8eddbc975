package ai

import (
	"context"
	"errors"
	"strings"
)

const (
	MethodAI    = "phase-based-ai"
	MethodRules = "phase-based-rules"

	DefaultLimit = 3
)

var ErrEmptyPhase = errors.New("phase must not be empty")

// Phase is a completed roadmap phase the user wants practice projects for.
type Phase struct {
	Name   string   `json:"phase"`
	Skills []string `json:"skills,omitempty"`
}

// Project is a suggested practice project.
type Project struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Difficulty  string   `json:"difficulty"`
	Skills      []string `json:"skills"`
	Duration    string   `json:"duration"`
	Category    string   `json:"category"`
	Phase       string   `json:"phase"`
	Topics      []string `json:"topics"`
}

// Suggester proposes projects that reinforce a completed phase.
type Suggester interface {
	Suggest(ctx context.Context, phase Phase, limit int) ([]Project, error)
}

// Topic is the slug used to tag projects of a phase.
func Topic(phase string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(phase)), " ", "-")
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
