package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/ai"
	"github.com/spigell/roadmap-matcher/internal/utils"
)

const (
	systemInstruction   = "You recommend hands-on practice projects for software learners. Answer with JSON only."
	defaultMaxLogLength = 200
	defaultDifficulty   = "intermediate"
	defaultCategory     = "other"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

//go:embed prompt.md
var promptTemplate string

// Suggester asks Gemini for projects that reinforce a completed phase.
type Suggester struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewSuggester(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Suggester {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Suggester{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (s *Suggester) Suggest(ctx context.Context, phase ai.Phase, limit int) ([]ai.Project, error) {
	name := strings.TrimSpace(phase.Name)
	if name == "" {
		return nil, ai.ErrEmptyPhase
	}
	if limit <= 0 {
		limit = ai.DefaultLimit
	}

	prompt := buildPrompt(name, phase.Skills, limit)

	s.logger.Debug("gemini generate content request",
		zap.String("phase", name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.String("phase", name),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	projects, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	topic := ai.Topic(name)
	if len(projects) > limit {
		projects = projects[:limit]
	}
	for i := range projects {
		projects[i].Phase = name
		projects[i].Topics = []string{topic}
	}

	return projects, nil
}

func buildPrompt(phase string, skills []string, limit int) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Phase: {{PHASE}}\nSkills: {{SKILLS}}\n\nRecommend {{LIMIT}} projects as a JSON array:"
	}

	skillList := "not specified"
	if len(skills) > 0 {
		skillList = strings.Join(skills, ", ")
	}

	prompt := strings.ReplaceAll(template, "{{PHASE}}", phase)
	prompt = strings.ReplaceAll(prompt, "{{SKILLS}}", skillList)
	prompt = strings.ReplaceAll(prompt, "{{LIMIT}}", strconv.Itoa(limit))
	return prompt
}

func parseResponse(raw string) ([]ai.Project, error) {
	cleaned := extractJSON(raw)

	var items []map[string]any
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		var wrapped map[string]any
		if json.Unmarshal([]byte(cleaned), &wrapped) != nil {
			return nil, fmt.Errorf("parse gemini response: %w", err)
		}
		items = coerceObjects(firstArray(wrapped))
	}

	projects := make([]ai.Project, 0, len(items))
	for _, item := range items {
		title := coerceString(item["title"])
		if title == "" {
			continue
		}

		difficulty := strings.ToLower(coerceString(item["difficulty"]))
		if difficulty == "" {
			difficulty = defaultDifficulty
		}
		category := coerceString(item["category"])
		if category == "" {
			category = defaultCategory
		}

		projects = append(projects, ai.Project{
			Title:       title,
			Description: coerceString(item["description"]),
			Difficulty:  difficulty,
			Skills:      coerceStrings(item["skills"]),
			Duration:    coerceString(item["duration"]),
			Category:    category,
		})
	}

	if len(projects) == 0 {
		return nil, errors.New("gemini response contains no projects")
	}
	return projects, nil
}

// firstArray returns the first array value of an object such as {"projects": [...]}.
func firstArray(obj map[string]any) []any {
	for _, key := range []string{"projects", "recommendations"} {
		if arr, ok := obj[key].([]any); ok {
			return arr
		}
	}
	return nil
}

func coerceObjects(values []any) []map[string]any {
	out := make([]map[string]any, 0, len(values))
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		out := make([]string, 0)
		for _, part := range strings.Split(val, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{}
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == math.Trunc(val) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
