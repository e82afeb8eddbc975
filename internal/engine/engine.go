package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/logger"
	"github.com/spigell/roadmap-matcher/internal/matching"
	"github.com/spigell/roadmap-matcher/internal/roadmap"
	"github.com/spigell/roadmap-matcher/internal/store"
)

const tracerName = "github.com/spigell/roadmap-matcher/internal/engine"

// Request asks for a roadmap. Domain and UserID are optional.
type Request struct {
	Goal   string `json:"goal"`
	Domain string `json:"domain,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// Result is a generated roadmap as returned to callers.
type Result struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Goal             string         `json:"goal"`
	Domain           string         `json:"domain"`
	Steps            []roadmap.Step `json:"steps"`
	Difficulty       string         `json:"difficulty"`
	EstimatedHours   int            `json:"estimated_hours"`
	Prerequisites    string         `json:"prerequisites"`
	LearningOutcomes string         `json:"learning_outcomes"`
	// MatchScore is the word-set similarity of the goal and the template goal, in [0, 1].
	MatchScore float64 `json:"match_score"`
	// SelectionScore is the raw multi-signal score that picked the template.
	SelectionScore  float64   `json:"selection_score"`
	Fallback        bool      `json:"fallback"`
	BaseTemplateID  string    `json:"base_template_id"`
	GenerationCount int       `json:"generation_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Engine exposes the roadmap operations on top of a store.
type Engine struct {
	store    store.Store
	selector *matching.Selector
	logger   *zap.Logger
	tracer   trace.Tracer
}

// New creates an engine. A nil selector uses the default vocabulary.
func New(s store.Store, selector *matching.Selector, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	if selector == nil {
		selector = matching.NewSelector(nil, log)
	}
	return &Engine{
		store:    s,
		selector: selector,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}
}

// Store returns the underlying store.
func (e *Engine) Store() store.Store { return e.store }

// GenerateRoadmap selects the best template for the request and materializes it for the user.
// Requests with a user regenerate the existing roadmap for the same goal instead of adding a new one.
func (e *Engine) GenerateRoadmap(ctx context.Context, req Request) (*Result, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return nil, roadmap.ErrEmptyGoal
	}
	domain := strings.TrimSpace(req.Domain)
	userID := strings.TrimSpace(req.UserID)

	ctx, span := e.tracer.Start(ctx, "engine.GenerateRoadmap", trace.WithAttributes(
		attribute.String("roadmap.goal", goal),
		attribute.String("roadmap.domain", domain),
		attribute.Bool("roadmap.anonymous", userID == ""),
	))
	defer span.End()

	log := logger.WithFields(e.logger, logger.RequestFields(goal, domain, userID)...)

	match, err := e.match(ctx, goal, domain)
	if err != nil {
		return nil, spanError(span, err)
	}
	tpl := match.Template

	record := &roadmap.UserRoadmap{
		Title:          goal,
		Goal:           goal,
		Domain:         tpl.Domain,
		Steps:          roadmap.CloneSteps(tpl.Steps),
		BaseTemplateID: tpl.ID,
	}

	var stored *roadmap.UserRoadmap
	if userID == "" {
		stored, err = e.store.InsertUserRoadmap(ctx, record)
	} else {
		record.UserID = &userID
		stored, err = e.store.UpsertUserRoadmap(ctx, record)
	}
	if err != nil {
		return nil, spanError(span, fmt.Errorf("save user roadmap: %w", err))
	}

	result := &Result{
		ID:               stored.ID,
		Title:            stored.Title,
		Goal:             stored.Goal,
		Domain:           stored.Domain,
		Steps:            stored.Steps,
		Difficulty:       tpl.Difficulty,
		EstimatedHours:   tpl.EstimatedHours,
		Prerequisites:    tpl.Prerequisites,
		LearningOutcomes: tpl.LearningOutcomes,
		MatchScore:       matching.DisplayScore(goal, tpl.Goal),
		SelectionScore:   match.Score,
		Fallback:         match.Fallback,
		BaseTemplateID:   tpl.ID,
		GenerationCount:  stored.GenerationCount,
		CreatedAt:        stored.CreatedAt,
		UpdatedAt:        stored.UpdatedAt,
	}
	if result.Difficulty == "" {
		result.Difficulty = roadmap.DefaultDifficulty
	}
	if result.EstimatedHours <= 0 {
		result.EstimatedHours = roadmap.DefaultEstimatedHours
	}

	span.SetAttributes(
		attribute.String("roadmap.template_id", tpl.ID),
		attribute.Float64("roadmap.selection_score", match.Score),
		attribute.Bool("roadmap.fallback", match.Fallback),
		attribute.Int("roadmap.generation", stored.GenerationCount),
	)

	log.Info("roadmap generated",
		zap.String("roadmap_id", result.ID),
		zap.String("template_id", tpl.ID),
		zap.String("matched_domain", tpl.Domain),
		zap.Float64("match_score", result.MatchScore),
		zap.Float64("selection_score", match.Score),
		zap.Int("steps", len(result.Steps)),
		zap.Int("generation", result.GenerationCount),
	)

	return result, nil
}

func (e *Engine) match(ctx context.Context, goal, domain string) (*matching.Match, error) {
	templates, err := e.store.ListTemplates(ctx, store.TemplateFilter{})
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return nil, roadmap.ErrNoTemplatesAvailable
	}
	return e.selector.Select(goal, domain, templates)
}

// MatchReport explains a selection without saving anything.
type MatchReport struct {
	TemplateID   string               `json:"template_id"`
	TemplateGoal string               `json:"template_goal"`
	Domain       string               `json:"domain"`
	Score        float64              `json:"score"`
	MatchScore   float64              `json:"match_score"`
	Fallback     bool                 `json:"fallback"`
	Candidates   int                  `json:"candidates"`
	Breakdown    matching.Explanation `json:"breakdown"`
}

// Explain runs the selection for req and returns the per-signal breakdown of the chosen template.
func (e *Engine) Explain(ctx context.Context, req Request) (*MatchReport, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return nil, roadmap.ErrEmptyGoal
	}

	match, err := e.match(ctx, goal, req.Domain)
	if err != nil {
		return nil, err
	}

	q := matching.NewQuery(goal, req.Domain)
	return &MatchReport{
		TemplateID:   match.Template.ID,
		TemplateGoal: match.Template.Goal,
		Domain:       match.Template.Domain,
		Score:        match.Score,
		MatchScore:   matching.DisplayScore(goal, match.Template.Goal),
		Fallback:     match.Fallback,
		Candidates:   match.Candidates,
		Breakdown:    e.selector.Scorer().Explain(q, matching.NewCandidate(match.Template)),
	}, nil
}

// ListDomains returns the distinct template domains.
func (e *Engine) ListDomains(ctx context.Context) ([]string, error) {
	return e.store.Domains(ctx)
}

// ListUserRoadmaps returns the roadmaps of userID, most recently updated first.
func (e *Engine) ListUserRoadmaps(ctx context.Context, userID string) ([]roadmap.UserRoadmap, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return []roadmap.UserRoadmap{}, nil
	}
	return e.store.ListUserRoadmaps(ctx, userID)
}

// ListAllUserRoadmaps returns one page of every user roadmap and the total count.
func (e *Engine) ListAllUserRoadmaps(ctx context.Context, limit, skip int) ([]roadmap.UserRoadmap, int64, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if skip < 0 {
		skip = 0
	}
	return e.store.ListAllUserRoadmaps(ctx, store.Page{Limit: limit, Skip: skip})
}

// DeleteUserRoadmap removes roadmap id when it belongs to userID.
// A missing roadmap and a roadmap of another user both yield roadmap.ErrNotFound.
func (e *Engine) DeleteUserRoadmap(ctx context.Context, id, userID string) error {
	id = strings.TrimSpace(id)
	userID = strings.TrimSpace(userID)
	if id == "" || userID == "" {
		return roadmap.ErrNotFound
	}

	err := e.store.DeleteUserRoadmap(ctx, id, userID)
	if err != nil && !errors.Is(err, roadmap.ErrNotFound) {
		return fmt.Errorf("delete roadmap: %w", err)
	}
	if err == nil {
		e.logger.Info("roadmap deleted", zap.String("roadmap_id", id), zap.String(logger.FieldUserID, userID))
	}
	return err
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
