package engine

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
	"github.com/spigell/roadmap-matcher/internal/store"
)

type recordingStore struct {
	*store.Memory
	reads  int
	writes int
}

func (s *recordingStore) ListTemplates(ctx context.Context, filter store.TemplateFilter) ([]roadmap.Template, error) {
	s.reads++
	return s.Memory.ListTemplates(ctx, filter)
}

func (s *recordingStore) InsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	s.writes++
	return s.Memory.InsertUserRoadmap(ctx, r)
}

func (s *recordingStore) UpsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error) {
	s.writes++
	return s.Memory.UpsertUserRoadmap(ctx, r)
}

func fixtureTemplates(t *testing.T) []roadmap.Template {
	t.Helper()

	raw := []roadmap.Template{
		{ID: "main:1", Goal: "Become a Frontend Developer", Domain: "Frontend Development", RawText: "HTML/CSS: HTML5; CSS3", Difficulty: "Beginner", EstimatedHours: 200},
		{ID: "main:2", Goal: "Become a Backend Developer", Domain: "Backend Development", RawText: "Languages: Go; Python | Databases: PostgreSQL", Difficulty: "Intermediate", EstimatedHours: 300},
		{ID: "main:3", Goal: "Machine Learning Engineer", Domain: "Data Science", RawText: "Math: Linear Algebra | ML: PyTorch", Difficulty: "Advanced", EstimatedHours: 600},
	}
	for i := range raw {
		steps, err := roadmap.ParseSteps(raw[i].RawText)
		if err != nil {
			t.Fatalf("parse fixture %s: %v", raw[i].ID, err)
		}
		raw[i].Steps = steps
		raw[i].Position = i
		raw[i].Origin = roadmap.OriginBulkImport
	}
	return raw
}

func newTestEngine(t *testing.T, templates []roadmap.Template) (*Engine, *recordingStore) {
	t.Helper()

	mem := store.NewMemory()
	if _, err := mem.ReplaceTemplates(context.Background(), roadmap.OriginBulkImport, templates); err != nil {
		t.Fatalf("seed templates: %v", err)
	}
	s := &recordingStore{Memory: mem}
	return New(s, nil, zap.NewNop()), s
}

func TestGenerateRoadmapExampleScenario(t *testing.T) {
	t.Parallel()

	steps := []roadmap.Step{{Category: "HTML/CSS", Skills: []string{"HTML5", "CSS3"}}}
	eng, _ := newTestEngine(t, []roadmap.Template{{
		ID:     "main:1",
		Goal:   "Become a Frontend Developer",
		Domain: "Frontend Development",
		Steps:  steps,
	}})
	ctx := context.Background()
	req := Request{Goal: "become a frontend developer", Domain: "Frontend Development", UserID: "u1"}

	first, err := eng.GenerateRoadmap(ctx, req)
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if first.BaseTemplateID != "main:1" {
		t.Fatalf("expected main:1, got %s", first.BaseTemplateID)
	}
	if first.MatchScore < 0 || first.MatchScore > 1 {
		t.Fatalf("match score out of range: %v", first.MatchScore)
	}
	if first.MatchScore != 1 {
		t.Fatalf("expected a full word match, got %v", first.MatchScore)
	}
	if first.GenerationCount != 1 {
		t.Fatalf("expected generation 1, got %d", first.GenerationCount)
	}
	if first.Fallback {
		t.Fatal("exact match must not fall back")
	}
	if first.Difficulty != roadmap.DefaultDifficulty || first.EstimatedHours != roadmap.DefaultEstimatedHours {
		t.Fatalf("expected defaults, got %q/%d", first.Difficulty, first.EstimatedHours)
	}

	second, err := eng.GenerateRoadmap(ctx, req)
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("regeneration changed id: %s != %s", second.ID, first.ID)
	}
	if second.GenerationCount != first.GenerationCount+1 {
		t.Fatalf("expected generation %d, got %d", first.GenerationCount+1, second.GenerationCount)
	}

	list, err := eng.ListUserRoadmaps(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one stored roadmap, got %d", len(list))
	}
}

func TestGenerateRoadmapCopiesSteps(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, fixtureTemplates(t))
	ctx := context.Background()

	res, err := eng.GenerateRoadmap(ctx, Request{Goal: "Become a Backend Developer", UserID: "u1"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	res.Steps[0].Skills[0] = "mutated"

	templates, err := eng.Store().ListTemplates(ctx, store.TemplateFilter{Domain: "Backend"})
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if templates[0].Steps[0].Skills[0] != "Go" {
		t.Fatalf("template steps were shared with the result: %v", templates[0].Steps)
	}
}

func TestGenerateRoadmapAnonymousNeverCollides(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, fixtureTemplates(t))
	ctx := context.Background()
	req := Request{Goal: "Become a Backend Developer"}

	first, err := eng.GenerateRoadmap(ctx, req)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := eng.GenerateRoadmap(ctx, req)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("anonymous roadmaps share id %s", first.ID)
	}
	if first.GenerationCount != 1 || second.GenerationCount != 1 {
		t.Fatalf("anonymous roadmaps must start at generation 1: %d, %d", first.GenerationCount, second.GenerationCount)
	}

	_, total, err := eng.ListAllUserRoadmaps(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 stored roadmaps, got %d", total)
	}
}

func TestGenerateRoadmapEmptyGoal(t *testing.T) {
	t.Parallel()

	for _, goal := range []string{"", "   ", "\t\n"} {
		eng, spy := newTestEngine(t, fixtureTemplates(t))

		_, err := eng.GenerateRoadmap(context.Background(), Request{Goal: goal, UserID: "u1"})
		if !errors.Is(err, roadmap.ErrEmptyGoal) {
			t.Fatalf("goal %q: expected ErrEmptyGoal, got %v", goal, err)
		}
		if spy.reads != 0 || spy.writes != 0 {
			t.Fatalf("goal %q: store touched (%d reads, %d writes)", goal, spy.reads, spy.writes)
		}
	}
}

func TestGenerateRoadmapNoTemplates(t *testing.T) {
	t.Parallel()

	eng, spy := newTestEngine(t, nil)

	_, err := eng.GenerateRoadmap(context.Background(), Request{Goal: "anything"})
	if !errors.Is(err, roadmap.ErrNoTemplatesAvailable) {
		t.Fatalf("expected ErrNoTemplatesAvailable, got %v", err)
	}
	if spy.writes != 0 {
		t.Fatalf("expected no writes, got %d", spy.writes)
	}
}

func TestGenerateRoadmapDomainFallback(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, fixtureTemplates(t))

	res, err := eng.GenerateRoadmap(context.Background(), Request{
		Goal:   "Become a Backend Developer",
		Domain: "Underwater Basket Weaving",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.BaseTemplateID != "main:2" {
		t.Fatalf("expected main:2 from the full set, got %s", res.BaseTemplateID)
	}
	if res.Domain != "Backend Development" {
		t.Fatalf("expected template domain, got %q", res.Domain)
	}
}

func TestDeleteUserRoadmapOwnership(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, fixtureTemplates(t))
	ctx := context.Background()

	res, err := eng.GenerateRoadmap(ctx, Request{Goal: "Machine Learning Engineer", UserID: "owner"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tests := []struct {
		name   string
		id     string
		userID string
	}{
		{name: "wrong owner", id: res.ID, userID: "intruder"},
		{name: "missing id", id: "missing", userID: "owner"},
		{name: "empty user", id: res.ID, userID: ""},
		{name: "empty id", id: "", userID: "owner"},
	}
	for _, tt := range tests {
		if err := eng.DeleteUserRoadmap(ctx, tt.id, tt.userID); !errors.Is(err, roadmap.ErrNotFound) {
			t.Fatalf("%s: expected ErrNotFound, got %v", tt.name, err)
		}
	}

	if err := eng.DeleteUserRoadmap(ctx, res.ID, "owner"); err != nil {
		t.Fatalf("delete by owner: %v", err)
	}
	if err := eng.DeleteUserRoadmap(ctx, res.ID, "owner"); !errors.Is(err, roadmap.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}

	list, err := eng.ListUserRoadmaps(ctx, "owner")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("expected no roadmaps after delete, got %d", len(list))
	}
}

func TestListUserRoadmapsEmptyUser(t *testing.T) {
	t.Parallel()

	eng, spy := newTestEngine(t, fixtureTemplates(t))
	if _, err := eng.GenerateRoadmap(context.Background(), Request{Goal: "Machine Learning Engineer"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	list, err := eng.ListUserRoadmaps(context.Background(), " ")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected an empty non-nil list, got %v", list)
	}
	if spy.writes != 1 {
		t.Fatalf("expected one write, got %d", spy.writes)
	}
}

func TestListDomains(t *testing.T) {
	t.Parallel()

	eng, _ := newTestEngine(t, fixtureTemplates(t))

	domains, err := eng.ListDomains(context.Background())
	if err != nil {
		t.Fatalf("domains: %v", err)
	}
	want := []string{"Backend Development", "Data Science", "Frontend Development"}
	if len(domains) != len(want) {
		t.Fatalf("expected %v, got %v", want, domains)
	}
	for i := range want {
		if domains[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, domains)
		}
	}
}

func TestExplain(t *testing.T) {
	t.Parallel()

	eng, spy := newTestEngine(t, fixtureTemplates(t))

	report, err := eng.Explain(context.Background(), Request{Goal: "machine learning engineer"})
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if report.TemplateID != "main:3" {
		t.Fatalf("expected main:3, got %s", report.TemplateID)
	}
	if report.Candidates != 3 {
		t.Fatalf("expected 3 candidates, got %d", report.Candidates)
	}
	if len(report.Breakdown.Contributions) == 0 {
		t.Fatal("expected a signal breakdown")
	}
	if spy.writes != 0 {
		t.Fatalf("explain must not write, got %d writes", spy.writes)
	}

	if _, err := eng.Explain(context.Background(), Request{}); !errors.Is(err, roadmap.ErrEmptyGoal) {
		t.Fatalf("expected ErrEmptyGoal, got %v", err)
	}
}
