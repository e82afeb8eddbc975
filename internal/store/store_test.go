package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

type tickClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *tickClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type factory func(t *testing.T, now func() time.Time) Store

func backends() map[string]factory {
	return map[string]factory{
		"memory": func(_ *testing.T, now func() time.Time) Store {
			m := NewMemory()
			m.now = now
			return m
		},
		"sqlite": func(t *testing.T, now func() time.Time) Store {
			db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "roadmaps.db")), &gorm.Config{
				Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
				NowFunc: now,
			})
			if err != nil {
				t.Fatalf("open sqlite: %v", err)
			}
			s, err := NewGorm(context.Background(), db, zap.NewNop())
			if err != nil {
				t.Fatalf("new gorm store: %v", err)
			}
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
}

func ptr(s string) *string { return &s }

func bulkTemplates() []roadmap.Template {
	return []roadmap.Template{
		{ID: "a:1", SourceID: "1", Dataset: "a", Position: 0, Goal: "Frontend Developer", Domain: "Frontend Development", Difficulty: "Beginner", Steps: []roadmap.Step{{Category: "HTML", Skills: []string{"HTML5"}}}},
		{ID: "a:2", SourceID: "2", Dataset: "a", Position: 1, Goal: "Backend Developer", Domain: "Backend Development", Difficulty: "Intermediate", Steps: []roadmap.Step{{Category: "Go", Skills: []string{"Syntax", "Modules"}}}},
		{ID: "b:1", SourceID: "1", Dataset: "b", Position: 2, Goal: "React Developer", Domain: "frontend development", Difficulty: "Advanced", Steps: []roadmap.Step{{Category: "React", Skills: []string{"Hooks"}}}},
	}
}

func TestTemplates(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			manual := []roadmap.Template{{ID: "manual:1", Origin: "manual", Position: 100, Goal: "Keep Me", Domain: "Other", Steps: []roadmap.Step{{Category: "X"}}}}
			if _, err := s.ReplaceTemplates(ctx, "manual", manual); err != nil {
				t.Fatalf("replace manual: %v", err)
			}

			if _, err := s.ReplaceTemplates(ctx, roadmap.OriginBulkImport, bulkTemplates()); err != nil {
				t.Fatalf("replace bulk: %v", err)
			}
			removed, err := s.ReplaceTemplates(ctx, roadmap.OriginBulkImport, bulkTemplates())
			if err != nil {
				t.Fatalf("replace bulk again: %v", err)
			}
			if removed != 3 {
				t.Fatalf("expected 3 removed templates, got %d", removed)
			}

			bulk, _ := s.CountTemplates(ctx, roadmap.OriginBulkImport)
			all, _ := s.CountTemplates(ctx, "")
			if bulk != 3 || all != 4 {
				t.Fatalf("expected 3 bulk and 4 total templates, got %d and %d", bulk, all)
			}

			listed, err := s.ListTemplates(ctx, TemplateFilter{})
			if err != nil {
				t.Fatalf("list templates: %v", err)
			}
			ids := make([]string, 0, len(listed))
			for _, tpl := range listed {
				ids = append(ids, tpl.ID)
			}
			if !reflect.DeepEqual(ids, []string{"a:1", "a:2", "b:1", "manual:1"}) {
				t.Fatalf("expected load order, got %v", ids)
			}
			if !reflect.DeepEqual(listed[1].Steps, bulkTemplates()[1].Steps) {
				t.Fatalf("expected steps to survive storage, got %+v", listed[1].Steps)
			}
			if listed[0].Origin != roadmap.OriginBulkImport {
				t.Fatalf("expected origin to default to %s, got %q", roadmap.OriginBulkImport, listed[0].Origin)
			}

			frontend, _ := s.ListTemplates(ctx, TemplateFilter{Domain: "FRONTEND"})
			if len(frontend) != 2 {
				t.Fatalf("expected 2 frontend templates, got %d", len(frontend))
			}
			limited, _ := s.ListTemplates(ctx, TemplateFilter{Domain: "frontend", Limit: 1})
			if len(limited) != 1 || limited[0].ID != "a:1" {
				t.Fatalf("expected limit to keep the first template, got %+v", limited)
			}
			advanced, _ := s.ListTemplates(ctx, TemplateFilter{Difficulty: "advanced"})
			if len(advanced) != 1 || advanced[0].ID != "b:1" {
				t.Fatalf("expected one advanced template, got %+v", advanced)
			}

			domains, err := s.Domains(ctx)
			if err != nil {
				t.Fatalf("domains: %v", err)
			}
			expect := []string{"Backend Development", "Frontend Development", "Other", "frontend development"}
			if !reflect.DeepEqual(domains, expect) {
				t.Fatalf("expected domains %v, got %v", expect, domains)
			}
		})
	}
}

func TestListTemplatesTreatsWildcardsLiterally(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			templates := append(bulkTemplates(),
				roadmap.Template{ID: "c:1", Position: 3, Goal: "QA Engineer", Domain: "QA_Testing 100%", Steps: []roadmap.Step{{Category: "QA"}}},
				roadmap.Template{ID: "c:2", Position: 4, Goal: "Windows Admin", Domain: `Ops\Windows`, Steps: []roadmap.Step{{Category: "Ops"}}},
			)
			if _, err := s.ReplaceTemplates(ctx, roadmap.OriginBulkImport, templates); err != nil {
				t.Fatalf("replace: %v", err)
			}

			tests := map[string][]string{
				"_":         {"c:1"},
				"%":         {"c:1"},
				"qa_t":      {"c:1"},
				"100%":      {"c:1"},
				"f%d":       {},
				`ops\`:      {"c:2"},
				"frontend_": {},
			}
			for domain, expect := range tests {
				listed, err := s.ListTemplates(ctx, TemplateFilter{Domain: domain})
				if err != nil {
					t.Fatalf("list %q: %v", domain, err)
				}
				ids := make([]string, 0, len(listed))
				for _, tpl := range listed {
					ids = append(ids, tpl.ID)
				}
				if !reflect.DeepEqual(ids, expect) {
					t.Fatalf("domain %q: expected %v, got %v", domain, expect, ids)
				}
			}
		})
	}
}

func TestUpsertUserRoadmap(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			in := &roadmap.UserRoadmap{
				UserID:         ptr("u1"),
				Title:          "Become a Frontend Developer",
				Goal:           "Become a Frontend Developer",
				Domain:         "Frontend Development",
				Steps:          []roadmap.Step{{Category: "HTML/CSS", Skills: []string{"HTML5", "CSS3"}}},
				BaseTemplateID: "a:1",
			}

			first, err := s.UpsertUserRoadmap(ctx, in)
			if err != nil {
				t.Fatalf("first upsert: %v", err)
			}
			if first.GenerationCount != 1 || first.ID == "" {
				t.Fatalf("expected new roadmap with generation 1, got %+v", first)
			}

			in.Domain = "Web"
			in.BaseTemplateID = "b:1"
			second, err := s.UpsertUserRoadmap(ctx, in)
			if err != nil {
				t.Fatalf("second upsert: %v", err)
			}
			if second.ID != first.ID {
				t.Fatalf("expected id %s to be kept, got %s", first.ID, second.ID)
			}
			if second.GenerationCount != 2 {
				t.Fatalf("expected generation 2, got %d", second.GenerationCount)
			}
			if !second.CreatedAt.Equal(first.CreatedAt) {
				t.Fatalf("expected created_at to be kept, got %v and %v", first.CreatedAt, second.CreatedAt)
			}
			if !second.UpdatedAt.After(first.UpdatedAt) {
				t.Fatalf("expected updated_at to move forward, got %v and %v", first.UpdatedAt, second.UpdatedAt)
			}
			if second.Domain != "Web" || second.BaseTemplateID != "b:1" {
				t.Fatalf("expected regenerated fields, got %+v", second)
			}

			in.Goal = "become a frontend developer"
			other, err := s.UpsertUserRoadmap(ctx, in)
			if err != nil {
				t.Fatalf("upsert with different goal case: %v", err)
			}
			if other.ID == first.ID {
				t.Fatalf("expected goal matching to be case-sensitive")
			}

			if _, err := s.UpsertUserRoadmap(ctx, &roadmap.UserRoadmap{Goal: "anonymous"}); err == nil {
				t.Fatalf("expected upsert without user to fail")
			}
		})
	}
}

func TestInsertAnonymousRoadmaps(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			r := &roadmap.UserRoadmap{Goal: "Go Developer", Title: "Go Developer", Domain: "Backend"}
			first, err := s.InsertUserRoadmap(ctx, r)
			if err != nil {
				t.Fatalf("first insert: %v", err)
			}
			second, err := s.InsertUserRoadmap(ctx, r)
			if err != nil {
				t.Fatalf("second insert: %v", err)
			}
			if first.ID == second.ID {
				t.Fatalf("expected distinct ids for anonymous roadmaps")
			}
			if first.GenerationCount != 1 || second.GenerationCount != 1 {
				t.Fatalf("expected generation 1 for inserts, got %d and %d", first.GenerationCount, second.GenerationCount)
			}

			_, total, err := s.ListAllUserRoadmaps(ctx, Page{})
			if err != nil {
				t.Fatalf("list all: %v", err)
			}
			if total != 2 {
				t.Fatalf("expected 2 roadmaps, got %d", total)
			}
		})
	}
}

func TestListUserRoadmaps(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			for _, goal := range []string{"first", "second", "first"} {
				if _, err := s.UpsertUserRoadmap(ctx, &roadmap.UserRoadmap{UserID: ptr("u1"), Goal: goal, Title: goal}); err != nil {
					t.Fatalf("upsert %s: %v", goal, err)
				}
			}
			if _, err := s.UpsertUserRoadmap(ctx, &roadmap.UserRoadmap{UserID: ptr("u2"), Goal: "third", Title: "third"}); err != nil {
				t.Fatalf("upsert third: %v", err)
			}

			listed, err := s.ListUserRoadmaps(ctx, "u1")
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(listed) != 2 || listed[0].Goal != "first" || listed[1].Goal != "second" {
				t.Fatalf("expected [first second], got %+v", listed)
			}

			page, total, err := s.ListAllUserRoadmaps(ctx, Page{Limit: 1, Skip: 1})
			if err != nil {
				t.Fatalf("list all: %v", err)
			}
			if total != 3 {
				t.Fatalf("expected total 3, got %d", total)
			}
			if len(page) != 1 || page[0].Goal != "first" {
				t.Fatalf("expected second most recent roadmap, got %+v", page)
			}

			empty, _, _ := s.ListAllUserRoadmaps(ctx, Page{Limit: 10, Skip: 10})
			if len(empty) != 0 {
				t.Fatalf("expected empty page, got %d", len(empty))
			}
		})
	}
}

func TestDeleteUserRoadmap(t *testing.T) {
	t.Parallel()

	for name, newStore := range backends() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			s := newStore(t, newTickClock().now)

			owned, err := s.UpsertUserRoadmap(ctx, &roadmap.UserRoadmap{UserID: ptr("owner"), Goal: "goal", Title: "goal"})
			if err != nil {
				t.Fatalf("upsert: %v", err)
			}
			anonymous, err := s.InsertUserRoadmap(ctx, &roadmap.UserRoadmap{Goal: "goal", Title: "goal"})
			if err != nil {
				t.Fatalf("insert: %v", err)
			}

			tests := []struct {
				name   string
				id     string
				user   string
				expect error
			}{
				{name: "wrong owner", id: owned.ID, user: "intruder", expect: roadmap.ErrNotFound},
				{name: "unknown id", id: "missing", user: "owner", expect: roadmap.ErrNotFound},
				{name: "anonymous roadmap", id: anonymous.ID, user: "", expect: roadmap.ErrNotFound},
				{name: "owner", id: owned.ID, user: "owner", expect: nil},
				{name: "already deleted", id: owned.ID, user: "owner", expect: roadmap.ErrNotFound},
			}

			for _, tt := range tests {
				if err := s.DeleteUserRoadmap(ctx, tt.id, tt.user); !errors.Is(err, tt.expect) {
					t.Fatalf("%s: expected %v, got %v", tt.name, tt.expect, err)
				}
			}

			again, err := s.UpsertUserRoadmap(ctx, &roadmap.UserRoadmap{UserID: ptr("owner"), Goal: "goal", Title: "goal"})
			if err != nil {
				t.Fatalf("upsert after delete: %v", err)
			}
			if again.ID == owned.ID || again.GenerationCount != 1 {
				t.Fatalf("expected a fresh roadmap after delete, got %+v", again)
			}
		})
	}
}

func TestOpenMemory(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{Driver: "memory"}, "", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := s.(*Memory); !ok {
		t.Fatalf("expected memory store, got %T", s)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	if _, err := Open(context.Background(), Config{Driver: "oracle"}, "", nil); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}

func TestEphemeral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cfg    Config
		dsn    string
		expect bool
	}{
		{cfg: Config{}, expect: true},
		{cfg: Config{Driver: "Memory"}, expect: true},
		{cfg: Config{Driver: DriverSQLite}, expect: true},
		{cfg: Config{Driver: DriverSQLite}, dsn: "file::memory:?cache=shared", expect: true},
		{cfg: Config{Driver: DriverSQLite}, dsn: "file:roadmaps?mode=memory", expect: true},
		{cfg: Config{Driver: DriverSQLite}, dsn: "/var/lib/roadmaps.db"},
		{cfg: Config{Driver: DriverPostgres}, dsn: "postgres://db/roadmaps"},
	}

	for _, tt := range tests {
		if got := Ephemeral(tt.cfg, tt.dsn); got != tt.expect {
			t.Fatalf("Ephemeral(%q, %q): expected %v, got %v", tt.cfg.Driver, tt.dsn, tt.expect, got)
		}
	}
}
