package store

import (
	"context"
	"strings"

	"github.com/spigell/roadmap-matcher/internal/roadmap"
)

// TemplateFilter narrows a template query. Empty fields match everything.
type TemplateFilter struct {
	// Domain is matched as a case-insensitive substring.
	Domain string
	// Difficulty is matched as a case-insensitive substring.
	Difficulty string
	Limit      int
}

// Page selects a window of a listing.
type Page struct {
	Limit int
	Skip  int
}

// Templates is the read-mostly side of the store. Results are in load order.
type Templates interface {
	ListTemplates(ctx context.Context, filter TemplateFilter) ([]roadmap.Template, error)
	Domains(ctx context.Context) ([]string, error)
	CountTemplates(ctx context.Context, origin string) (int64, error)
	// ReplaceTemplates removes every template of origin and inserts templates in one step.
	ReplaceTemplates(ctx context.Context, origin string, templates []roadmap.Template) (int64, error)
}

// UserRoadmaps holds user-owned roadmaps.
type UserRoadmaps interface {
	// InsertUserRoadmap always creates a new record.
	InsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error)
	// UpsertUserRoadmap creates or regenerates the record keyed by (UserID, Goal).
	// On regeneration the id and creation time are kept and the generation count grows by one.
	UpsertUserRoadmap(ctx context.Context, r *roadmap.UserRoadmap) (*roadmap.UserRoadmap, error)
	ListUserRoadmaps(ctx context.Context, userID string) ([]roadmap.UserRoadmap, error)
	ListAllUserRoadmaps(ctx context.Context, page Page) ([]roadmap.UserRoadmap, int64, error)
	// DeleteUserRoadmap returns roadmap.ErrNotFound unless a record matches both id and owner.
	DeleteUserRoadmap(ctx context.Context, id, userID string) error
}

// Store is the persistence layer of the matching engine.
type Store interface {
	Templates
	UserRoadmaps

	Ping(ctx context.Context) error
	Close() error
}

func foldContains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
